package util

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	first := NewULID()
	second := NewULID()
	assert.Len(t, first, ulid.EncodedSize)
	assert.Equal(t, strings.ToLower(first), first)
	assert.Less(t, first, second)
}

func TestNewULIDAt(t *testing.T) {
	at := time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)
	id, err := ulid.Parse(strings.ToUpper(NewULIDAt(at)))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), id.Time())
}
