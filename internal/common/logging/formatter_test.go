package logging

import (
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLineFormatter(t *testing.T) {
	tests := map[string]struct {
		entry    *log.Entry
		expected string
	}{
		"message only": {
			entry:    &log.Entry{Message: "hello", Data: log.Fields{}},
			expected: "hello\n",
		},
		"other fields are dropped": {
			entry:    &log.Entry{Message: "hello", Data: log.Fields{"invocation": "01gf"}},
			expected: "hello\n",
		},
		"error is appended": {
			entry:    &log.Entry{Message: "query failed", Data: log.Fields{log.ErrorKey: errors.New("exit status 1")}},
			expected: "query failed: exit status 1\n",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := (&CommandLineFormatter{}).Format(tc.entry)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(out))
		})
	}
}
