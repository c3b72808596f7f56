package logging

import (
	"io"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPrometheusHook(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)

	require.NoError(t, AddPrometheusHook(logger))
	require.NoError(t, AddPrometheusHook(logger))
	logger.Error("something went wrong")

	families, err := LogMessagesGatherer.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	for _, f := range families {
		assert.True(t, strings.HasPrefix(f.GetName(), "log_messages"), f.GetName())
	}
}

func TestAddPrometheusHook_EveryLogger(t *testing.T) {
	first := log.New()
	first.SetOutput(io.Discard)
	second := log.New()
	second.SetOutput(io.Discard)
	require.NoError(t, AddPrometheusHook(first))
	require.NoError(t, AddPrometheusHook(second))
	require.NoError(t, AddPrometheusHook(second))

	before := errorLines(t)
	first.Error("first")
	second.Error("second")

	assert.Equal(t, before+2, errorLines(t))
}

func errorLines(t *testing.T) float64 {
	t.Helper()
	families, err := LogMessagesGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "level" && l.GetValue() == log.ErrorLevel.String() {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
