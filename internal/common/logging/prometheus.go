package logging

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
	"github.com/weaveworks/promrus"
)

const logMessagesMetricPrefix = "log_messages"

var (
	hookMu sync.Mutex
	hook   *promrus.PrometheusHook
	hooked = map[*log.Logger]bool{}
)

// AddPrometheusHook counts the log lines of logger per level on the default Prometheus
// registry. Every logger shares the one counter, and adding a logger twice is a no-op.
func AddPrometheusHook(logger *log.Logger) error {
	hookMu.Lock()
	defer hookMu.Unlock()
	if hooked[logger] {
		return nil
	}
	if hook == nil {
		h, err := promrus.NewPrometheusHook()
		if err != nil {
			return errors.Wrap(err, "registering log message counter")
		}
		hook = h
	}
	logger.AddHook(hook)
	hooked[logger] = true
	return nil
}

// LogMessagesGatherer gathers only the log line counters from the default registry, leaving
// out the process and runtime collectors registered there.
var LogMessagesGatherer = prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, err
	}
	var kept []*dto.MetricFamily
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), logMessagesMetricPrefix) {
			kept = append(kept, f)
		}
	}
	return kept, nil
})
