package main

import (
	"io"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/safing/sysresolvers/base/log"
	"github.com/safing/sysresolvers/service/netenv"
)

var logMetrics = vm.NewSet()

func init() {
	logMetrics.NewGauge(`sysresolvers_log_lines_total{severity="warning"}`, func() float64 {
		return float64(log.TotalWarningLogLines())
	})
	logMetrics.NewGauge(`sysresolvers_log_lines_total{severity="error"}`, func() float64 {
		return float64(log.TotalErrorLogLines())
	})
	logMetrics.NewGauge(`sysresolvers_log_lines_total{severity="critical"}`, func() float64 {
		return float64(log.TotalCriticalLogLines())
	})
}

// writeMetrics writes the discovery and log metrics in the Prometheus text format.
func writeMetrics(w io.Writer) {
	netenv.WriteMetrics(w)
	logMetrics.WritePrometheus(w)
}
