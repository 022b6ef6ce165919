package netenv

import (
	"io"

	vm "github.com/VictoriaMetrics/metrics"
)

var (
	metricsSet = vm.NewSet()

	queriesTotal        = metricsSet.NewCounter("sysresolvers_queries_total")
	queryErrorsTotal    = metricsSet.NewCounter("sysresolvers_query_errors_total")
	skippedEntriesTotal = metricsSet.NewCounter("sysresolvers_skipped_entries_total")
	resolverCount       = metricsSet.NewHistogram("sysresolvers_resolvers")
)

// WriteMetrics writes the discovery metrics in the Prometheus text format.
func WriteMetrics(w io.Writer) {
	metricsSet.WritePrometheus(w)
}
