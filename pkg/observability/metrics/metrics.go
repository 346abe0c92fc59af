// Package metrics exposes process counters in Prometheus text format
// without pulling a client library into the services.
package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	batchesAnonymized    atomic.Int64
	recordsAnonymized    atomic.Int64
	recordsSkipped       atomic.Int64
	categoriesSuppressed atomic.Int64
	contextsFiltered     atomic.Int64
	eventsPublished      atomic.Int64
	eventsFailed         atomic.Int64
)

func ObserveAnonymizedBatch(records, skipped int) {
	batchesAnonymized.Add(1)
	recordsAnonymized.Add(int64(records))
	recordsSkipped.Add(int64(skipped))
}

func ObserveSuppressedCategories(n int) {
	categoriesSuppressed.Add(int64(n))
}

func ObserveFilteredContext() {
	contextsFiltered.Add(1)
}

func ObservePublish(err error) {
	if err != nil {
		eventsFailed.Add(1)
		return
	}
	eventsPublished.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP wellnesshub_privacy_batches_anonymized_total Number of record batches run through the anonymization pipeline.\n")
	fmt.Fprintf(w, "# TYPE wellnesshub_privacy_batches_anonymized_total counter\n")
	fmt.Fprintf(w, "wellnesshub_privacy_batches_anonymized_total %d\n", batchesAnonymized.Load())

	fmt.Fprintf(w, "# HELP wellnesshub_privacy_records_anonymized_total Number of individual records anonymized.\n")
	fmt.Fprintf(w, "# TYPE wellnesshub_privacy_records_anonymized_total counter\n")
	fmt.Fprintf(w, "wellnesshub_privacy_records_anonymized_total %d\n", recordsAnonymized.Load())

	fmt.Fprintf(w, "# HELP wellnesshub_privacy_records_skipped_total Number of malformed records skipped during aggregation.\n")
	fmt.Fprintf(w, "# TYPE wellnesshub_privacy_records_skipped_total counter\n")
	fmt.Fprintf(w, "wellnesshub_privacy_records_skipped_total %d\n", recordsSkipped.Load())

	fmt.Fprintf(w, "# HELP wellnesshub_privacy_categories_suppressed_total Number of aggregate categories removed for falling under the minimum group size.\n")
	fmt.Fprintf(w, "# TYPE wellnesshub_privacy_categories_suppressed_total counter\n")
	fmt.Fprintf(w, "wellnesshub_privacy_categories_suppressed_total %d\n", categoriesSuppressed.Load())

	fmt.Fprintf(w, "# HELP wellnesshub_privacy_contexts_filtered_total Number of contexts passed through the role filter.\n")
	fmt.Fprintf(w, "# TYPE wellnesshub_privacy_contexts_filtered_total counter\n")
	fmt.Fprintf(w, "wellnesshub_privacy_contexts_filtered_total %d\n", contextsFiltered.Load())

	fmt.Fprintf(w, "# HELP wellnesshub_privacy_events_published_total Number of anonymized metric events published to the broker.\n")
	fmt.Fprintf(w, "# TYPE wellnesshub_privacy_events_published_total counter\n")
	fmt.Fprintf(w, "wellnesshub_privacy_events_published_total %d\n", eventsPublished.Load())

	fmt.Fprintf(w, "# HELP wellnesshub_privacy_events_failed_total Number of metric event publishes that failed.\n")
	fmt.Fprintf(w, "# TYPE wellnesshub_privacy_events_failed_total counter\n")
	fmt.Fprintf(w, "wellnesshub_privacy_events_failed_total %d\n", eventsFailed.Load())
}
