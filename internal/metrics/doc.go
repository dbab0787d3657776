// Package metrics defines the observability hooks used while running a build.
//
// The [Recorder] interface is implemented by [NoopRecorder] (the default) and
// [PrometheusRecorder]. Since barn is a short-lived process rather than a
// server, Prometheus metrics are not scraped; instead the registry is written
// in the text exposition format to a file with [WriteTextfile], ready for the
// node exporter's textfile collector.
package metrics
