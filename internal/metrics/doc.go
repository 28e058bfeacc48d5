// Package metrics records run metrics for beandoc.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing; PrometheusRecorder collects into a Prometheus
// registry that can be written to a node-exporter textfile at the end of a
// run:
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	// ... run ...
//	err := recorder.WriteTextfile("/var/lib/node_exporter/beandoc.prom")
//
// All methods of PrometheusRecorder are safe on a nil receiver.
package metrics
