// Package metrics records what the inline plugin did during each build.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so no nil checks are needed and metrics cost nothing unless
// a real recorder is injected:
//
//	rec := metrics.NewPrometheusRecorder(reg)
//	p, err := styleext.New(opts, styleext.WithRecorder(rec))
//
// The CLI writes the registry to a node-exporter text file after each build
// when metrics.textfile is configured.
package metrics
