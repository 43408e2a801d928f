// Package metrics records publish and delete activity.
//
// Components receive a Recorder through their constructors and default to
// NoopRecorder, so metrics stay optional. PrometheusRecorder is the real
// implementation; the CLI writes its registry to a node-exporter textfile.
package metrics

import "time"

// Operation names the engine operation being measured.
type Operation string

const (
	OpPublish Operation = "publish"
	OpDelete  Operation = "delete"
)

// ResultLabel enumerates operation outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines the observability hooks of the engine and batch driver.
type Recorder interface {
	IncOperation(op Operation, result ResultLabel)
	ObserveOperationDuration(op Operation, d time.Duration)
	AddBytesWritten(n int)
	IncRenderFailure(statusCode int)
	IncDirectoryPruned()
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncOperation(Operation, ResultLabel)               {}
func (NoopRecorder) ObserveOperationDuration(Operation, time.Duration) {}
func (NoopRecorder) AddBytesWritten(int)                               {}
func (NoopRecorder) IncRenderFailure(int)                              {}
func (NoopRecorder) IncDirectoryPruned()                               {}

// ResultOf maps an error to its ResultLabel.
func ResultOf(err error) ResultLabel {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}
