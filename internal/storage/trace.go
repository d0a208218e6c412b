package storage

import (
	"encoding/csv"
	"os"

	"spinmc/internal/mc"
)

// TraceRecorder streams estimator samples to a csv file as the run
// progresses. It implements mc.Observer and is attached only when a trace
// filepath is configured. Close flushes and closes the file.
type TraceRecorder struct {
	file        *os.File
	w           *csv.Writer
	wroteHeader bool
	err         error
}

var _ mc.Observer = (*TraceRecorder)(nil)

func NewTraceRecorder(path string) (*TraceRecorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &TraceRecorder{file: file, w: csv.NewWriter(file)}, nil
}

func (t *TraceRecorder) OnSweep(sweep int, phase mc.Phase) {}

func (t *TraceRecorder) OnSample(s mc.Sample) {
	if t.err != nil {
		return
	}
	if !t.wroteHeader {
		if err := t.w.Write(traceHeader(len(s.SpinVector))); err != nil {
			t.err = err
			return
		}
		t.wroteHeader = true
	}
	if err := t.w.Write(traceRow(s)); err != nil {
		t.err = err
	}
}

// Err reports the first write failure, if any.
func (t *TraceRecorder) Err() error { return t.err }

func (t *TraceRecorder) Close() error {
	t.w.Flush()
	if err := t.w.Error(); err != nil && t.err == nil {
		t.err = err
	}
	if err := t.file.Close(); err != nil && t.err == nil {
		t.err = err
	}
	return t.err
}
