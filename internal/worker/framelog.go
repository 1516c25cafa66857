package worker

import (
	"fmt"
	"io"
	"sync"

	"github.com/gocarina/gocsv"
)

// FrameRecord is one row of the live-loop frame log.
type FrameRecord struct {
	Frame    int     `csv:"frame"`
	AtMS     float64 `csv:"at_ms"`
	RenderMS float64 `csv:"render_ms"`
	FPS      float64 `csv:"fps"`
	Failed   bool    `csv:"failed"`
}

// FrameLog buffers frame records and writes them as CSV in batches. The
// header is written with the first batch.
type FrameLog struct {
	mu            sync.Mutex
	w             io.Writer
	batch         int
	pending       []FrameRecord
	headerWritten bool
}

// NewFrameLog writes to w every batch records (at least 1).
func NewFrameLog(w io.Writer, batch int) *FrameLog {
	batch = max(batch, 1)
	return &FrameLog{w: w, batch: batch, pending: make([]FrameRecord, 0, batch)}
}

// Record queues r and flushes when a batch is full.
func (l *FrameLog) Record(r FrameRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, r)
	if len(l.pending) < l.batch {
		return nil
	}
	return l.flushLocked()
}

// Flush writes any queued records.
func (l *FrameLog) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushLocked()
}

func (l *FrameLog) flushLocked() error {
	if len(l.pending) == 0 {
		return nil
	}

	var err error
	if l.headerWritten {
		err = gocsv.MarshalWithoutHeaders(l.pending, l.w)
	} else {
		err = gocsv.Marshal(l.pending, l.w)
		l.headerWritten = err == nil
	}
	l.pending = l.pending[:0]
	if err != nil {
		return fmt.Errorf("failed to write frame log: %w", err)
	}
	return nil
}
