// Package ioprogress shows progress of long pipeline stages in the
// terminal.
package ioprogress

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/wdimodel/pkg/pipeline"
)

type progress struct {
	mu     sync.Mutex
	writer io.Writer
	bar    *pb.ProgressBar
}

// New creates a pipeline.Progress drawing bars to w, os.Stderr if w is
// nil.
func New(w io.Writer) pipeline.Progress {
	if w == nil {
		w = os.Stderr
	}
	return &progress{writer: w}
}

// Start replaces the current bar with a new one.
func (p *progress) Start(stage string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
	}
	p.bar = newProgressBar(p.writer, total, stage+" ")
}

// Increment is safe for concurrent use.
func (p *progress) Increment() {
	p.mu.Lock()
	bar := p.bar
	p.mu.Unlock()
	if bar != nil {
		bar.Increment()
	}
}

func (p *progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(
	w io.Writer,
	total int,
	prefix string,
) *pb.ProgressBar {
	bar := pb.Full.New(total)
	bar.SetWriter(w)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar.Start()
}
