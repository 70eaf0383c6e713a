// Package diag collects non-fatal pipeline diagnostics (duplicate URLs,
// placeholder synthesis, unresolved plan references) so callers can inspect
// what degraded instead of scraping log output.
package diag

import (
	"fmt"
	"sync"

	"github.com/imobireport/newsroom-backend/internal/logger"
)

type Stage string

const (
	StageSanitize Stage = "sanitize"
	StageParse    Stage = "parse"
	StageAlign    Stage = "align"
	StageCompile  Stage = "compile"
	StageExtract  Stage = "extract"
	StagePublish  Stage = "publish"
)

type Event struct {
	Stage     Stage  `json:"stage"`
	Message   string `json:"message"`
	Positions []int  `json:"positions,omitempty"`
}

// Recorder is safe for concurrent use; the extractor reports from worker
// goroutines.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	log    *logger.Logger
}

func NewRecorder(log *logger.Logger) *Recorder {
	if log != nil {
		log = log.With("component", "Diagnostics")
	}
	return &Recorder{log: log}
}

func (r *Recorder) Record(stage Stage, positions []int, format string, args ...interface{}) {
	if r == nil {
		return
	}
	ev := Event{
		Stage:     stage,
		Message:   fmt.Sprintf(format, args...),
		Positions: positions,
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	if r.log != nil {
		r.log.Warn(ev.Message, "stage", string(stage), "positions", positions)
	}
}

// Events returns a copy; the recorder keeps appending afterwards.
func (r *Recorder) Events() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
