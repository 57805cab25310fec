package inpainter

import "log/slog"

// Sink receives progress callbacks from Run (spec.md §6). All methods
// are called synchronously from the goroutine driving the EM loop, so
// implementations that do I/O should not block for long.
type Sink interface {
	OnLevelBegin(level int)
	OnEMIteration(level, iter int)
	OnStage(stage string)
}

// Stage names passed to Sink.OnStage.
const (
	StageNNFMinimize    = "nnf_minimize"
	StageExpectationST  = "expectation_st"
	StageExpectationTS  = "expectation_ts"
	StageMaximization   = "maximization"
)

// NoopSink discards every callback. The zero value is ready to use.
type NoopSink struct{}

func (NoopSink) OnLevelBegin(level int)        {}
func (NoopSink) OnEMIteration(level, iter int) {}
func (NoopSink) OnStage(stage string)          {}

// SlogSink reports progress through a structured logger, one Debug
// record per callback. Grounded on the teacher's worker.Progress
// callback shape (internal/worker/progress.go's ProgressFunc), adapted
// from an fmt-based progress bar to slog since this repo's ambient
// logging stack is log/slog throughout.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink wraps logger, falling back to slog.Default() if nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger}
}

func (s *SlogSink) OnLevelBegin(level int) {
	s.Logger.Debug("inpaint: level begin", "level", level)
}

func (s *SlogSink) OnEMIteration(level, iter int) {
	s.Logger.Debug("inpaint: em iteration", "level", level, "iter", iter)
}

func (s *SlogSink) OnStage(stage string) {
	s.Logger.Debug("inpaint: stage", "stage", stage)
}
