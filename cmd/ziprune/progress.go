package main

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/ziprune/ziprune/internal/services"
	"github.com/ziprune/ziprune/internal/usecase"
)

var stageLabels = map[services.Stage]string{
	services.StageIndex:   "indexing files   ",
	services.StageAnalyze: "reading archives ",
	services.StageMatch:   "matching folders ",
}

// progressView renders one bar per stage. Indexing has no known total and
// shows a spinner with a running count instead.
type progressView struct {
	out   io.Writer
	stage services.Stage
	bar   *progressbar.ProgressBar
}

func newProgressView(out io.Writer) *progressView {
	return &progressView{out: out}
}

func (v *progressView) update(p usecase.Progress) {
	if v.bar == nil || p.Stage != v.stage {
		v.finish()
		v.stage = p.Stage
		v.bar = v.newBar(p)
	}
	_ = v.bar.Set(p.Done)
}

func (v *progressView) newBar(p usecase.Progress) *progressbar.ProgressBar {
	total := p.Total
	if total == 0 {
		total = -1
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(stageLabels[p.Stage]),
		progressbar.OptionSetWriter(v.out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(v.out, "\n")
		}),
	)
}

func (v *progressView) finish() {
	if v.bar == nil {
		return
	}
	_ = v.bar.Finish()
	v.bar = nil
}
