package ioimport

import (
	"github.com/cheggaaa/pb/v3"
)

type progress struct {
	bar *pb.ProgressBar
}

func newProgress(enabled bool, total int, prefix string) *progress {
	if !enabled || total == 0 {
		return &progress{}
	}
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return &progress{bar: bar}
}

func (p *progress) inc() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *progress) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
