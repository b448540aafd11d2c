package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressManager renders fetch progress when the scraper falls back to
// visiting article pages one by one.
type ProgressManager struct {
	p *mpb.Progress
}

func NewProgressManager() *ProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(os.Stdout),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	return &ProgressManager{p: p}
}

func (pm *ProgressManager) Close() {
	pm.p.Wait()
}

// NewPageBar starts a bar counting fetched pages out of total.
func (pm *ProgressManager) NewPageBar(prefix string, total int) *PageBar {
	start := time.Now()

	bar := pm.p.New(
		int64(total),
		mpb.BarStyle().Rbound("]"),

		mpb.PrependDecorators(
			decor.Name(prefix+"  "),
		),

		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d pages", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return fmt.Sprintf(" | %ds", int(time.Since(start).Seconds()))
			}),
		),
	)

	return &PageBar{bar: bar, total: int64(total)}
}

type PageBar struct {
	bar   *mpb.Bar
	total int64
}

func (b *PageBar) Increment() {
	b.bar.Increment()
}

func (b *PageBar) Done() {
	b.bar.SetTotal(b.total, true)
}
