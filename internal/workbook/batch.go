package workbook

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/klytics/sheetkit/internal/render"
)

// Outcome is the result of one design in a batch.
type Outcome struct {
	Design string         `json:"design"`
	Result *render.Result `json:"result,omitempty"`
	Err    error          `json:"-"`
	Error  string         `json:"error,omitempty"`
}

// Failed reports whether the design failed to build or rendered with
// element errors.
func (o *Outcome) Failed() bool {
	return o.Err != nil || o.Result == nil || !o.Result.Success
}

// BatchOptions adjust BuildAll.
type BatchOptions struct {
	Options
	// OutDir places every workbook in one directory.
	OutDir string
	// Concurrency bounds the number of designs built at once; values
	// below 1 mean one at a time.
	Concurrency int
	// OnDone is called once per design as it finishes, from the worker.
	OnDone func(Outcome)
}

// BuildAll builds every design with at most opts.Concurrency in flight.
// A failing design does not stop the others; only cancelling ctx does.
// Outcomes are returned in the order of designs.
func (b *Builder) BuildAll(ctx context.Context, designs []string, opts BatchOptions) []Outcome {
	outcomes := make([]Outcome, len(designs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for i, design := range designs {
		i, design := i, design
		g.Go(func() error {
			o := Outcome{Design: design}
			if err := gctx.Err(); err != nil {
				o.Err = err
			} else {
				one := opts.Options
				if opts.OutDir != "" {
					base := strings.TrimSuffix(filepath.Base(design), filepath.Ext(design)) + ".xlsx"
					one.Output = filepath.Join(opts.OutDir, base)
				}
				o.Result, _, o.Err = b.Build(gctx, design, one)
			}
			if o.Err != nil {
				o.Error = o.Err.Error()
			}
			outcomes[i] = o
			if opts.OnDone != nil {
				opts.OnDone(o)
			}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
