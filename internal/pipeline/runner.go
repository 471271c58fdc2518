// Package pipeline wires planning, fetching, partitioning and archiving
// into one incremental run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"DayAheadArchiver/internal/archive"
	"DayAheadArchiver/internal/calculator"
	"DayAheadArchiver/internal/collector"
	"DayAheadArchiver/internal/model"
	"DayAheadArchiver/internal/notifier"
	"DayAheadArchiver/internal/partition"
	"DayAheadArchiver/internal/planner"
	"DayAheadArchiver/internal/recorder"
)

// Runner performs incremental archive runs for one source.
type Runner struct {
	Source       string
	Collector    *collector.Collector
	Store        *archive.Store
	Recorder     recorder.Recorder
	Notifier     notifier.Notifier
	Location     *time.Location
	DefaultStart time.Time
	Now          func() time.Time
}

// Result describes a successful run.
type Result struct {
	Today    time.Time
	Weeks    int
	Fetched  int
	Years    []calculator.YearSummary
	Manifest model.Manifest
}

// Run fetches every week not yet archived, rewrites the affected years and
// the manifest. Any fetch, parse or filesystem error aborts the run before
// the manifest is touched.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := r.now()
	res, err := r.run(ctx)
	r.record(started, res, err)

	if err != nil {
		r.trySend(ctx, notifier.FormatRunFailure(r.Source, err))
		return nil, err
	}
	r.trySend(ctx, notifier.FormatRunReport(&notifier.RunSummary{
		Source:   r.Source,
		Today:    res.Today,
		Weeks:    res.Weeks,
		Fetched:  res.Fetched,
		Years:    res.Years,
		Manifest: res.Manifest,
	}))
	return res, nil
}

func (r *Runner) run(ctx context.Context) (*Result, error) {
	today := planner.StartOfDay(r.now(), r.Location)

	manifest, err := r.Store.LoadManifest()
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if last, ok := manifest.Last(); ok {
		log.Printf("[INFO] manifest found, last archived year: %d", last)
	}

	weeks := planner.Plan(today, manifest, r.DefaultStart)
	if len(weeks) == 0 {
		log.Println("[INFO] archive is up to date, nothing to fetch")
	} else {
		log.Printf("[INFO] %d weeks to fetch from %s", len(weeks), weeks[0].Label())
	}

	fetched, err := r.Collector.FetchWeeks(ctx, weeks)
	if err != nil {
		return nil, err
	}

	merged, err := r.withArchived(fetched)
	if err != nil {
		return nil, err
	}

	part := partition.Partition(merged, manifest, today, r.Location)
	res := &Result{
		Today:    today,
		Weeks:    len(weeks),
		Fetched:  len(fetched),
		Manifest: part.Manifest,
	}
	for _, ya := range part.Years {
		sum := calculator.Summarize(ya.Year, ya.Records)
		log.Printf("[INFO] write files for year %d (%d items, avg %.2f)", ya.Year, sum.Count, sum.AvgPrice)
		if err := r.Store.WriteYear(ya); err != nil {
			return nil, err
		}
		res.Years = append(res.Years, sum)
	}

	if err := r.Store.SaveManifest(part.Manifest); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}
	return res, nil
}

// withArchived puts the already archived records of every year touched by
// fetched in front of it, so fetched records win on duplicate starts and a
// source that stopped serving old weeks never shrinks an archive.
func (r *Runner) withArchived(fetched []model.PriceRecord) ([]model.PriceRecord, error) {
	var merged []model.PriceRecord
	for _, year := range partition.Years(fetched, r.Location) {
		prev, err := r.Store.LoadYear(year)
		if err != nil {
			return nil, fmt.Errorf("load archive: %w", err)
		}
		merged = append(merged, prev...)
	}
	return append(merged, fetched...), nil
}

func (r *Runner) record(started time.Time, res *Result, runErr error) {
	rec := r.Recorder
	if rec == nil {
		return
	}

	evt := &recorder.RunEvent{
		Source:     r.Source,
		StartedAt:  started,
		FinishedAt: r.now(),
	}
	if runErr != nil {
		evt.Error = runErr.Error()
	}
	if res != nil {
		evt.Weeks = res.Weeks
		evt.Records = res.Fetched
		for _, y := range res.Years {
			evt.Years = append(evt.Years, y.Year)
			if err := rec.RecordYear(&recorder.YearEvent{
				Source: r.Source, Year: y.Year, Count: y.Count,
				AvgPrice: y.AvgPrice, MinPrice: y.MinPrice, MaxPrice: y.MaxPrice,
				TotalVolume: y.TotalVolume,
			}); err != nil {
				log.Printf("[ERROR] record year %d: %v", y.Year, err)
			}
		}
	}
	if err := rec.RecordRun(evt); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

func (r *Runner) trySend(ctx context.Context, text string) {
	if r.Notifier == nil {
		return
	}
	if err := r.Notifier.Notify(ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
