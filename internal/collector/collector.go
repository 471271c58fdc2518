package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"DayAheadArchiver/internal/model"
)

// MockFetcher returns canned weeks for development and testing.
// Weeks without an entry yield Hourly records for the whole window.
type MockFetcher struct {
	mu     sync.Mutex
	Weeks  map[string][]model.PriceRecord
	Errors map[string]error
	Price  float64
	Calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchWeek(_ context.Context, week model.WeekWindow) ([]model.PriceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	label := week.Label()
	m.Calls = append(m.Calls, label)
	if err, ok := m.Errors[label]; ok {
		return nil, err
	}
	if recs, ok := m.Weeks[label]; ok {
		return recs, nil
	}
	return Hourly(week, m.Price), nil
}

// Hourly builds one record per hour of the window at a flat price.
func Hourly(week model.WeekWindow, price float64) []model.PriceRecord {
	var out []model.PriceRecord
	for t := week.Start; t.Before(week.End); t = t.Add(time.Hour) {
		out = append(out, model.PriceRecord{
			StartDate: t,
			EndDate:   t.Add(time.Hour),
			Price:     price,
			Volume:    model.Float64(1000),
		})
	}
	return out
}

// Collector runs a Fetcher over planned weeks, one request at a time.
type Collector struct {
	Fetcher Fetcher
	Delay   time.Duration // pause between consecutive requests
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, delay time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Delay: delay}
}

// FetchWeeks fetches every week in order and concatenates the results.
// The upstream sources are sensitive to bursts, so a request is only issued
// once the previous one has completed. The first failure aborts the batch.
func (c *Collector) FetchWeeks(ctx context.Context, weeks []model.WeekWindow) ([]model.PriceRecord, error) {
	var all []model.PriceRecord
	for i, week := range weeks {
		if i > 0 && c.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.Delay):
			}
		}

		log.Printf("[INFO] %s: fetching week %s (%d/%d)", c.Fetcher.Name(), week.Label(), i+1, len(weeks))
		recs, err := c.Fetcher.FetchWeek(ctx, week)
		if err != nil {
			return nil, fmt.Errorf("week %s: %w", week.Label(), err)
		}
		all = append(all, recs...)
	}
	return all, nil
}
