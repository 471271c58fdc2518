package collector

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"DayAheadArchiver/internal/model"
	"DayAheadArchiver/internal/planner"
)

// DefaultEpexURL is the public auction results table, keyed by delivery date.
const DefaultEpexURL = "https://www.epexspot.com/en/market-data/dayaheadauction/auction-table"

// EpexStart is the first delivery day the auction table publishes.
const EpexStart = "2005-04-25"

const epexTableSelector = ".list.hours.responsive"

// EpexFetcher implements Fetcher by scraping the HTML auction table.
type EpexFetcher struct {
	Client   *resty.Client
	Location *time.Location
}

// NewEpexFetcher creates a fetcher with optional proxy support.
func NewEpexFetcher(baseURL, proxyURL string, loc *time.Location) *EpexFetcher {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &EpexFetcher{Client: client, Location: loc}
}

func (f *EpexFetcher) Name() string { return "epex" }

// FetchWeek requests the page keyed by the last day of the week. The page
// shows the seven delivery days ending on that date.
func (f *EpexFetcher) FetchWeek(ctx context.Context, week model.WeekWindow) ([]model.PriceRecord, error) {
	start := planner.StartOfDay(week.Start, f.Location)
	endOfWeek := start.AddDate(0, 0, 6).Format("2006-01-02")

	res, err := f.Client.R().
		SetContext(ctx).
		SetPathParam("date", endOfWeek).
		Get("/{date}")
	if err != nil {
		return nil, fmt.Errorf("%w: epex fetch: %v", ErrNetwork, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: epex: status %d", ErrNetwork, res.StatusCode())
	}

	return parseAuctionTable(res.Body(), start)
}

// parseAuctionTable extracts hourly records from the auction table. Each
// data row holds one value per day column; transposing yields one series
// per day in which price and volume alternate hour by hour.
func parseAuctionTable(body []byte, weekStart time.Time) ([]model.PriceRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: epex html: %v", ErrParse, err)
	}
	table := doc.Find(epexTableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: epex: table %q not found", ErrParse, epexTableSelector)
	}

	var rows [][]float64
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header
		}
		var texts []string
		tr.Find("th").Each(func(_ int, c *goquery.Selection) { texts = append(texts, c.Text()) })
		tr.Find("td").Each(func(_ int, c *goquery.Selection) { texts = append(texts, c.Text()) })
		if len(texts) <= 2 {
			rows = append(rows, nil)
			return
		}
		// first two cells are the hour and unit labels
		row := make([]float64, 0, len(texts)-2)
		for _, t := range texts[2:] {
			row = append(row, parseCell(t))
		}
		rows = append(rows, row)
	})

	hours, dropped := pairs(rows)
	if dropped > 0 {
		log.Printf("[WARN] epex: week %s: dropped %d non-numeric slots", weekStart.Format("2006-01-02"), dropped)
	}

	records := make([]model.PriceRecord, 0, len(hours))
	for i, h := range hours {
		start := weekStart.Add(time.Duration(i) * time.Hour)
		rec := model.PriceRecord{
			StartDate: start,
			EndDate:   start.Add(time.Hour),
			Price:     h.price,
		}
		if !math.IsNaN(h.volume) {
			rec.Volume = model.Float64(h.volume)
		}
		records = append(records, rec)
	}
	return records, nil
}
