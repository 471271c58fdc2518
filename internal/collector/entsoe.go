package collector

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"DayAheadArchiver/internal/model"
	"DayAheadArchiver/internal/planner"
)

const (
	// DefaultEntsoeURL is the transparency platform REST endpoint.
	DefaultEntsoeURL = "https://web-api.tp.entsoe.eu/api"
	// DefaultEntsoeDomain is the EIC code of the French bidding zone.
	DefaultEntsoeDomain = "10YFR-RTE------C"
	// EntsoeStart is the first day served by the live API; earlier years
	// come from the historic seed archives.
	EntsoeStart = "2015-01-01"

	entsoeDocumentType   = "A44" // day-ahead prices
	entsoePeriodLayout   = "200601021504"
	entsoeIntervalLayout = "2006-01-02T15:04Z"
)

// EntsoeFetcher implements Fetcher against the ENTSO-E transparency API.
type EntsoeFetcher struct {
	Client   *resty.Client
	Token    string
	Domain   string
	Location *time.Location
}

// NewEntsoeFetcher creates a fetcher with optional proxy support.
func NewEntsoeFetcher(baseURL, token, domain, proxyURL string, loc *time.Location) *EntsoeFetcher {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &EntsoeFetcher{Client: client, Token: token, Domain: domain, Location: loc}
}

func (f *EntsoeFetcher) Name() string { return "entsoe" }

// timeInterval, point, period and timeSeries mirror the parts of
// Publication_MarketDocument that carry prices.
type timeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type point struct {
	Position int    `xml:"position"`
	Price    string `xml:"price.amount"`
}

type period struct {
	TimeInterval timeInterval `xml:"timeInterval"`
	Resolution   string       `xml:"resolution"`
	Point        []point      `xml:"Point"`
}

type timeSeries struct {
	Period []period `xml:"Period"`
}

type reason struct {
	Code string `xml:"code"`
	Text string `xml:"text"`
}

// marketDocument decodes both Publication_MarketDocument and the
// Acknowledgement_MarketDocument the API answers with when it has no data.
type marketDocument struct {
	XMLName    xml.Name
	TimeSeries []timeSeries `xml:"TimeSeries"`
	Reason     []reason     `xml:"Reason"`
}

func (f *EntsoeFetcher) FetchWeek(ctx context.Context, week model.WeekWindow) ([]model.PriceRecord, error) {
	start := planner.StartOfDay(week.Start, f.Location)
	end := week.End
	if end.IsZero() {
		end = start.AddDate(0, 0, 7)
	}

	res, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"securityToken": f.Token,
			"documentType":  entsoeDocumentType,
			"in_Domain":     f.Domain,
			"out_Domain":    f.Domain,
			"periodStart":   start.UTC().Format(entsoePeriodLayout),
			"periodEnd":     end.UTC().Format(entsoePeriodLayout),
		}).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("%w: entsoe fetch: %v", ErrNetwork, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: entsoe: status %d, body: %s", ErrNetwork, res.StatusCode(), ackReason(res.Body()))
	}

	return parseMarketDocument(res.Body(), start)
}

// parseMarketDocument flattens every period into records. A period is
// anchored on its timeInterval start, or on weekStart plus its index in days
// when the interval is missing.
func parseMarketDocument(body []byte, weekStart time.Time) ([]model.PriceRecord, error) {
	var doc marketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: entsoe xml: %v", ErrParse, err)
	}
	if doc.XMLName.Local == "Acknowledgement_MarketDocument" {
		return nil, fmt.Errorf("%w: entsoe acknowledgement: %s", ErrParse, joinReasons(doc.Reason))
	}
	if len(doc.TimeSeries) == 0 {
		return nil, fmt.Errorf("%w: entsoe: document has no TimeSeries", ErrParse)
	}

	var records []model.PriceRecord
	dropped := 0
	day := 0
	for i, ts := range doc.TimeSeries {
		if len(ts.Period) == 0 {
			return nil, fmt.Errorf("%w: entsoe: TimeSeries %d has no Period", ErrParse, i)
		}
		for _, p := range ts.Period {
			step := resolution(p.Resolution)
			periodStart := weekStart.AddDate(0, 0, day)
			if t, err := time.Parse(entsoeIntervalLayout, strings.TrimSpace(p.TimeInterval.Start)); err == nil {
				periodStart = t.In(weekStart.Location())
			}
			day++

			for _, pt := range fillMissingPositions(p.Point, slotCount(p.TimeInterval, step)) {
				price, err := strconv.ParseFloat(strings.TrimSpace(pt.Price), 64)
				if err != nil {
					dropped++
					continue
				}
				start := periodStart.Add(time.Duration(pt.Position-1) * step)
				records = append(records, model.PriceRecord{
					StartDate: start,
					EndDate:   start.Add(step),
					Price:     price,
				})
			}
		}
	}
	if dropped > 0 {
		log.Printf("[WARN] entsoe: week %s: dropped %d non-numeric points", weekStart.Format("2006-01-02"), dropped)
	}
	return records, nil
}

// resolution converts an ISO-8601 duration such as PT60M or PT15M.
func resolution(s string) time.Duration {
	d, err := time.ParseDuration(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "PT")))
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// slotCount is the number of positions the interval should hold, or 0 when
// the interval cannot be read.
func slotCount(ti timeInterval, step time.Duration) int {
	start, err := time.Parse(entsoeIntervalLayout, strings.TrimSpace(ti.Start))
	if err != nil {
		return 0
	}
	end, err := time.Parse(entsoeIntervalLayout, strings.TrimSpace(ti.End))
	if err != nil || !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / step)
}

// fillMissingPositions expands curve-compressed series: a missing position
// repeats the price of the previous one, up to total slots when known.
func fillMissingPositions(points []point, total int) []point {
	sorted := append([]point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	// first occurrence of a position wins
	uniq := make([]point, 0, len(sorted))
	for i, pt := range sorted {
		if i > 0 && pt.Position == sorted[i-1].Position {
			continue
		}
		uniq = append(uniq, pt)
	}

	filled := make([]point, 0, len(uniq))
	for i, pt := range uniq {
		filled = append(filled, pt)

		next := total + 1
		if i < len(uniq)-1 {
			next = uniq[i+1].Position
		}
		for pos := pt.Position + 1; pos < next; pos++ {
			filled = append(filled, point{Position: pos, Price: pt.Price})
		}
	}
	return filled
}

func joinReasons(rs []reason) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, strings.TrimSpace(r.Code+" "+r.Text))
	}
	if len(parts) == 0 {
		return "no reason given"
	}
	return strings.Join(parts, "; ")
}

// ackReason extracts the reason from an error body, falling back to the raw text.
func ackReason(body []byte) string {
	var doc marketDocument
	if err := xml.Unmarshal(body, &doc); err == nil && len(doc.Reason) > 0 {
		return joinReasons(doc.Reason)
	}
	return string(body)
}
