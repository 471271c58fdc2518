package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DayAheadArchiver/internal/model"
)

const publicationDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:0">
  <TimeSeries>
    <Period>
      <timeInterval><start>2020-12-31T23:00Z</start><end>2021-01-01T02:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><price.amount>50.87</price.amount></Point>
      <Point><position>2</position><price.amount>48.19</price.amount></Point>
    </Period>
  </TimeSeries>
  <TimeSeries>
    <Period>
      <timeInterval><start>2021-01-01T23:00Z</start><end>2021-01-02T02:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><price.amount>44.68</price.amount></Point>
      <Point><position>3</position><price.amount>n/a</price.amount></Point>
    </Period>
  </TimeSeries>
</Publication_MarketDocument>`

const acknowledgementDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Acknowledgement_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:7:0">
  <Reason><code>999</code><text>No matching data found</text></Reason>
</Acknowledgement_MarketDocument>`

func TestParseMarketDocument(t *testing.T) {
	loc := mustParis(t)
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, loc)

	recs, err := parseMarketDocument([]byte(publicationDoc), start)
	require.NoError(t, err)

	// day 0: two points, the trailing slot repeats position 2
	// day 1: position 2 repeats position 1, position 3 is not numeric
	require.Len(t, recs, 5)
	assert.Equal(t, start, recs[0].StartDate)
	assert.Equal(t, 50.87, recs[0].Price)
	assert.Nil(t, recs[0].Volume)
	assert.Equal(t, 48.19, recs[2].Price)
	assert.Equal(t, start.Add(2*time.Hour), recs[2].StartDate)

	day1 := start.AddDate(0, 0, 1)
	assert.Equal(t, day1, recs[3].StartDate)
	assert.Equal(t, 44.68, recs[3].Price)
	assert.Equal(t, day1.Add(time.Hour), recs[4].StartDate)
	assert.Equal(t, 44.68, recs[4].Price)
	assert.Equal(t, day1.Add(2*time.Hour), recs[4].EndDate)
}

func TestParseMarketDocument_PeriodsAnchoredOnInterval(t *testing.T) {
	loc := mustParis(t)
	doc := `<Publication_MarketDocument>
  <TimeSeries>
    <Period>
      <timeInterval><start>2021-01-01T23:00Z</start><end>2021-01-02T00:00Z</end></timeInterval>
      <resolution>PT15M</resolution>
      <Point><position>1</position><price.amount>10</price.amount></Point>
      <Point><position>4</position><price.amount>40</price.amount></Point>
    </Period>
    <Period>
      <timeInterval><start>2021-01-02T23:00Z</start><end>2021-01-02T23:30Z</end></timeInterval>
      <resolution>PT15M</resolution>
      <Point><position>1</position><price.amount>5</price.amount></Point>
    </Period>
  </TimeSeries>
</Publication_MarketDocument>`

	// the week starts earlier than the first period
	recs, err := parseMarketDocument([]byte(doc), time.Date(2021, 1, 1, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	require.Len(t, recs, 6)

	day2 := time.Date(2021, 1, 2, 0, 0, 0, 0, loc)
	assert.Equal(t, day2, recs[0].StartDate)
	assert.Equal(t, day2.Add(15*time.Minute), recs[0].EndDate)
	assert.Equal(t, 10.0, recs[2].Price)
	assert.Equal(t, 40.0, recs[3].Price)

	day3 := time.Date(2021, 1, 3, 0, 0, 0, 0, loc)
	assert.Equal(t, day3, recs[4].StartDate)
	assert.Equal(t, 5.0, recs[5].Price)
}

func TestParseMarketDocument_Acknowledgement(t *testing.T) {
	_, err := parseMarketDocument([]byte(acknowledgementDoc), time.Now())
	require.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "No matching data found")
}

func TestParseMarketDocument_NoSeries(t *testing.T) {
	_, err := parseMarketDocument([]byte(`<Publication_MarketDocument></Publication_MarketDocument>`), time.Now())
	assert.ErrorIs(t, err, ErrParse)
}

func TestFillMissingPositions_GapAfterDuplicate(t *testing.T) {
	in := []point{
		{Position: 5, Price: "50"},
		{Position: 1, Price: "10"},
		{Position: 2, Price: "20"},
		{Position: 2, Price: "21"},
	}

	out := fillMissingPositions(in, 6)

	require.Len(t, out, 6)
	want := []string{"10", "20", "20", "20", "50", "50"}
	for i, pt := range out {
		assert.Equal(t, i+1, pt.Position)
		assert.Equal(t, want[i], pt.Price, "position %d", pt.Position)
	}
}

func TestFillMissingPositions_UnknownTotal(t *testing.T) {
	out := fillMissingPositions([]point{{Position: 1, Price: "1"}, {Position: 3, Price: "3"}}, 0)

	require.Len(t, out, 3)
	assert.Equal(t, "1", out[1].Price)
	assert.Equal(t, 3, out[2].Position)
}

func TestResolution(t *testing.T) {
	assert.Equal(t, time.Hour, resolution("PT60M"))
	assert.Equal(t, 15*time.Minute, resolution("PT15M"))
	assert.Equal(t, time.Hour, resolution(""))
}

func TestEntsoeFetcher_QueryParameters(t *testing.T) {
	loc := mustParis(t)
	var q map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(publicationDoc))
	}))
	defer srv.Close()

	f := NewEntsoeFetcher(srv.URL, "secret", DefaultEntsoeDomain, "", loc)
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, loc)
	_, err := f.FetchWeek(context.Background(), model.WeekWindow{Start: start, End: start.AddDate(0, 0, 7)})
	require.NoError(t, err)

	assert.Equal(t, "secret", q["securityToken"])
	assert.Equal(t, "A44", q["documentType"])
	assert.Equal(t, DefaultEntsoeDomain, q["in_Domain"])
	assert.Equal(t, DefaultEntsoeDomain, q["out_Domain"])
	assert.Equal(t, "202012312300", q["periodStart"])
	assert.Equal(t, "202101072300", q["periodEnd"])
}

func TestEntsoeFetcher_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(acknowledgementDoc))
	}))
	defer srv.Close()

	f := NewEntsoeFetcher(srv.URL, "", DefaultEntsoeDomain, "", time.UTC)
	_, err := f.FetchWeek(context.Background(), model.WeekWindow{Start: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)})

	require.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "401")
}
