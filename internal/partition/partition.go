// Package partition turns a flat list of fetched records into per-year
// archives and the updated manifest.
package partition

import (
	"sort"
	"time"

	"DayAheadArchiver/internal/model"
)

// YearArchive holds the records of one calendar year, sorted by start.
type YearArchive struct {
	Year    int
	Records []model.PriceRecord
}

// Result is the outcome of Partition.
type Result struct {
	Years    []YearArchive // ascending by year
	Manifest model.Manifest
}

// Dedup keeps one record per start instant. When several share a start
// the last one observed wins; output order follows first appearance.
func Dedup(records []model.PriceRecord) []model.PriceRecord {
	index := make(map[int64]int, len(records))
	out := make([]model.PriceRecord, 0, len(records))
	for _, r := range records {
		key := r.StartDate.UnixNano()
		if i, ok := index[key]; ok {
			out[i] = r
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}

// Partition deduplicates records, drops those starting at or after today,
// groups the rest by calendar year in loc and sorts each group. The
// returned manifest is prior extended with every year present.
func Partition(records []model.PriceRecord, prior model.Manifest, today time.Time, loc *time.Location) Result {
	byYear := make(map[int][]model.PriceRecord)
	for _, r := range Dedup(records) {
		if !r.StartDate.Before(today) {
			continue
		}
		y := r.StartDate.In(loc).Year()
		byYear[y] = append(byYear[y], r)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	res := Result{Manifest: prior.Union(years...)}
	for _, y := range years {
		recs := byYear[y]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].StartDate.Before(recs[j].StartDate) })
		res.Years = append(res.Years, YearArchive{Year: y, Records: recs})
	}
	return res
}

// Years lists the distinct calendar years, in loc, of the given records.
func Years(records []model.PriceRecord, loc *time.Location) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, r := range records {
		y := r.StartDate.In(loc).Year()
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}
