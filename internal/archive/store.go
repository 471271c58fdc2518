// Package archive persists year archives as JSON and CSV files together
// with the manifest of archived years.
package archive

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"DayAheadArchiver/internal/model"
	"DayAheadArchiver/internal/partition"
)

// ErrFilesystem marks a failed read or write of an archive file.
var ErrFilesystem = errors.New("filesystem error")

// CSVHeader is the column list of every year CSV.
var CSVHeader = []string{"date", "start_hour", "end_hour", "price_euros_mwh", "volume_mwh"}

// Store reads and writes the archive directory. All display strings are
// rendered in Location.
type Store struct {
	Dir      string
	Location *time.Location
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, loc *time.Location) *Store {
	return &Store{Dir: dir, Location: loc}
}

// jsonRecord is the on-disk shape of a PriceRecord.
type jsonRecord struct {
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Price     float64  `json:"price_euros_mwh"`
	Volume    *float64 `json:"volume_mwh,omitempty"`
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name)
}

// WriteYear overwrites <year>.json and <year>.csv.
func (s *Store) WriteYear(ya partition.YearArchive) error {
	data, err := EncodeJSON(ya.Records, s.Location)
	if err != nil {
		return fmt.Errorf("encode %d json: %w", ya.Year, err)
	}
	if err := s.writeFile(fmt.Sprintf("%d.json", ya.Year), data); err != nil {
		return fmt.Errorf("year %d: %w", ya.Year, err)
	}

	data, err = EncodeCSV(ya.Records, s.Location)
	if err != nil {
		return fmt.Errorf("encode %d csv: %w", ya.Year, err)
	}
	if err := s.writeFile(fmt.Sprintf("%d.csv", ya.Year), data); err != nil {
		return fmt.Errorf("year %d: %w", ya.Year, err)
	}
	return nil
}

// LoadYear reads back <year>.json. A missing file yields no records.
func (s *Store) LoadYear(year int) ([]model.PriceRecord, error) {
	recs, err := readJSONFile(s.path(fmt.Sprintf("%d.json", year)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}
	return recs, nil
}

func (s *Store) writeFile(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrFilesystem, s.Dir, err)
	}
	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrFilesystem, name, err)
	}
	return nil
}

// EncodeJSON renders records as a JSON array with instants in loc.
func EncodeJSON(records []model.PriceRecord, loc *time.Location) ([]byte, error) {
	out := make([]jsonRecord, len(records))
	for i, r := range records {
		out[i] = jsonRecord{
			StartDate: r.StartDate.In(loc).Format(time.RFC3339),
			EndDate:   r.EndDate.In(loc).Format(time.RFC3339),
			Price:     r.Price,
			Volume:    r.Volume,
		}
	}
	return json.Marshal(out)
}

// DecodeJSON parses a JSON array written by EncodeJSON.
func DecodeJSON(data []byte) ([]model.PriceRecord, error) {
	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]model.PriceRecord, 0, len(raw))
	for i, r := range raw {
		start, err := time.Parse(time.RFC3339, r.StartDate)
		if err != nil {
			return nil, fmt.Errorf("record %d: startDate: %w", i, err)
		}
		end, err := time.Parse(time.RFC3339, r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("record %d: endDate: %w", i, err)
		}
		out = append(out, model.PriceRecord{StartDate: start, EndDate: end, Price: r.Price, Volume: r.Volume})
	}
	return out, nil
}

// EncodeCSV projects records to display rows in loc. The file ends with a
// blank line.
func EncodeCSV(records []model.PriceRecord, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		start := r.StartDate.In(loc)
		volume := ""
		if r.Volume != nil {
			volume = formatNumber(*r.Volume)
		}
		row := []string{
			start.Format("2006-01-02"),
			start.Format("15:04"),
			r.EndDate.In(loc).Format("15:04"),
			formatNumber(r.Price),
			volume,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func readJSONFile(path string) ([]model.PriceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	recs, err := DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrFilesystem, filepath.Base(path), err)
	}
	return recs, nil
}
