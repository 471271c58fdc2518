package archive

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ConvertHistoric re-emits every <year>.json seed archive found in srcDir
// as <year>.csv in the store directory. Seeds are read only and never
// enter the manifest. Returns the converted years in ascending order.
func (s *Store) ConvertHistoric(srcDir string) ([]int, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrFilesystem, srcDir, err)
	}

	var years []int
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			log.Printf("[WARN] historic: skipping %s: not a year archive", e.Name())
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)

	for _, year := range years {
		recs, err := readJSONFile(filepath.Join(srcDir, fmt.Sprintf("%d.json", year)))
		if err != nil {
			return nil, fmt.Errorf("historic year %d: %w", year, err)
		}
		data, err := EncodeCSV(recs, s.Location)
		if err != nil {
			return nil, fmt.Errorf("historic year %d: encode csv: %w", year, err)
		}
		if err := s.writeFile(fmt.Sprintf("%d.csv", year), data); err != nil {
			return nil, fmt.Errorf("historic year %d: %w", year, err)
		}
		log.Printf("[INFO] historic: wrote %d.csv (%d items)", year, len(recs))
	}
	return years, nil
}
