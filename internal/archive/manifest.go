package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"DayAheadArchiver/internal/model"
)

const manifestFile = "years.json"

// LoadManifest reads the archived years. Returns an empty manifest if the file doesn't exist.
func (s *Store) LoadManifest() (model.Manifest, error) {
	data, err := os.ReadFile(s.path(manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return model.Manifest{}, nil
		}
		return nil, fmt.Errorf("%w: read manifest: %v", ErrFilesystem, err)
	}
	var years []int
	if err := json.Unmarshal(data, &years); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %v", ErrFilesystem, err)
	}
	return model.Manifest{}.Union(years...), nil
}

// SaveManifest writes the years as an ascending JSON array. The file is
// replaced by rename so a crash never leaves it half written.
func (s *Store) SaveManifest(m model.Manifest) error {
	years := append([]int{}, m...)
	sort.Ints(years)
	data, err := json.Marshal(years)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return s.writeAtomic(manifestFile, data)
}

func (s *Store) writeAtomic(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrFilesystem, s.Dir, err)
	}
	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrFilesystem, name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrFilesystem, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrFilesystem, name, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrFilesystem, name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrFilesystem, name, err)
	}
	return nil
}
