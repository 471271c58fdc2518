package model

import "sort"

// Manifest is the ascending set of calendar years already archived.
type Manifest []int

// Last returns the most recent archived year.
func (m Manifest) Last() (int, bool) {
	if len(m) == 0 {
		return 0, false
	}
	last := m[0]
	for _, y := range m[1:] {
		if y > last {
			last = y
		}
	}
	return last, true
}

// Union returns a new manifest holding every year of m and years,
// deduplicated and sorted ascending. m is never shrunk.
func (m Manifest) Union(years ...int) Manifest {
	seen := make(map[int]struct{}, len(m)+len(years))
	out := make(Manifest, 0, len(m)+len(years))
	for _, y := range append(append([]int{}, m...), years...) {
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}
