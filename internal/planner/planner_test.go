package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DayAheadArchiver/internal/model"
)

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return loc
}

func TestPlan_ResumesAfterLastArchivedYear(t *testing.T) {
	loc := paris(t)
	today := time.Date(2021, 1, 10, 0, 0, 0, 0, loc)
	defaultStart := time.Date(2005, 4, 25, 0, 0, 0, 0, loc)

	weeks := Plan(today, model.Manifest{2020}, defaultStart)

	require.Len(t, weeks, 2)
	assert.Equal(t, "2021-01-01", weeks[0].Label())
	assert.Equal(t, "2021-01-08", weeks[1].Label())
	assert.True(t, weeks[1].End.After(today.AddDate(0, 0, -1)))
	for _, w := range weeks {
		assert.Equal(t, 2021, w.Start.Year(), "must not re-fetch 2020")
	}
}

func TestPlan_RefetchesCurrentYear(t *testing.T) {
	loc := paris(t)
	today := time.Date(2021, 3, 1, 0, 0, 0, 0, loc)

	start := StartDate(today, model.Manifest{2019, 2021, 2020}, time.Time{})

	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, loc), start)
}

func TestPlan_EmptyManifestUsesDefaultStart(t *testing.T) {
	loc := paris(t)
	defaultStart := time.Date(2005, 4, 25, 0, 0, 0, 0, loc)
	today := defaultStart.AddDate(0, 0, 3)

	weeks := Plan(today, nil, defaultStart)

	require.Len(t, weeks, 1)
	assert.Equal(t, defaultStart, weeks[0].Start)
	assert.Equal(t, defaultStart.AddDate(0, 0, 7), weeks[0].End)
}

func TestPlan_NothingToFetch(t *testing.T) {
	loc := paris(t)
	today := time.Date(2021, 1, 1, 0, 0, 0, 0, loc)

	assert.Empty(t, Plan(today, model.Manifest{2020}, time.Time{}))

	future := time.Date(2022, 1, 1, 0, 0, 0, 0, loc)
	assert.Empty(t, Plan(today, nil, future))
}

func TestPlan_ExactWeeksAcrossDST(t *testing.T) {
	loc := paris(t)
	defaultStart := time.Date(2021, 3, 1, 0, 0, 0, 0, loc)
	today := time.Date(2021, 4, 5, 0, 0, 0, 0, loc) // 35 days, spans the spring shift

	weeks := Plan(today, nil, defaultStart)

	require.Len(t, weeks, 5)
	for i, w := range weeks {
		assert.Equal(t, 0, w.Start.Hour(), "week %d must start at local midnight", i)
	}
	assert.Equal(t, today, weeks[4].End)
}
