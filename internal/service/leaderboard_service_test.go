package service

import (
	"testing"
	"time"
)

func TestCompetitionDayStart(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"after boundary",
			time.Date(2025, 3, 9, 14, 0, 0, 0, loc),
			time.Date(2025, 3, 9, 6, 0, 0, 0, loc),
		},
		{
			"exactly at boundary",
			time.Date(2025, 3, 9, 6, 0, 0, 0, loc),
			time.Date(2025, 3, 9, 6, 0, 0, 0, loc),
		},
		{
			"before boundary rolls back a day",
			time.Date(2025, 3, 9, 2, 30, 0, 0, loc),
			time.Date(2025, 3, 8, 6, 0, 0, 0, loc),
		},
		{
			"midnight belongs to yesterday",
			time.Date(2025, 3, 1, 0, 0, 0, 0, loc),
			time.Date(2025, 2, 28, 6, 0, 0, 0, loc),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := competitionDayStart(tc.now); !got.Equal(tc.want) {
				t.Errorf("competitionDayStart(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestScoreWeights(t *testing.T) {
	if got := score(2, 3, 1, 4); got != 2*5+3*2+1*8+4*1 {
		t.Errorf("score = %d, want 28", got)
	}
	if got := score(0, 0, 0, 0); got != 0 {
		t.Errorf("empty score = %d, want 0", got)
	}
}
