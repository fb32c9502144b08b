package scoring_test

import (
	"testing"

	"github.com/listenband/backend/internal/scoring"
)

func TestBandScore_Ladder(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{17, 20, 9}, // 85%
		{20, 20, 9},
		{16, 20, 8}, // 80%
		{15, 20, 8}, // 75%
		{13, 20, 7}, // 65%
		{11, 20, 6}, // 55%
		{9, 20, 5},  // 45%
		{7, 20, 4},  // 35%
		{5, 20, 3},  // 25%
		{3, 20, 2},  // 15%
		{1, 20, 1},  // 5%
		{0, 20, 0},
		{1, 21, 0}, // 4.76%
		{84, 100, 8},
		{85, 100, 9},
		{4, 100, 0},
	}

	for _, tc := range tests {
		if got := scoring.BandScore(tc.correct, tc.total); got != tc.want {
			t.Errorf("BandScore(%d, %d): expected %d, got %d", tc.correct, tc.total, tc.want, got)
		}
	}
}

func TestBandScore_MonotonicAndInRange(t *testing.T) {
	for total := 1; total <= 60; total++ {
		prev := -1
		for correct := 0; correct <= total; correct++ {
			band := scoring.BandScore(correct, total)
			if band < 0 || band > 9 {
				t.Fatalf("BandScore(%d, %d) = %d out of range", correct, total, band)
			}
			if band < prev {
				t.Fatalf("BandScore not monotonic at %d/%d: %d after %d", correct, total, band, prev)
			}
			prev = band
		}
	}
}

func TestPercentage(t *testing.T) {
	if p := scoring.Percentage(17, 20); p != 85 {
		t.Errorf("expected 85, got %v", p)
	}
	if p := scoring.Percentage(1, 3); p != 33.33 {
		t.Errorf("expected 33.33, got %v", p)
	}
	if p := scoring.Percentage(0, 0); p != 0 {
		t.Errorf("expected 0 for empty total, got %v", p)
	}
}

func TestDescribeBand(t *testing.T) {
	for band := 0; band <= 9; band++ {
		d := scoring.DescribeBand(band)
		if d.SkillLevel == "" || d.SkillLevel == "Unknown" {
			t.Errorf("band %d: missing descriptor", band)
		}
	}

	if d := scoring.DescribeBand(9); d.SkillLevel != "Expert user" {
		t.Errorf("expected Expert user, got %q", d.SkillLevel)
	}
	if d := scoring.DescribeBand(0); d.SkillLevel != "Did not attempt test" {
		t.Errorf("expected Did not attempt test, got %q", d.SkillLevel)
	}

	for _, band := range []int{-1, 10, 42} {
		d := scoring.DescribeBand(band)
		if d.SkillLevel != "Unknown" || d.Description != "No description available." {
			t.Errorf("band %d: expected Unknown fallback, got %+v", band, d)
		}
	}
}
