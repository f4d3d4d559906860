package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PopulationBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 1000), Population: 50, Births: 4})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 5000, Population: 50, Births: 10})
	if !hasBookmark(bookmarks, BookmarkPopulationBoom) {
		t.Errorf("expected population_boom, got %v", bookmarks)
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 1000), Population: 100})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 5000, Population: 50})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Errorf("expected population_crash, got %v", bookmarks)
	}

	// The peak resets to the crashed level, so holding steady is not another crash
	bookmarks = bd.Check(WindowStats{WindowEndTick: 6000, Population: 48})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("crash fired twice for one drop")
	}
}

func TestBookmarkDetector_NearExtinctionFiresOncePerDip(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTick: 0, Population: 20})

	tests := []struct {
		population int
		want       bool
	}{
		{2, true},
		{2, false},
		{10, false},
		{3, true},
		{0, false},
	}
	for i, tt := range tests {
		got := hasBookmark(bd.Check(WindowStats{WindowEndTick: int64(i+1) * 1000, Population: tt.population}), BookmarkNearExtinction)
		if got != tt.want {
			t.Errorf("window %d (pop %d): near_extinction = %v, want %v", i, tt.population, got, tt.want)
		}
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 15; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int64(i * 1000), Population: 100 + i%3})
		if hasBookmark(bookmarks, BookmarkStablePopulation) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("stable_population fired %d times, want 1", count)
	}
}

func TestBookmarkDetector_UnstableNeverStable(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 15; i++ {
		pop := 20
		if i%2 == 0 {
			pop = 200
		}
		bookmarks := bd.Check(WindowStats{WindowEndTick: int64(i * 1000), Population: pop})
		if hasBookmark(bookmarks, BookmarkStablePopulation) {
			t.Fatalf("window %d flagged stable while oscillating", i)
		}
	}
}
