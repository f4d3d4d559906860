package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationBoom   BookmarkType = "population_boom"
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkNearExtinction   BookmarkType = "near_extinction"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark marks an interesting moment in a run.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int64        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches window stats for population events.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	peak          int // highest population since the last crash
	endangered    bool
	stableWindows int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkBoom,
			bd.checkCrash,
			bd.checkNearExtinction,
			bd.checkStable,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)
	if stats.Population > bd.peak {
		bd.peak = stats.Population
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// recent returns the last n windows oldest first, or nil if fewer were seen.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	history := bd.getHistory()
	if len(history) < n {
		return nil
	}
	out := make([]WindowStats, n)
	for i := range n {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

// checkBoom fires when births outpace the rolling average by 2x.
func (bd *BookmarkDetector) checkBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Births
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Births) > avg*2 && stats.Births >= 5 {
		return &Bookmark{
			Type:        BookmarkPopulationBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx the average (%.1f)", stats.Births, float64(stats.Births)/avg, avg),
		}
	}
	return nil
}

// checkCrash fires when the population drops more than 30% from its peak.
func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.peak == 0 {
		return nil
	}

	drop := 1 - float64(stats.Population)/float64(bd.peak)
	if drop > 0.30 && stats.Population < bd.peak-10 {
		oldPeak := bd.peak
		bd.peak = stats.Population
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}
	return nil
}

// checkNearExtinction fires once each time the population falls to a handful.
func (bd *BookmarkDetector) checkNearExtinction(stats WindowStats) *Bookmark {
	if stats.Population > 3 {
		bd.endangered = false
		return nil
	}
	if bd.endangered || stats.Population == 0 {
		return nil
	}
	bd.endangered = true
	return &Bookmark{
		Type:        BookmarkNearExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Only %d creatures left", stats.Population),
	}
}

// checkStable fires after five consecutive low-variance windows.
func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Population < 10 {
		bd.stableWindows = 0
		return nil
	}

	recent := bd.recent(4)
	if recent == nil {
		return nil
	}

	var sum float64
	for _, h := range recent {
		sum += float64(h.Population)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Population) - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindows++
	} else {
		bd.stableWindows = 0
	}

	if bd.stableWindows == 5 {
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population steady around %d over 5+ windows", stats.Population),
		}
	}
	return nil
}
