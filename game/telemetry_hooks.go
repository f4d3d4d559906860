package game

import (
	"log/slog"

	"github.com/pthm-cable/critters/telemetry"
)

// windowOutput is a flushed window waiting to be written.
type windowOutput struct {
	stats     telemetry.WindowStats
	perf      telemetry.PerfStats
	bookmarks []telemetry.Bookmark
	snapshots []*telemetry.Snapshot // one per bookmark when snapshots are enabled
}

// flushTelemetry closes the stats window when due and queues it for
// DrainOutput. It copies state only; nothing is written inside the tick.
func (w *World) flushTelemetry() {
	if !w.collector.ShouldFlush(w.time) {
		return
	}

	out := windowOutput{
		stats: w.collector.Flush(w.time, w.sample()),
		perf:  w.perf.Stats(),
	}
	out.bookmarks = w.bookmarks.Check(out.stats)
	if w.snapshotDir != "" {
		for i := range out.bookmarks {
			out.snapshots = append(out.snapshots, w.Snapshot(&out.bookmarks[i]))
		}
	}
	w.pending = append(w.pending, out)
}

// DrainOutput runs the stats hooks and writes CSV rows and bookmark
// snapshots for every window flushed since the last call, oldest first.
// Call it between ticks. It returns the number of windows drained.
func (w *World) DrainOutput() int {
	pending := w.pending
	w.pending = nil
	for _, out := range pending {
		w.writeWindow(out)
	}
	return len(pending)
}

func (w *World) writeWindow(out windowOutput) {
	for _, fn := range w.onStats {
		fn(out.stats)
	}

	if w.logStats {
		out.stats.LogStats()
		out.perf.LogStats()
	}

	if err := w.output.WriteTelemetry(out.stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := w.output.WritePerf(out.perf, out.stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range out.bookmarks {
		if w.logStats {
			bm.LogBookmark()
		}
		if err := w.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
	for _, snap := range out.snapshots {
		path, err := telemetry.SaveSnapshot(snap, w.snapshotDir)
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
			continue
		}
		slog.Info("snapshot saved", "path", path, "tick", snap.Tick)
	}
}

// sample collects the population state at window end.
func (w *World) sample() telemetry.PopulationSample {
	s := telemetry.PopulationSample{
		TotalBirths:   w.totalBirths,
		MaxGeneration: w.lifetimes.MaxGeneration(),
		TotalFood:     w.terrain.TotalFood(),
		Season:        w.terrain.Season(),
		SeasonBand:    w.terrain.SeasonBand(),
	}

	query := w.creatureFilter.Query()
	for query.Next() {
		_, _, body, org, _ := query.Get()
		s.Sizes = append(s.Sizes, body.Size)
		s.Ages = append(s.Ages, float64(w.time-org.Birthday))
	}
	return s
}
