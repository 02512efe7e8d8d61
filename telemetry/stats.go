package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated camera activity for a frame window.
type WindowStats struct {
	WindowStart uint64  `csv:"-"`
	WindowEnd   uint64  `csv:"window_end"`
	SimTime     float64 `csv:"sim_time"`
	Frames      int     `csv:"frames"`

	// Frames per camera mechanism
	IdleFrames     int `csv:"idle"`
	DragFrames     int `csv:"drag"`
	FlyFrames      int `csv:"fly_to"`
	MomentumFrames int `csv:"momentum"`
	AutoFrames     int `csv:"auto"`

	// Interaction
	Selections int `csv:"selections"`
	Deselects  int `csv:"deselects"`
	Flights    int `csv:"flights"`

	// Angular speed in radians per frame
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Percentile returns the p-th empirical quantile of a sorted slice, or 0
// for an empty one.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	switch {
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeSpeedStats returns the mean, median and 90th percentile. values
// is sorted in place.
func ComputeSpeedStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	slices.Sort(values)
	return mean, Percentile(values, 0.5), Percentile(values, 0.9)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStart),
		slog.Uint64("window_end", s.WindowEnd),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("frames", s.Frames),
		slog.Int("idle", s.IdleFrames),
		slog.Int("drag", s.DragFrames),
		slog.Int("fly_to", s.FlyFrames),
		slog.Int("momentum", s.MomentumFrames),
		slog.Int("auto", s.AutoFrames),
		slog.Int("selections", s.Selections),
		slog.Int("deselects", s.Deselects),
		slog.Int("flights", s.Flights),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
