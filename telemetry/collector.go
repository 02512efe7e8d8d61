package telemetry

import (
	"math"

	"github.com/pthm-cable/orbits/camera"
)

// Collector accumulates per-frame camera activity within fixed frame
// windows and produces WindowStats.
type Collector struct {
	windowFrames uint64
	windowStart  uint64

	phaseFrames [camera.PhaseAuto + 1]int
	selections  int
	deselects   int
	flights     int

	// angular speed per frame, reused across windows
	speeds []float64
}

// NewCollector creates a collector with windows of the given frame count.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: uint64(windowFrames),
		speeds:       make([]float64, 0, windowFrames),
	}
}

// RecordFrame records which mechanism moved the camera and by how much.
func (c *Collector) RecordFrame(phase camera.Phase, moved float64) {
	if int(phase) < len(c.phaseFrames) {
		c.phaseFrames[phase]++
	}
	c.speeds = append(c.speeds, math.Abs(moved))
}

// Record counts an interaction event.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventSelect:
		c.selections++
	case EventDeselect:
		c.deselects++
	case EventFlyTo:
		c.flights++
	}
}

// ShouldFlush reports whether frame closes the current window.
func (c *Collector) ShouldFlush(frame uint64) bool {
	return frame-c.windowStart >= c.windowFrames
}

// Flush produces stats for the window ending at frame and starts a new one.
func (c *Collector) Flush(frame uint64, simTime float64) WindowStats {
	frames := len(c.speeds)
	s := WindowStats{
		WindowStart:    c.windowStart,
		WindowEnd:      frame,
		SimTime:        simTime,
		Frames:         frames,
		IdleFrames:     c.phaseFrames[camera.PhaseIdle],
		DragFrames:     c.phaseFrames[camera.PhaseDrag],
		FlyFrames:      c.phaseFrames[camera.PhaseFlyTo],
		MomentumFrames: c.phaseFrames[camera.PhaseMomentum],
		AutoFrames:     c.phaseFrames[camera.PhaseAuto],
		Selections:     c.selections,
		Deselects:      c.deselects,
		Flights:        c.flights,
	}
	s.SpeedMean, s.SpeedP50, s.SpeedP90 = ComputeSpeedStats(c.speeds)

	c.windowStart = frame
	clear(c.phaseFrames[:])
	c.selections, c.deselects, c.flights = 0, 0, 0
	c.speeds = c.speeds[:0]
	return s
}
