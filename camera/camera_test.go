package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/orbits/geom"
)

func TestNew(t *testing.T) {
	cam := New(OrbitParams(), 0.3, 5, -1)

	if cam.Rotation.Pitch != 0.3 || cam.Rotation.Yaw != 0 {
		t.Errorf("expected initial rotation (0.3, 0), got %+v", cam.Rotation)
	}
	if cam.Zoom != 1.2 {
		t.Errorf("expected zoom clamped to 1.2, got %f", cam.Zoom)
	}
	if cam.Speed != 0 {
		t.Errorf("expected speed clamped to 0, got %f", cam.Speed)
	}
}

func TestSetZoomIgnoresNaN(t *testing.T) {
	cam := New(OrbitParams(), 0, 1, 1)
	cam.SetZoom(math.NaN())
	cam.SetSpeed(math.Inf(1))
	if cam.Zoom != 1 || cam.Speed != 1 {
		t.Errorf("non-finite input changed state: zoom %f speed %f", cam.Zoom, cam.Speed)
	}
}

func TestAutoRotate(t *testing.T) {
	cam := New(OrbitParams(), 0.3, 1, 2)

	phase := cam.Update()
	if phase != PhaseAuto {
		t.Fatalf("expected auto phase, got %v", phase)
	}
	if math.Abs(cam.Rotation.Yaw-0.003) > 1e-12 {
		t.Errorf("expected yaw 0.003, got %f", cam.Rotation.Yaw)
	}
	if cam.Time != 2 {
		t.Errorf("expected time 2, got %f", cam.Time)
	}

	cam.SetHovering(true)
	before := cam.Rotation
	if phase := cam.Update(); phase != PhaseIdle {
		t.Errorf("hovering at rest should idle, got %v", phase)
	}
	if cam.Rotation != before {
		t.Errorf("rotation changed while hovering: %+v -> %+v", before, cam.Rotation)
	}
}

func TestTextParamsHoldStill(t *testing.T) {
	cam := New(TextParams(SphereParams()), 0.3, 1, 2)
	before := cam.Rotation
	for i := 0; i < 100; i++ {
		cam.Update()
	}
	if cam.Rotation != before {
		t.Errorf("ambient rotation in text feel: %+v -> %+v", before, cam.Rotation)
	}

	cam.BeginDrag()
	cam.DragBy(40, 0)
	cam.EndDrag()
	dragged := cam.Rotation
	if dragged.Yaw == before.Yaw {
		t.Fatal("drag did not move the camera")
	}
	if cam.Coasting() {
		t.Errorf("released drag coasts: %+v", cam.Velocity)
	}
	cam.Update()
	if cam.Rotation != dragged {
		t.Errorf("rotation drifted after release: %+v -> %+v", dragged, cam.Rotation)
	}
}

func TestFlyToConverges(t *testing.T) {
	cam := New(OrbitParams(), 0.3, 1, 1)
	cam.FlyTo(geom.Rotation{Pitch: -1.2, Yaw: 2.5})
	target, ok := cam.Target()
	if !ok {
		t.Fatal("expected a target")
	}

	timeBefore := cam.Time
	prev := math.Inf(1)
	frames := 0
	for cam.Flying() {
		if frames > 200 {
			t.Fatalf("fly-to did not finish in 200 frames, rotation %+v", cam.Rotation)
		}
		if phase := cam.Update(); phase != PhaseFlyTo {
			t.Fatalf("frame %d: expected fly-to phase, got %v", frames, phase)
		}
		d := target.Sub(cam.Rotation)
		dist := math.Max(math.Abs(d.Pitch), math.Abs(d.Yaw))
		if dist > prev {
			t.Fatalf("frame %d: distance grew from %g to %g", frames, prev, dist)
		}
		prev = dist
		frames++
	}
	if cam.Rotation != target {
		t.Errorf("expected exact snap to %+v, got %+v", target, cam.Rotation)
	}
	// Time stays frozen until the arrival frame.
	if cam.Time != timeBefore+1 {
		t.Errorf("expected time to advance only on arrival, got %f", cam.Time)
	}
}

func TestFlyToTakesShortestArc(t *testing.T) {
	cam := New(OrbitParams(), 0, 1, 1)
	cam.Rotation.Yaw = 0.1
	cam.FlyTo(geom.Rotation{Yaw: 2*math.Pi - 0.1})
	target, _ := cam.Target()
	if math.Abs(target.Yaw-(-0.1)) > 1e-12 {
		t.Errorf("expected unwrapped yaw -0.1, got %f", target.Yaw)
	}
}

func TestDragCancelsFlyTo(t *testing.T) {
	cam := New(OrbitParams(), 0.3, 1, 1)
	cam.FlyTo(geom.Rotation{Pitch: 1, Yaw: 1})
	cam.Update()

	cam.BeginDrag()
	if cam.Flying() {
		t.Fatal("drag should cancel the fly-to")
	}

	before := cam.Rotation
	cam.DragBy(10, -5)
	want := geom.Rotation{Pitch: before.Pitch - 5*0.004, Yaw: before.Yaw + 10*0.004}
	if math.Abs(cam.Rotation.Pitch-want.Pitch) > 1e-12 || math.Abs(cam.Rotation.Yaw-want.Yaw) > 1e-12 {
		t.Errorf("expected %+v, got %+v", want, cam.Rotation)
	}

	// Frames during a drag leave rotation to the pointer.
	after := cam.Rotation
	if phase := cam.Update(); phase != PhaseDrag {
		t.Errorf("expected drag phase, got %v", phase)
	}
	if cam.Rotation != after {
		t.Errorf("update moved a dragged camera: %+v -> %+v", after, cam.Rotation)
	}

	// A fly-to request during the drag is ignored.
	cam.FlyTo(geom.Rotation{Yaw: 3})
	if cam.Flying() {
		t.Error("fly-to should be ignored while dragging")
	}
}

func TestDragVelocityBlend(t *testing.T) {
	cam := New(OrbitParams(), 0, 1, 1)
	cam.BeginDrag()
	cam.DragBy(10, 0)
	cam.DragBy(10, 4)

	wantYaw := (10*0.0015)*0.5 + 10*0.0015
	wantPitch := 4 * 0.0015
	if math.Abs(cam.Velocity.Yaw-wantYaw) > 1e-12 || math.Abs(cam.Velocity.Pitch-wantPitch) > 1e-12 {
		t.Errorf("velocity = %+v, want pitch %f yaw %f", cam.Velocity, wantPitch, wantYaw)
	}
}

func TestMomentumDecays(t *testing.T) {
	cam := New(OrbitParams(), 0, 1, 1)
	cam.BeginDrag()
	cam.DragBy(12, 0)
	cam.EndDrag()

	prevStep := math.Inf(1)
	coasting := 0
	for i := 0; i < 500; i++ {
		before := cam.Rotation.Yaw
		phase := cam.Update()
		if phase != PhaseMomentum {
			break
		}
		step := math.Abs(cam.Rotation.Yaw - before)
		if step >= prevStep {
			t.Fatalf("frame %d: step %g not smaller than %g", i, step, prevStep)
		}
		prevStep = step
		coasting++
	}
	if coasting < 10 {
		t.Errorf("expected momentum to last many frames, got %d", coasting)
	}
	if cam.Velocity != (geom.Rotation{}) {
		t.Errorf("expected velocity to come to rest, got %+v", cam.Velocity)
	}
	if phase := cam.Update(); phase != PhaseAuto {
		t.Errorf("expected auto-rotation to resume after coasting, got %v", phase)
	}
}

func TestOneMechanismPerFrame(t *testing.T) {
	cam := New(OrbitParams(), 0, 1, 1)
	cam.Velocity = geom.Rotation{Yaw: 0.01}

	before := cam.Rotation.Yaw
	if phase := cam.Update(); phase != PhaseMomentum {
		t.Fatalf("expected momentum, got %v", phase)
	}
	if math.Abs(cam.Rotation.Yaw-before-0.01) > 1e-12 {
		t.Errorf("auto-rotation leaked into a momentum frame: delta %g", cam.Rotation.Yaw-before)
	}

	cam.FlyTo(geom.Rotation{Yaw: 1})
	if cam.Velocity != (geom.Rotation{}) {
		t.Error("fly-to should discard momentum")
	}
}

func TestCenteringTarget(t *testing.T) {
	tests := []struct {
		name   string
		p      r3.Vec
		lift   float64
		radius float64
	}{
		{"behind", r3.Vec{X: 0.1, Y: 0.05, Z: -0.4}, 0.3, 0.4},
		{"right", r3.Vec{X: 0.5, Y: -0.02, Z: 0}, 0.3, 0.5},
		{"sphere", r3.Vec{X: -0.3, Y: 0.6, Z: -0.74}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rot, ok := CenteringTarget(tt.p, tt.lift, tt.radius)
			if !ok {
				t.Fatal("expected a target")
			}
			got := geom.Rotate(tt.p, rot)
			if math.Abs(got.X) > 1e-9 {
				t.Errorf("lateral offset %g", got.X)
			}
			if got.Z <= 0 {
				t.Errorf("target is not front-facing: z = %f", got.Z)
			}
			if math.Abs(got.Y-tt.lift*tt.radius) > 1e-9 {
				t.Errorf("height %f, want %f", got.Y, tt.lift*tt.radius)
			}
		})
	}
}

func TestCenteringTargetClamps(t *testing.T) {
	p := r3.Vec{Z: 0.2}
	rot, ok := CenteringTarget(p, 10, 1)
	if !ok {
		t.Fatal("expected a target")
	}
	got := geom.Rotate(p, rot)
	if math.Abs(got.Y-0.9*0.2) > 1e-9 {
		t.Errorf("expected height clamped to 0.18, got %f", got.Y)
	}

	if _, ok := CenteringTarget(r3.Vec{}, 0.3, 1); ok {
		t.Error("origin should have no target")
	}
	if _, ok := CenteringTarget(r3.Vec{X: math.NaN()}, 0.3, 1); ok {
		t.Error("NaN point should have no target")
	}
}

func TestViewport(t *testing.T) {
	v := NewViewport(1200, 600, 2)
	if w, h := v.Backing(); w != 2400 || h != 1200 {
		t.Errorf("backing = %dx%d", w, h)
	}
	if c := v.Center(); c.X != 600 || c.Y != 300 {
		t.Errorf("center = %+v", c)
	}

	// aspect 2 > 1.2 scales from width
	if s := v.BaseScale(OrbitScale(), 0.5); math.Abs(s-1200*0.82*0.5) > 1e-9 {
		t.Errorf("wide base scale = %f", s)
	}
	if v.Resize(1200, 600, 2) {
		t.Error("identical resize reported a change")
	}
	if !v.Resize(500, 800, 0) || v.DPR != 1 {
		t.Errorf("resize to portrait: %+v", v)
	}
	if s := v.BaseScale(OrbitScale(), 1); math.Abs(s-800*0.75) > 1e-9 {
		t.Errorf("tall base scale = %f", s)
	}
	if s := v.BaseScale(SphereScale(), 1); math.Abs(s-500*0.42) > 1e-9 {
		t.Errorf("sphere base scale = %f", s)
	}
	if w, h := NewViewport(100.5, 10, 1.5).Backing(); w != 151 || h != 15 {
		t.Errorf("fractional backing = %dx%d", w, h)
	}
	if NewViewport(0, 10, 1).BaseScale(OrbitScale(), 1) != 0 {
		t.Error("empty viewport should have zero scale")
	}
}
