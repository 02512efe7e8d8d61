package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func vecClose(a, b r3.Vec, eps float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, eps) &&
		scalar.EqualWithinAbs(a.Y, b.Y, eps) &&
		scalar.EqualWithinAbs(a.Z, b.Z, eps)
}

func TestRotateRoundTrip(t *testing.T) {
	points := []r3.Vec{
		{X: 1},
		{Y: 1},
		{Z: 1},
		{X: 0.3, Y: -0.7, Z: 0.2},
		{X: -12.5, Y: 4, Z: 9.75},
	}
	rotations := []Rotation{
		{},
		{Pitch: 0.3},
		{Yaw: -2.1},
		{Pitch: 1.4, Yaw: 0.9},
		{Pitch: -7.2, Yaw: 13.1},
	}
	for _, p := range points {
		for _, rot := range rotations {
			got := InverseRotate(Rotate(p, rot), rot)
			if !vecClose(got, p, tol) {
				t.Errorf("round trip of %v by %+v = %v", p, rot, got)
			}
		}
	}
}

func TestRotateMatchesQuaternionComposition(t *testing.T) {
	// Yaw turns x toward -z, which is a right-handed turn about y by -yaw.
	yAxis := r3.Vec{Y: 1}
	xAxis := r3.Vec{X: 1}
	p := r3.Vec{X: 0.4, Y: -0.25, Z: 0.8}

	for _, rot := range []Rotation{{Pitch: 0.3, Yaw: 0.7}, {Pitch: -1.1, Yaw: 2.9}} {
		want := r3.NewRotation(rot.Pitch, xAxis).Rotate(r3.NewRotation(-rot.Yaw, yAxis).Rotate(p))
		got := Rotate(p, rot)
		if !vecClose(got, want, 1e-9) {
			t.Errorf("Rotate(%v, %+v) = %v, want %v", p, rot, got, want)
		}
	}
}

func TestRotatePreservesLength(t *testing.T) {
	p := r3.Vec{X: 0.2, Y: 0.5, Z: -0.9}
	got := Rotate(p, Rotation{Pitch: 0.77, Yaw: -1.3})
	if !scalar.EqualWithinAbs(r3.Norm(got), r3.Norm(p), tol) {
		t.Errorf("length changed: %f -> %f", r3.Norm(p), r3.Norm(got))
	}
}

func TestSpherical(t *testing.T) {
	tests := []struct {
		name       string
		theta, phi float64
		want       r3.Vec
	}{
		{"north pole", 0, 0, r3.Vec{Y: 2}},
		{"equator x", 0, math.Pi / 2, r3.Vec{X: 2}},
		{"equator z", math.Pi / 2, math.Pi / 2, r3.Vec{Z: 2}},
		{"south pole", 1.2, math.Pi, r3.Vec{Y: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spherical(tt.theta, tt.phi, 2)
			if !vecClose(got, tt.want, tol) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoldenSpiralUniformity(t *testing.T) {
	const n = 400
	pts := make([]r3.Vec, n)
	for i := range pts {
		theta, phi := GoldenSpiral(i, n)
		pts[i] = Spherical(theta, phi, 1)
	}

	// Expected nearest-neighbour spacing for n evenly spread points.
	spacing := math.Sqrt(4 * math.Pi / n)
	minNN, maxNN := math.Inf(1), 0.0
	for i, a := range pts {
		nn := math.Inf(1)
		for j, b := range pts {
			if i == j {
				continue
			}
			ang := math.Acos(Clamp(r3.Dot(a, b), -1, 1))
			nn = math.Min(nn, ang)
		}
		minNN = math.Min(minNN, nn)
		maxNN = math.Max(maxNN, nn)
	}
	if minNN < 0.4*spacing {
		t.Errorf("points too close: min neighbour angle %f, spacing %f", minNN, spacing)
	}
	if maxNN > 1.6*spacing {
		t.Errorf("gap too wide: max neighbour angle %f, spacing %f", maxNN, spacing)
	}

	var upper, right, front int
	for _, p := range pts {
		if p.Y > 0 {
			upper++
		}
		if p.X > 0 {
			right++
		}
		if p.Z > 0 {
			front++
		}
	}
	for name, count := range map[string]int{"upper": upper, "right": right, "front": front} {
		if math.Abs(float64(count)-n/2) > 0.1*n {
			t.Errorf("%s hemisphere holds %d of %d points", name, count, n)
		}
	}
}

func TestGoldenPhase(t *testing.T) {
	if GoldenPhase(0) != 0 {
		t.Errorf("phase 0 = %f", GoldenPhase(0))
	}
	want := math.Mod(0.618*2*math.Pi*5, 2*math.Pi)
	if !scalar.EqualWithinAbs(GoldenPhase(5), want, tol) {
		t.Errorf("phase 5 = %f, want %f", GoldenPhase(5), want)
	}
	for i := 0; i < 100; i++ {
		p := GoldenPhase(i)
		if p < 0 || p >= 2*math.Pi {
			t.Errorf("phase %d out of range: %f", i, p)
		}
	}
}

func TestOrbitPositionFlatOrbit(t *testing.T) {
	m := DefaultMotion()
	o := Orbit{Radius: 0.5}

	got := OrbitPosition(0, o, m, 0)
	if !vecClose(got, r3.Vec{X: 0.5}, tol) {
		t.Errorf("phase 0: got %v", got)
	}

	got = OrbitPosition(math.Pi/2, o, m, 0)
	if !vecClose(got, r3.Vec{Z: 0.5 * m.Ellipse}, tol) {
		t.Errorf("phase pi/2: got %v, want flattened z", got)
	}
}

func TestOrbitPositionTiltAndRotation(t *testing.T) {
	m := DefaultMotion()
	o := Orbit{Radius: 1, Tilt: Deg(90), Rotation: Deg(90)}

	// Quarter phase: z = e, tilt 90 moves it to y = -e, rotation leaves y.
	got := OrbitPosition(math.Pi/2, o, m, 0)
	if !vecClose(got, r3.Vec{Y: -m.Ellipse}, 1e-9) {
		t.Errorf("got %v", got)
	}

	// Zero phase: x = 1, rotation by 90 sends x to z.
	got = OrbitPosition(0, o, m, 0)
	if !vecClose(got, r3.Vec{Z: 1}, 1e-9) {
		t.Errorf("got %v", got)
	}
}

func TestOrbitPositionAdvancesWithTime(t *testing.T) {
	m := DefaultMotion()
	o := Orbit{Radius: 0.4, Tilt: 0.1, Rotation: 0.7}
	dt := 1000.0
	want := OrbitPosition(0.3+dt*m.AngularSpeed(o.Radius), o, m, 0)
	got := OrbitPosition(0.3, o, m, dt)
	if !vecClose(got, want, tol) {
		t.Errorf("got %v, want %v", got, want)
	}
	if m.AngularSpeed(0.5) <= m.AngularSpeed(0.1) {
		t.Error("outer orbits should move faster")
	}
}

func TestNearest(t *testing.T) {
	tests := []struct {
		from, target, want float64
	}{
		{0, 0.5, 0.5},
		{0, 2*math.Pi - 0.1, -0.1},
		{10 * math.Pi, 0.2, 10*math.Pi + 0.2},
		{-3, 3, 3 - 2*math.Pi},
	}
	for _, tt := range tests {
		got := Nearest(tt.from, tt.target)
		if !scalar.EqualWithinAbs(got, tt.want, 1e-9) {
			t.Errorf("Nearest(%f, %f) = %f, want %f", tt.from, tt.target, got, tt.want)
		}
	}
}

func TestProjectAndDepth(t *testing.T) {
	got := Project(r3.Vec{X: 0.5, Y: 0.25, Z: 0.9}, Vec2{X: 100, Y: 50}, 40)
	if got.X != 120 || got.Y != 40 {
		t.Errorf("Project = %+v, want (120, 40)", got)
	}

	if DepthFraction(-1) != 0 || DepthFraction(1) != 1 || DepthFraction(0) != 0.5 {
		t.Error("depth fraction endpoints wrong")
	}
	if DepthFraction(3) != 1 || DepthFraction(-3) != 0 {
		t.Error("depth fraction should clamp")
	}
}

func TestFinite(t *testing.T) {
	if !Finite(r3.Vec{X: 1}) {
		t.Error("finite vector reported non-finite")
	}
	if Finite(r3.Vec{Y: math.NaN()}) || Finite(r3.Vec{Z: math.Inf(1)}) {
		t.Error("non-finite vector reported finite")
	}
}
