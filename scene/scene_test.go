package scene

import (
	"fmt"
	"math"
	"testing"

	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/worlds"
)

func makeWorlds(n int) []worlds.World {
	ws := make([]worlds.World, n)
	for i := range ws {
		ws[i] = worlds.World{ID: fmt.Sprintf("w%d", i), Title: fmt.Sprintf("World %d", i)}
	}
	return ws
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeOrbit, ModeSphere, ModeText} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("cube"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestBuildDeterministic(t *testing.T) {
	ws := makeWorlds(30)
	for _, mode := range []Mode{ModeOrbit, ModeSphere} {
		a := Build(ws, mode, DefaultOptions())
		b := Build(ws, mode, DefaultOptions())
		if a.Len() != b.Len() {
			t.Fatalf("%v: lengths differ", mode)
		}
		for i := range a.Entities {
			ea, eb := a.Entities[i], b.Entities[i]
			if ea.Phase != eb.Phase || ea.Orbit != eb.Orbit || ea.Theta != eb.Theta || ea.Polar != eb.Polar {
				t.Errorf("%v entity %d differs: %+v vs %+v", mode, i, ea, eb)
			}
		}
	}
}

func TestOrbitPlacementCycles(t *testing.T) {
	s := Build(makeWorlds(14), ModeOrbit, DefaultOptions())
	table := DefaultPlacements()

	if s.Entities[12].Orbit != table[0] || s.Entities[13].Orbit != table[1] {
		t.Errorf("placements should cycle every 12 entities")
	}
	if got := len(s.Orbits()); got != 12 {
		t.Errorf("expected 12 distinct orbits, got %d", got)
	}
	if s.Entities[3].Phase != geom.GoldenPhase(3) {
		t.Errorf("phase 3 = %f", s.Entities[3].Phase)
	}
	if s.Entities[5].World.ID != "w5" {
		t.Errorf("entity 5 bound to %q", s.Entities[5].World.ID)
	}
	if s.Reach(1) != 0.38 {
		t.Errorf("reach = %f", s.Reach(1))
	}
}

func TestFewWorldsFewOrbits(t *testing.T) {
	s := Build(makeWorlds(3), ModeOrbit, DefaultOptions())
	if got := len(s.Orbits()); got != 3 {
		t.Errorf("expected 3 orbits, got %d", got)
	}
}

func TestEmptyListKeepsOrbits(t *testing.T) {
	s := Build(nil, ModeOrbit, DefaultOptions())
	if s.Len() != 0 {
		t.Errorf("expected no entities, got %d", s.Len())
	}
	if got := len(s.Orbits()); got != 12 {
		t.Errorf("expected bare orbits for an empty list, got %d", got)
	}
	if _, ok := s.Position(0, 0); ok {
		t.Error("position of missing entity should fail")
	}
}

func TestSpherePoleIsDegenerate(t *testing.T) {
	n := 10000
	s := Build(makeWorlds(n), ModeSphere, DefaultOptions())
	if !s.Entities[0].Degenerate || !s.Entities[n-1].Degenerate {
		t.Error("pole-adjacent entities should be degenerate")
	}
	if s.Entities[n/2].Degenerate {
		t.Error("equatorial entity should not be degenerate")
	}
	if _, ok := s.Position(0, 0); ok {
		t.Error("degenerate entity should have no position")
	}
	p, ok := s.Position(n/2, 123)
	if !ok || math.Abs(p.X*p.X+p.Y*p.Y+p.Z*p.Z-1) > 1e-9 {
		t.Errorf("sphere point %v not on unit sphere", p)
	}
	if len(s.Orbits()) != 0 {
		t.Error("sphere scenes have no orbits")
	}
}

func TestNaNPlacementIsSkipped(t *testing.T) {
	opts := DefaultOptions()
	opts.Placements = []geom.Orbit{{Radius: math.NaN()}, {Radius: 0.3}}
	s := Build(makeWorlds(2), ModeOrbit, opts)
	if !s.Entities[0].Degenerate || s.Entities[1].Degenerate {
		t.Errorf("degenerate flags = %v, %v", s.Entities[0].Degenerate, s.Entities[1].Degenerate)
	}
	if len(s.Orbits()) != 1 {
		t.Errorf("expected only the finite orbit, got %d", len(s.Orbits()))
	}
}

func TestOrbitPositionMatchesGeom(t *testing.T) {
	s := Build(makeWorlds(12), ModeOrbit, DefaultOptions())
	e := s.Entities[7]
	want := geom.OrbitPosition(e.Phase, e.Orbit, geom.DefaultMotion(), 50)
	got, ok := s.Position(7, 50)
	if !ok || got != want {
		t.Errorf("Position = %v, want %v", got, want)
	}
}

func TestTextScene(t *testing.T) {
	s := Build(makeWorlds(2), ModeText, DefaultOptions())
	if s.Len() != 0 || len(s.Texts()) != 2 || s.Texts()[1] != "World 1" {
		t.Errorf("text scene from titles: %d entities, texts %v", s.Len(), s.Texts())
	}

	opts := DefaultOptions()
	opts.Words = []string{"TOPIA", "WORLD", "BUILDERS"}
	s = Build(nil, ModeText, opts)
	if len(s.Texts()) != 3 {
		t.Errorf("texts = %v", s.Texts())
	}
}

func TestBuildCopiesInput(t *testing.T) {
	ws := makeWorlds(2)
	s := Build(ws, ModeOrbit, DefaultOptions())
	ws[0].Title = "changed"
	if s.Entities[0].World.Title != "World 0" {
		t.Error("scene should snapshot the input list")
	}
}
