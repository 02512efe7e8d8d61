// Package scene turns an ordered world list into positioned entities.
// A scene is immutable once built and is rebuilt wholesale when the list
// changes.
package scene

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/worlds"
)

// Mode selects how entities are placed.
type Mode uint8

const (
	ModeOrbit  Mode = iota // independent elliptical orbits
	ModeSphere             // golden-spiral points on a wireframe globe
	ModeText               // scrolling text strips wrapped over a globe
)

func (m Mode) String() string {
	switch m {
	case ModeSphere:
		return "sphere"
	case ModeText:
		return "text"
	default:
		return "orbit"
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "orbit", "":
		return ModeOrbit, nil
	case "sphere":
		return ModeSphere, nil
	case "text":
		return ModeText, nil
	}
	return ModeOrbit, fmt.Errorf("scene: unknown mode %q", s)
}

// Options holds placement parameters.
type Options struct {
	Placements  []geom.Orbit // cycled by list position in orbit mode
	Motion      geom.OrbitMotion
	PoleEpsilon float64  // sphere points with a smaller slice radius are skipped
	Words       []string // text mode strips; world titles when empty
}

// DefaultPlacements returns the twelve interleaving orbit descriptors.
func DefaultPlacements() []geom.Orbit {
	table := [12][3]float64{
		{0.18, 8, 0}, {0.38, -6, 30}, {0.28, 10, 60}, {0.48, -4, 90},
		{0.33, 12, 120}, {0.16, -8, 150}, {0.52, 6, 180}, {0.24, -10, 210},
		{0.42, 8, 240}, {0.55, -5, 270}, {0.35, 10, 300}, {0.45, -7, 330},
	}
	out := make([]geom.Orbit, len(table))
	for i, row := range table {
		out[i] = geom.Orbit{Radius: row[0], Tilt: geom.Deg(row[1]), Rotation: geom.Deg(row[2])}
	}
	return out
}

// DefaultOptions returns the stock placement options.
func DefaultOptions() Options {
	return Options{
		Placements:  DefaultPlacements(),
		Motion:      geom.DefaultMotion(),
		PoleEpsilon: 0.02,
	}
}

// Entity is one world's derived placement.
type Entity struct {
	Index int
	World *worlds.World

	// Orbit mode
	Phase float64
	Orbit geom.Orbit

	// Sphere mode
	Theta, Polar float64
	Point        r3.Vec

	// Degenerate entities are skipped by rendering and hit-testing.
	Degenerate bool
}

// Scene is the immutable set of entities for one world list.
type Scene struct {
	Mode     Mode
	Worlds   []worlds.World
	Entities []Entity

	orbits []geom.Orbit
	motion geom.OrbitMotion
	texts  []string
}

// Build derives entities from ws. The input slice is copied; entity
// placement depends only on list position.
func Build(ws []worlds.World, mode Mode, opts Options) *Scene {
	if len(opts.Placements) == 0 {
		opts.Placements = DefaultPlacements()
	}
	s := &Scene{
		Mode:   mode,
		Worlds: append([]worlds.World(nil), ws...),
		motion: opts.Motion,
	}

	switch mode {
	case ModeText:
		s.texts = opts.Words
		if len(s.texts) == 0 {
			s.texts = make([]string, len(s.Worlds))
			for i := range s.Worlds {
				s.texts[i] = s.Worlds[i].Title
			}
		}
		return s
	case ModeSphere:
		s.buildSphere(opts)
	default:
		s.buildOrbits(opts)
	}
	return s
}

func (s *Scene) buildOrbits(opts Options) {
	n := len(opts.Placements)
	s.Entities = make([]Entity, len(s.Worlds))
	seen := make(map[geom.Orbit]bool, n)
	for i := range s.Worlds {
		o := opts.Placements[i%n]
		e := Entity{
			Index: i,
			World: &s.Worlds[i],
			Phase: geom.GoldenPhase(i),
			Orbit: o,
		}
		e.Degenerate = !finiteOrbit(o) || o.Radius <= 0
		s.Entities[i] = e
		if !e.Degenerate && !seen[o] {
			seen[o] = true
			s.orbits = append(s.orbits, o)
		}
	}
	// An empty list still shows the bare orbits.
	if len(s.Worlds) == 0 {
		for _, o := range opts.Placements {
			if finiteOrbit(o) && o.Radius > 0 && !seen[o] {
				seen[o] = true
				s.orbits = append(s.orbits, o)
			}
		}
	}
}

func (s *Scene) buildSphere(opts Options) {
	n := len(s.Worlds)
	s.Entities = make([]Entity, n)
	for i := range s.Worlds {
		theta, polar := geom.GoldenSpiral(i, n)
		p := geom.Spherical(theta, polar, 1)
		s.Entities[i] = Entity{
			Index:      i,
			World:      &s.Worlds[i],
			Theta:      theta,
			Polar:      polar,
			Point:      p,
			Degenerate: !geom.Finite(p) || math.Sin(polar) < opts.PoleEpsilon,
		}
	}
}

func finiteOrbit(o geom.Orbit) bool {
	return geom.Finite(r3.Vec{X: o.Radius, Y: o.Tilt, Z: o.Rotation})
}

// Len returns the number of entities.
func (s *Scene) Len() int {
	return len(s.Entities)
}

// Orbits returns the distinct orbit descriptors in first-seen order.
func (s *Scene) Orbits() []geom.Orbit {
	return s.orbits
}

// Motion returns the shared orbital motion.
func (s *Scene) Motion() geom.OrbitMotion {
	return s.motion
}

// Texts returns the strip texts of a text-mode scene.
func (s *Scene) Texts() []string {
	return s.texts
}

// Position returns entity i's unrotated point at simulation time t.
// The bool is false for degenerate or out-of-range entities.
func (s *Scene) Position(i int, t float64) (r3.Vec, bool) {
	if i < 0 || i >= len(s.Entities) {
		return r3.Vec{}, false
	}
	e := &s.Entities[i]
	if e.Degenerate {
		return r3.Vec{}, false
	}
	var p r3.Vec
	if s.Mode == ModeSphere {
		p = e.Point
	} else {
		p = geom.OrbitPosition(e.Phase, e.Orbit, s.motion, t)
	}
	if !geom.Finite(p) {
		return r3.Vec{}, false
	}
	return p, true
}

// Reach returns the size used to place entity i's fly-to height: its orbit
// radius, or 1 on the unit sphere.
func (s *Scene) Reach(i int) float64 {
	if s.Mode == ModeSphere || i < 0 || i >= len(s.Entities) {
		return 1
	}
	return s.Entities[i].Orbit.Radius
}
