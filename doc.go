// Package slidefx is the scene engine behind an educational slideshow: each
// slide pairs text with a small real-time 3D visualization.
//
// # Quick start
//
// A host provides a [Surface] to draw into, a [Backend] that allocates
// renderers and a [FrameDriver] that calls back once per display refresh.
// [Mount] builds the scene a slide asks for and starts its frame chain;
// [Session.Dispose] tears everything down again:
//
//	driver := slidefx.NewTickDriver()
//	s, err := slidefx.Mount(panel, backend, driver, slidefx.SceneConfig{
//		AnimationType: "ai-landscape",
//		Color:         "#4B286D",
//		Speed:         1,
//	})
//	if errors.Is(err, slidefx.ErrSurfaceNotReady) {
//		// lay out first, mount again later
//	}
//	defer s.Dispose()
//
//	// once per display refresh:
//	driver.Tick(nowMs)
//
// The ebitenhost package provides all three collaborators for an
// Ebitengine window.
//
// # Scenes
//
// Scenes are selected by name through [NewScene]. Unknown names fall back to
// the cube. The animated simulations are:
//
//   - ai-landscape: nested dolls that unpack and repack on a [PhaseMachine].
//   - bridge: bytes that cross a deck and turn into linked neurons ([BridgeSim]).
//   - programming-paradigm: balls dropped through fixed and adaptive gates
//     ([GateSystem]).
//   - linear-regression: a line fitted by hand over noisy data ([Overlay]).
//   - gradient-descent and equation: supporting visuals for the regression
//     slides.
//
// cube, sphere, torus, grid, particles and neural-network spin a single
// showcase object.
//
// # Time
//
// Every simulation advances by wall time in seconds multiplied by the
// session speed. A speed of 0 freezes the simulation while the scene keeps
// rendering. Per-frame constants are tuned at 60 Hz, so hosts running at a
// different refresh rate see the same motion per second.
//
// # Rendering
//
// Each frame the session projects its node tree through the [Camera],
// shades it with its lights and hands the renderer a depth-sorted
// [DrawList] of circles, polygons, lines and labels.
//
// # Events
//
// Sessions report phase changes, transmutations, recycles and catches to an
// [EventSink]. The ecs package publishes them into a Donburi world.
package slidefx
