// Package ebitenhost runs slidefx decks in an [Ebitengine] window.
//
// [Backend] allocates a [Renderer] per mounted session. Each renderer draws
// the session's draw list into an offscreen image that [Game] composites into
// the scene [Panel], next to the slide text. The game pumps a
// slidefx.TickDriver once per ebiten tick, turns drags and the wheel into
// orbit input and maps arrow keys to slide navigation.
//
//	deck, err := slidefx.LoadDeck("deck.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := ebitenhost.Run(deck, ebitenhost.RunConfig{Title: "Slides"}); err != nil {
//		log.Fatal(err)
//	}
//
// [Ebitengine]: https://ebitengine.org
package ebitenhost
