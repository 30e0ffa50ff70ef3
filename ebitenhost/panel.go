package ebitenhost

// Panel is the rectangular region of the window a scene renders into. It
// implements slidefx.Surface.
type Panel struct {
	X, Y int

	w, h      int
	listeners []panelListener
	nextID    int
}

type panelListener struct {
	id int
	fn func(w, h int)
}

// NewPanel creates a panel of the given size at the window origin.
func NewPanel(w, h int) *Panel {
	return &Panel{w: w, h: h}
}

// Size returns the panel size in pixels.
func (p *Panel) Size() (w, h int) { return p.w, p.h }

// OnResize registers fn to be called after every size change. The returned
// function unregisters it and may be called more than once.
func (p *Panel) OnResize(fn func(w, h int)) (remove func()) {
	p.nextID++
	id := p.nextID
	p.listeners = append(p.listeners, panelListener{id: id, fn: fn})
	return func() {
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of registered resize callbacks.
func (p *Panel) Listeners() int { return len(p.listeners) }

// SetBounds moves and resizes the panel. Listeners run only when the size
// actually changed.
func (p *Panel) SetBounds(x, y, w, h int) {
	p.X, p.Y = x, y
	if w == p.w && h == p.h {
		return
	}
	p.w, p.h = w, h
	for _, l := range p.listeners {
		l.fn(w, h)
	}
}

// Contains reports whether the window point (x, y) is inside the panel.
func (p *Panel) Contains(x, y int) bool {
	return x >= p.X && x < p.X+p.w && y >= p.Y && y < p.Y+p.h
}
