package slidefx

// FrameHandle identifies an active frame chain started on a FrameDriver.
// The zero handle is never returned by Start.
type FrameHandle uint32

// FrameDriver requests one callback per display refresh. timeMs is the
// host's absolute clock in milliseconds.
type FrameDriver interface {
	Start(onFrame func(timeMs float64)) FrameHandle
	Stop(h FrameHandle)
}

type frameChain struct {
	handle  FrameHandle
	fn      func(timeMs float64)
	stopped bool
}

// TickDriver is a FrameDriver pumped by the host: call Tick once per display
// refresh (from ebiten's Update, or directly in tests).
//
// There is no locking; the driver is driven from a single loop.
type TickDriver struct {
	chains  []frameChain
	next    FrameHandle
	ticking bool
}

// NewTickDriver creates an idle driver.
func NewTickDriver() *TickDriver {
	return &TickDriver{}
}

// Start registers onFrame and returns its handle.
func (d *TickDriver) Start(onFrame func(timeMs float64)) FrameHandle {
	d.next++
	d.chains = append(d.chains, frameChain{handle: d.next, fn: onFrame})
	return d.next
}

// Stop cancels the chain. Unknown or already stopped handles are ignored.
// A chain stopped from inside a callback is not invoked again, not even later
// in the same Tick.
func (d *TickDriver) Stop(h FrameHandle) {
	for i := range d.chains {
		if d.chains[i].handle == h {
			d.chains[i].stopped = true
			d.chains[i].fn = nil
		}
	}
	if !d.ticking {
		d.compact()
	}
}

// Tick invokes every active chain with the given time.
func (d *TickDriver) Tick(timeMs float64) {
	d.ticking = true
	// Chains started during the tick wait for the next one.
	n := len(d.chains)
	for i := 0; i < n; i++ {
		c := d.chains[i]
		if c.stopped {
			continue
		}
		c.fn(timeMs)
	}
	d.ticking = false
	d.compact()
}

// Active returns the number of running chains.
func (d *TickDriver) Active() int {
	n := 0
	for _, c := range d.chains {
		if !c.stopped {
			n++
		}
	}
	return n
}

// compact drops stopped chains without reallocating.
func (d *TickDriver) compact() {
	live := d.chains[:0]
	for _, c := range d.chains {
		if !c.stopped {
			live = append(live, c)
		}
	}
	for i := len(live); i < len(d.chains); i++ {
		d.chains[i] = frameChain{}
	}
	d.chains = live
}
