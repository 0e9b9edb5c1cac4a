package reactive

// tracker holds the "currently running effect" slot. Every run saves the
// previous slot and restores it on exit, so nested runs triggered from inside
// an effect hand control back to the right enclosing effect.
type tracker struct {
	tracking bool

	running EffectID
	active  bool
}

func newTracker() *tracker {
	return &tracker{
		tracking: true,
	}
}

func (t *tracker) runWithEffect(id EffectID, fn func()) {
	prevRunning, prevActive, prevTracking := t.running, t.active, t.tracking

	t.running = id
	t.active = true
	t.tracking = true

	defer func() {
		t.running = prevRunning
		t.active = prevActive
		t.tracking = prevTracking
	}()

	fn()
}

func (t *tracker) runUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

func (t *tracker) current() (EffectID, bool) {
	return t.running, t.active
}

func (t *tracker) shouldTrack() bool {
	return t.active && t.tracking
}
