package logistics

import "testing"

func TestWouldDeadlock_MutualNeed(t *testing.T) {
	h := newFakeHost()
	a := h.addPlatform("A", "Station Alpha", "station", "orbit-1")
	b := h.addPlatform("B", "Station Beta", "station", "orbit-1")
	b.stock("iron-plate", 500)

	e := newTestEngine(Config{}, h)
	e.RegisterRequest("A", "iron-plate", 100, 500)

	// A (source) needs iron-plate, which B (destination) holds above the
	// minimum: shipping out of A toward B would strand A.
	if !e.wouldDeadlock(a.state, b.state) {
		t.Fatalf("expected deadlock detection")
	}
}

func TestWouldDeadlock_BelowMinimumHoldingIsSafe(t *testing.T) {
	h := newFakeHost()
	a := h.addPlatform("A", "Station Alpha", "station", "orbit-1")
	b := h.addPlatform("B", "Station Beta", "station", "orbit-1")
	b.stock("iron-plate", 99)

	e := newTestEngine(Config{}, h)
	e.RegisterRequest("A", "iron-plate", 100, 500)

	if e.wouldDeadlock(a.state, b.state) {
		t.Fatalf("partner holding below the minimum cannot satisfy the need")
	}
}

func TestWouldDeadlock_NoRequestsNoDeadlock(t *testing.T) {
	h := newFakeHost()
	a := h.addPlatform("A", "Station Alpha", "station", "orbit-1")
	b := h.addPlatform("B", "Station Beta", "station", "orbit-1")
	b.stock("iron-plate", 10000)

	e := newTestEngine(Config{}, h)
	if e.wouldDeadlock(a.state, b.state) {
		t.Fatalf("source without requests cannot deadlock")
	}
}
