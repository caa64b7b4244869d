package logistics

import "log"

// fakeHost is a minimal Directory+Inventory for engine tests. Free capacity
// is set explicitly per (bay, item) so tests can shrink a destination
// between commit and delivery.
type fakeHost struct {
	platforms map[PlatformID]*fakePlatform
	order     []PlatformID
}

type fakePlatform struct {
	host  *fakeHost
	state PlatformState
	bays  map[EndpointID]*fakeBay
}

type fakeBay struct {
	items map[ItemID]int
	free  map[ItemID]int
}

func newFakeHost() *fakeHost {
	return &fakeHost{platforms: map[PlatformID]*fakePlatform{}}
}

func (h *fakeHost) addPlatform(id PlatformID, name, tag string, group GroupKey) *fakePlatform {
	p := &fakePlatform{
		host: h,
		state: PlatformState{
			ID:         id,
			Name:       name,
			Collective: "player",
			Tag:        tag,
			Valid:      true,
			Group:      group,
		},
		bays: map[EndpointID]*fakeBay{},
	}
	ep := EndpointID(string(id) + "/main")
	p.state.Endpoints = []EndpointID{ep}
	p.bays[ep] = &fakeBay{items: map[ItemID]int{}, free: map[ItemID]int{}}
	h.platforms[id] = p
	h.order = append(h.order, id)
	return p
}

func (p *fakePlatform) bay() *fakeBay {
	return p.bays[p.state.Endpoints[0]]
}

// stock sets the held count for an item.
func (p *fakePlatform) stock(item ItemID, n int) {
	p.bay().items[item] = n
}

// space sets the free capacity for an item.
func (p *fakePlatform) space(item ItemID, n int) {
	p.bay().free[item] = n
}

func (p *fakePlatform) held(item ItemID) int {
	return p.bay().items[item]
}

func (p *fakePlatform) setValid(v bool) { p.state.Valid = v }

func (p *fakePlatform) setGroup(g GroupKey) { p.state.Group = g }

func (h *fakeHost) Platform(id PlatformID) (PlatformState, bool) {
	p := h.platforms[id]
	if p == nil {
		return PlatformState{}, false
	}
	return p.state, true
}

func (h *fakeHost) Platforms() []PlatformState {
	out := make([]PlatformState, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.platforms[id].state)
	}
	return out
}

func (h *fakeHost) bayFor(ep EndpointID) *fakeBay {
	for _, p := range h.platforms {
		if b, ok := p.bays[ep]; ok {
			return b
		}
	}
	return nil
}

func (h *fakeHost) ItemCount(ep EndpointID, item ItemID) int {
	b := h.bayFor(ep)
	if b == nil {
		return 0
	}
	return b.items[item]
}

func (h *fakeHost) FreeCapacity(ep EndpointID, item ItemID) int {
	b := h.bayFor(ep)
	if b == nil {
		return 0
	}
	return b.free[item]
}

func (h *fakeHost) Remove(ep EndpointID, item ItemID, count int) int {
	b := h.bayFor(ep)
	if b == nil || count <= 0 {
		return 0
	}
	n := min(b.items[item], count)
	if n <= 0 {
		return 0
	}
	b.items[item] -= n
	return n
}

func (h *fakeHost) Insert(ep EndpointID, item ItemID, count int) int {
	b := h.bayFor(ep)
	if b == nil || count <= 0 {
		return 0
	}
	n := min(b.free[item], count)
	if n <= 0 {
		return 0
	}
	b.items[item] += n
	b.free[item] -= n
	return n
}

func newTestEngine(cfg Config, h *fakeHost) *Engine {
	return New(cfg, h, h, log.New(discard{}, "", 0))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// reservedFor reads the in-flight reservation for a (dest, item) pair.
func (e *Engine) reservedFor(dst PlatformID, item ItemID) int {
	return e.reservations[reservationKey{Dst: dst, Item: item}]
}

// podTotalFor sums pending pod counts for a (dest, item) pair.
func (e *Engine) podTotalFor(dst PlatformID, item ItemID) int {
	total := 0
	for _, pod := range e.pods {
		if pod.Dest == dst && pod.Item == item {
			total += pod.Count
		}
	}
	return total
}
