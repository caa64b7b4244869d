package logistics

import "skyharbor.ai/internal/protocol"

// RegisterRequest upserts the standing request keyed by (platform, item).
// Last write wins and resets LastProcessed. Returns false on invalid
// arguments or an unknown/invalid platform.
func (e *Engine) RegisterRequest(id PlatformID, item ItemID, minimum, requested int) bool {
	if id == "" || item == "" || minimum < 1 || requested < minimum {
		return false
	}
	p, ok := e.dir.Platform(id)
	if !ok || !p.Valid {
		return false
	}
	m := e.requests[id]
	if m == nil {
		m = map[ItemID]*Request{}
		e.requests[id] = m
	}
	m[item] = &Request{Item: item, Minimum: minimum, Requested: requested}
	e.emit(protocol.Event{
		"type":      protocol.EvRequestRegistered,
		"platform":  string(id),
		"item":      string(item),
		"minimum":   minimum,
		"requested": requested,
	})
	return true
}

// RemoveRequest deletes the request for (platform, item). Returns false
// when no such request exists.
func (e *Engine) RemoveRequest(id PlatformID, item ItemID) bool {
	m := e.requests[id]
	if _, ok := m[item]; !ok {
		return false
	}
	delete(m, item)
	if len(m) == 0 {
		delete(e.requests, id)
	}
	e.emit(protocol.Event{
		"type":     protocol.EvRequestRemoved,
		"platform": string(id),
		"item":     string(item),
	})
	return true
}

// Requests returns a copy of the platform's standing requests.
func (e *Engine) Requests(id PlatformID) map[ItemID]Request {
	m := e.requests[id]
	if len(m) == 0 {
		return nil
	}
	out := make(map[ItemID]Request, len(m))
	for item, req := range m {
		out[item] = *req
	}
	return out
}

// RequestFor returns the request for (platform, item) when present.
func (e *Engine) RequestFor(id PlatformID, item ItemID) (Request, bool) {
	req, ok := e.requests[id][item]
	if !ok {
		return Request{}, false
	}
	return *req, true
}

// CanReceiveItems reports whether the platform could accept the quantity
// right now, with a reason code when it cannot.
func (e *Engine) CanReceiveItems(id PlatformID, item ItemID, quantity int) (bool, string) {
	if item == "" || quantity <= 0 {
		return false, protocol.ErrBadRequest
	}
	p, ok := e.dir.Platform(id)
	if !ok || !p.Valid {
		return false, protocol.ErrInvalidPlatform
	}
	if e.availableToReceive(p, item) < quantity {
		return false, protocol.ErrNoCapacity
	}
	return true, ""
}
