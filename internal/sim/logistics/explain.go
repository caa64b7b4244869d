package logistics

import "skyharbor.ai/internal/protocol"

// ExplainTransfer evaluates the full gate chain for a hypothetical transfer
// from src toward dst's standing request for the item, and reports the
// first blocking gate's reason code. Diagnostic only; registries are never
// mutated.
func (e *Engine) ExplainTransfer(src, dst PlatformID, item ItemID, now uint64) (bool, string) {
	if src == "" || dst == "" || item == "" || src == dst {
		return false, protocol.ErrBadRequest
	}
	s, ok := e.dir.Platform(src)
	if !ok || !s.Valid {
		return false, protocol.ErrInvalidPlatform
	}
	d, ok := e.dir.Platform(dst)
	if !ok || !d.Valid {
		return false, protocol.ErrInvalidPlatform
	}
	if d.Group == "" || s.Group != d.Group || s.Collective != d.Collective {
		return false, protocol.ErrNotGrouped
	}
	req, ok := e.RequestFor(dst, item)
	if !ok {
		return false, protocol.ErrBadRequest
	}
	if e.isCoolingDown(dst, src, item, now) {
		return false, protocol.ErrCooldown
	}
	if allowed, _ := e.transferAllowed(s, d); !allowed {
		return false, protocol.ErrPolicyDenied
	}
	if e.wouldDeadlock(s, d) {
		return false, protocol.ErrDeadlock
	}
	avail := e.availableToSend(s, item, req.Minimum)
	if avail <= 0 {
		return false, protocol.ErrNoResource
	}
	if min(avail, req.Requested, e.availableToReceive(d, item)) < req.Minimum {
		return false, protocol.ErrNoCapacity
	}
	return true, ""
}
