package logistics

// wouldDeadlock reports whether committing a transfer out of src toward dst
// would strand src's own needs: true when src has any standing request for
// an item the destination currently holds at or above that request's
// minimum. One-hop heuristic only — chains of three or more platforms are
// not detected.
func (e *Engine) wouldDeadlock(src, dst PlatformState) bool {
	reqs := e.requests[src.ID]
	if len(reqs) == 0 {
		return false
	}
	for item, req := range reqs {
		held := 0
		for _, ep := range dst.Endpoints {
			held += e.inv.ItemCount(ep, item)
		}
		if held >= req.Minimum {
			return true
		}
	}
	return false
}
