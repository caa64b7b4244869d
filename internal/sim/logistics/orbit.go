package logistics

import "sort"

// CurrentGroup returns the orbit key the platform currently shares with
// co-located peers. A platform in transit (or unknown/invalid) has no
// group.
func (e *Engine) CurrentGroup(id PlatformID) (GroupKey, bool) {
	p, ok := e.dir.Platform(id)
	if !ok || !p.Valid || p.Group == "" {
		return "", false
	}
	return p.Group, true
}

// peersInGroup lists the other valid platforms of the same collective
// sharing the platform's group, in id order. Linear scan; bounded by the
// per-cycle quota upstream.
func (e *Engine) peersInGroup(p PlatformState) []PlatformState {
	if p.Group == "" {
		return nil
	}
	var out []PlatformState
	for _, q := range e.dir.Platforms() {
		if q.ID == p.ID || !q.Valid {
			continue
		}
		if q.Collective != p.Collective || q.Group != p.Group {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
