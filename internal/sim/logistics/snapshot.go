package logistics

import (
	"sort"

	"skyharbor.ai/internal/persistence/snapshot"
)

const snapshotVersion = 1

// ExportSnapshot serializes the engine registries. Rows are sorted so
// identical states export identically.
func (e *Engine) ExportSnapshot(tick uint64) snapshot.EngineV1 {
	snap := snapshot.EngineV1{
		Header:        snapshot.Header{Version: snapshotVersion, Tick: tick},
		LastCycleTick: e.lastCycleTick,
	}

	for id, m := range e.requests {
		for item, req := range m {
			snap.Requests = append(snap.Requests, snapshot.RequestV1{
				Platform:      string(id),
				Item:          string(item),
				Minimum:       req.Minimum,
				Requested:     req.Requested,
				LastProcessed: req.LastProcessed,
			})
		}
	}
	sort.Slice(snap.Requests, func(i, j int) bool {
		a, b := snap.Requests[i], snap.Requests[j]
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.Item < b.Item
	})

	for k, last := range e.cooldowns {
		snap.Cooldowns = append(snap.Cooldowns, snapshot.CooldownV1{
			Dest:             string(k.Dst),
			Source:           string(k.Src),
			Item:             string(k.Item),
			LastTransferTick: last,
		})
	}
	sort.Slice(snap.Cooldowns, func(i, j int) bool {
		a, b := snap.Cooldowns[i], snap.Cooldowns[j]
		if a.Dest != b.Dest {
			return a.Dest < b.Dest
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Item < b.Item
	})

	for k, n := range e.reservations {
		snap.Reservations = append(snap.Reservations, snapshot.ReservationV1{
			Dest:  string(k.Dst),
			Item:  string(k.Item),
			Count: n,
		})
	}
	sort.Slice(snap.Reservations, func(i, j int) bool {
		a, b := snap.Reservations[i], snap.Reservations[j]
		if a.Dest != b.Dest {
			return a.Dest < b.Dest
		}
		return a.Item < b.Item
	})

	for _, pod := range e.pods {
		snap.Pods = append(snap.Pods, snapshot.PodV1{
			Source:  string(pod.Source),
			Dest:    string(pod.Dest),
			Item:    string(pod.Item),
			Count:   pod.Count,
			ETA:     pod.ETA,
			Created: pod.Created,
		})
	}

	return snap
}

// ImportSnapshot replaces the engine registries with the snapshot contents.
func (e *Engine) ImportSnapshot(snap snapshot.EngineV1) {
	e.lastCycleTick = snap.LastCycleTick

	e.requests = map[PlatformID]map[ItemID]*Request{}
	for _, r := range snap.Requests {
		if r.Platform == "" || r.Item == "" || r.Minimum < 1 || r.Requested < r.Minimum {
			continue
		}
		id := PlatformID(r.Platform)
		m := e.requests[id]
		if m == nil {
			m = map[ItemID]*Request{}
			e.requests[id] = m
		}
		m[ItemID(r.Item)] = &Request{
			Item:          ItemID(r.Item),
			Minimum:       r.Minimum,
			Requested:     r.Requested,
			LastProcessed: r.LastProcessed,
		}
	}

	e.cooldowns = map[cooldownKey]uint64{}
	for _, c := range snap.Cooldowns {
		e.cooldowns[cooldownKey{
			Dst:  PlatformID(c.Dest),
			Src:  PlatformID(c.Source),
			Item: ItemID(c.Item),
		}] = c.LastTransferTick
	}

	e.reservations = map[reservationKey]int{}
	for _, r := range snap.Reservations {
		if r.Count <= 0 {
			continue
		}
		e.reservations[reservationKey{Dst: PlatformID(r.Dest), Item: ItemID(r.Item)}] = r.Count
	}

	e.pods = nil
	for _, p := range snap.Pods {
		if p.Count <= 0 {
			continue
		}
		e.pods = append(e.pods, &Pod{
			Source:  PlatformID(p.Source),
			Dest:    PlatformID(p.Dest),
			Item:    ItemID(p.Item),
			Count:   p.Count,
			ETA:     p.ETA,
			Created: p.Created,
		})
	}
}
