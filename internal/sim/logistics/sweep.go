package logistics

import "skyharbor.ai/internal/protocol"

// Sweep purges stale registry state. Runs on a coarse interval, far apart
// from ProcessCycle.
func (e *Engine) Sweep(now uint64) {
	// Requests owned by platforms that no longer exist or went invalid.
	for id := range e.requests {
		if p, ok := e.dir.Platform(id); !ok || !p.Valid {
			delete(e.requests, id)
		}
	}

	// Reservations toward gone destinations, and shortfall residue left by
	// partial deliveries: each reservation is clamped to the quantity still
	// in flight so a shrunken destination regains its capacity. Runs before
	// pod eviction, so an evicted pod's reservation drains on the next pass.
	pending := map[reservationKey]int{}
	for _, pod := range e.pods {
		pending[reservationKey{Dst: pod.Dest, Item: pod.Item}] += pod.Count
	}
	for k, n := range e.reservations {
		if p, ok := e.dir.Platform(k.Dst); !ok || !p.Valid {
			delete(e.reservations, k)
			continue
		}
		if inFlight := pending[k]; n > inFlight {
			if inFlight <= 0 {
				delete(e.reservations, k)
			} else {
				e.reservations[k] = inFlight
			}
		}
	}

	e.sweepCooldowns(now)

	// Pods stuck far beyond nominal transit are dropped without inserting
	// items and without touching their reservation. This bounds growth from
	// permanently-unreachable destinations; the items count as lost (the
	// source deduction happened at commit).
	kept := e.pods[:0]
	for _, pod := range e.pods {
		if now >= pod.Created && now-pod.Created >= uint64(e.cfg.PodStaleTicks) {
			e.auditEvent(AuditEntry{
				Tick:   now,
				Action: protocol.EvPodExpired,
				Source: string(pod.Source),
				Dest:   string(pod.Dest),
				Item:   string(pod.Item),
				Count:  pod.Count,
				Reason: "stale transit",
			})
			e.emit(protocol.Event{
				"t":      now,
				"type":   protocol.EvPodExpired,
				"source": string(pod.Source),
				"dest":   string(pod.Dest),
				"item":   string(pod.Item),
				"count":  pod.Count,
			})
			continue
		}
		kept = append(kept, pod)
	}
	e.pods = kept
}
