package logistics

import "skyharbor.ai/internal/protocol"

// commitTransfer deducts the source immediately, reserves destination
// space, schedules a cargo pod, and starts the cooldown. The deduction is
// authoritative at commit time — delivery only ever adds items back.
func (e *Engine) commitTransfer(src, dst PlatformState, item ItemID, amount int, now uint64) bool {
	removed := e.removeFromPlatform(src, item, amount)
	if removed <= 0 {
		return false
	}
	e.reservations[reservationKey{Dst: dst.ID, Item: item}] += removed
	e.pods = append(e.pods, &Pod{
		Source:  src.ID,
		Dest:    dst.ID,
		Item:    item,
		Count:   removed,
		ETA:     now + uint64(e.cfg.TransitTicks),
		Created: now,
	})
	e.recordCooldown(dst.ID, src.ID, item, now)
	e.auditEvent(AuditEntry{
		Tick:   now,
		Action: protocol.EvTransferCommit,
		Source: string(src.ID),
		Dest:   string(dst.ID),
		Item:   string(item),
		Count:  removed,
	})
	e.emit(protocol.Event{
		"t":      now,
		"type":   protocol.EvTransferCommit,
		"source": string(src.ID),
		"dest":   string(dst.ID),
		"item":   string(item),
		"count":  removed,
		"eta":    now + uint64(e.cfg.TransitTicks),
	})
	return true
}

// ResolveArrivals delivers every pod whose ETA has passed. Delivery is
// atomic per pod: insert, reservation decrement, and removal happen
// together. A destination that shrank since commit receives what fits; the
// shortfall drops out of tracking (accepted lossy tradeoff — the source
// deduction already happened at commit).
func (e *Engine) ResolveArrivals(now uint64) {
	if len(e.pods) == 0 {
		return
	}
	kept := e.pods[:0]
	for _, pod := range e.pods {
		if pod.ETA > now {
			kept = append(kept, pod)
			continue
		}
		inserted := 0
		if dst, ok := e.dir.Platform(pod.Dest); ok && dst.Valid {
			inserted = e.insertToPlatform(dst, pod.Item, pod.Count)
			e.notifyDelivery(dst, pod.Item, inserted, now)
		}
		e.releaseReservation(pod.Dest, pod.Item, inserted)
		e.auditEvent(AuditEntry{
			Tick:   now,
			Action: protocol.EvPodDelivered,
			Source: string(pod.Source),
			Dest:   string(pod.Dest),
			Item:   string(pod.Item),
			Count:  inserted,
			Details: map[string]any{
				"shipped": pod.Count,
			},
		})
		e.emit(protocol.Event{
			"t":       now,
			"type":    protocol.EvPodDelivered,
			"source":  string(pod.Source),
			"dest":    string(pod.Dest),
			"item":    string(pod.Item),
			"count":   inserted,
			"shipped": pod.Count,
		})
	}
	e.pods = kept
}

func (e *Engine) removeFromPlatform(p PlatformState, item ItemID, amount int) int {
	removed := 0
	for _, ep := range p.Endpoints {
		if removed >= amount {
			break
		}
		removed += e.inv.Remove(ep, item, amount-removed)
	}
	return removed
}

func (e *Engine) insertToPlatform(p PlatformState, item ItemID, amount int) int {
	inserted := 0
	for _, ep := range p.Endpoints {
		if inserted >= amount {
			break
		}
		inserted += e.inv.Insert(ep, item, amount-inserted)
	}
	return inserted
}

func (e *Engine) releaseReservation(dst PlatformID, item ItemID, n int) {
	if n <= 0 {
		return
	}
	k := reservationKey{Dst: dst, Item: item}
	e.reservations[k] -= n
	if e.reservations[k] <= 0 {
		delete(e.reservations, k)
	}
}
