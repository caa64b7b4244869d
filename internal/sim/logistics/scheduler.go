package logistics

import "sort"

// ProcessCycle runs one matching pass over all standing requests. Gate
// order per candidate source: cooldown, policy, deadlock, source stock,
// destination space. At most cfg.MaxTransfersPerCycle commits happen per
// invocation regardless of platform or request count; whatever is left
// over waits for the next cycle without penalty. A request is satisfied at
// most once per cycle, from at most one source.
func (e *Engine) ProcessCycle(now uint64) {
	e.lastCycleTick = now
	budget := e.cfg.MaxTransfersPerCycle

	destIDs := make([]PlatformID, 0, len(e.requests))
	for id := range e.requests {
		destIDs = append(destIDs, id)
	}
	sort.Slice(destIDs, func(i, j int) bool { return destIDs[i] < destIDs[j] })

	var stale []PlatformID
	for _, dstID := range destIDs {
		if budget <= 0 {
			break
		}
		dst, ok := e.dir.Platform(dstID)
		if !ok || !dst.Valid {
			stale = append(stale, dstID)
			continue
		}
		if dst.Group == "" {
			// In transit; requests carry over untouched.
			continue
		}
		peers := e.peersInGroup(dst)
		if len(peers) == 0 {
			continue
		}

		items := make([]ItemID, 0, len(e.requests[dstID]))
		for item := range e.requests[dstID] {
			items = append(items, item)
		}
		sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

		for _, item := range items {
			if budget <= 0 {
				break
			}
			req := e.requests[dstID][item]
			for _, src := range peers {
				if e.isCoolingDown(dstID, src.ID, item, now) {
					continue
				}
				if ok, _ := e.transferAllowed(src, dst); !ok {
					continue
				}
				if e.wouldDeadlock(src, dst) {
					continue
				}
				avail := e.availableToSend(src, item, req.Minimum)
				if avail <= 0 {
					continue
				}
				space := e.availableToReceive(dst, item)
				amount := min(avail, req.Requested, space)
				if amount < req.Minimum {
					// Destination too full for a viable batch from this
					// source; try the next peer.
					continue
				}
				if e.commitTransfer(src, dst, item, amount, now) {
					req.LastProcessed = now
					budget--
				}
				break
			}
		}
	}

	for _, id := range stale {
		e.dropPlatform(id, now)
	}
}

// dropPlatform clears registry entries owned by a platform that turned
// invalid mid-cycle. Not an error; the sweeper would catch it later anyway.
func (e *Engine) dropPlatform(id PlatformID, now uint64) {
	if _, ok := e.requests[id]; !ok {
		return
	}
	delete(e.requests, id)
	if e.log != nil {
		e.log.Printf("tick %d: dropped requests for invalid platform %s", now, id)
	}
}
