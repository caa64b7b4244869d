package logistics

// isCoolingDown reports whether a transfer for this (dest, source, item)
// triple happened within the cooldown window.
func (e *Engine) isCoolingDown(dst, src PlatformID, item ItemID, now uint64) bool {
	last, ok := e.cooldowns[cooldownKey{Dst: dst, Src: src, Item: item}]
	if !ok {
		return false
	}
	if now < last {
		// Future-dated entry (clock rewound by a snapshot restore): still hot.
		return true
	}
	return now-last < uint64(e.cfg.CooldownTicks)
}

func (e *Engine) recordCooldown(dst, src PlatformID, item ItemID, now uint64) {
	e.cooldowns[cooldownKey{Dst: dst, Src: src, Item: item}] = now
}

func (e *Engine) sweepCooldowns(now uint64) int {
	retention := uint64(e.cfg.CooldownRetentionTicks)
	removed := 0
	for k, last := range e.cooldowns {
		if now >= last && now-last >= retention {
			delete(e.cooldowns, k)
			removed++
		}
	}
	return removed
}
