package logistics

// availableToSend totals the source's stock of an item across its cargo
// bays. A total below the request minimum counts as zero: partial dribbles
// are never shipped.
func (e *Engine) availableToSend(src PlatformState, item ItemID, minimum int) int {
	total := 0
	for _, ep := range src.Endpoints {
		total += e.inv.ItemCount(ep, item)
	}
	if total < minimum {
		return 0
	}
	return total
}

// availableToReceive is the destination's free space for an item net of
// reservations already in flight, clamped at zero.
func (e *Engine) availableToReceive(dst PlatformState, item ItemID) int {
	space := 0
	for _, ep := range dst.Endpoints {
		space += e.inv.FreeCapacity(ep, item)
	}
	space -= e.reservations[reservationKey{Dst: dst.ID, Item: item}]
	if space < 0 {
		space = 0
	}
	return space
}
