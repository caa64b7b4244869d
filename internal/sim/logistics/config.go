package logistics

// Config carries the engine's tick-denominated tuning. Zero values are
// replaced by defaults in New.
type Config struct {
	TickRateHz int

	// Scheduling intervals, driven by the caller's clock.
	CycleEveryTicks int
	SweepEveryTicks int

	// Transfer lifecycle.
	TransitTicks         int
	MaxTransfersPerCycle int

	// Rate limiting.
	CooldownTicks          int
	CooldownRetentionTicks int

	// Stale pods are evicted this long after creation — well past any
	// plausible transit time.
	PodStaleTicks int

	SnapshotEveryTicks int
}

func (c *Config) applyDefaults() {
	if c.TickRateHz <= 0 {
		c.TickRateHz = 10
	}
	if c.CycleEveryTicks <= 0 {
		c.CycleEveryTicks = 30
	}
	if c.SweepEveryTicks <= 0 {
		c.SweepEveryTicks = 600
	}
	if c.TransitTicks <= 0 {
		c.TransitTicks = 300
	}
	if c.MaxTransfersPerCycle <= 0 {
		c.MaxTransfersPerCycle = 10
	}
	if c.CooldownTicks <= 0 {
		c.CooldownTicks = 120
	}
	if c.CooldownRetentionTicks <= 0 {
		c.CooldownRetentionTicks = 3600
	}
	if c.PodStaleTicks <= 0 {
		c.PodStaleTicks = c.TransitTicks * 10
	}
	if c.SnapshotEveryTicks <= 0 {
		c.SnapshotEveryTicks = 3000
	}
}
