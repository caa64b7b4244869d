package fleet

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"skyharbor.ai/internal/sim/logistics"
)

// Scenario describes a fleet and its standing requests, plus engine tuning.
// Loaded from YAML by the server binary.
type Scenario struct {
	Engine EngineTuning `yaml:"engine"`

	DefaultStackSize int            `yaml:"default_stack_size"`
	StackSizes       map[string]int `yaml:"stack_sizes,omitempty"`

	Platforms []PlatformSpec `yaml:"platforms"`
}

type EngineTuning struct {
	TickRateHz             int `yaml:"tick_rate_hz"`
	CycleEveryTicks        int `yaml:"cycle_every_ticks"`
	SweepEveryTicks        int `yaml:"sweep_every_ticks"`
	TransitTicks           int `yaml:"transit_ticks"`
	MaxTransfersPerCycle   int `yaml:"max_transfers_per_cycle"`
	CooldownTicks          int `yaml:"cooldown_ticks"`
	CooldownRetentionTicks int `yaml:"cooldown_retention_ticks"`
	PodStaleTicks          int `yaml:"pod_stale_ticks"`
	SnapshotEveryTicks     int `yaml:"snapshot_every_ticks"`
}

type PlatformSpec struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Collective string         `yaml:"collective"`
	Tag        string         `yaml:"tag,omitempty"`
	Group      string         `yaml:"group,omitempty"`
	Bays       []BaySpec      `yaml:"bays"`
	Stock      map[string]int `yaml:"stock,omitempty"`
	Requests   []RequestSpec  `yaml:"requests,omitempty"`
}

type BaySpec struct {
	ID    string `yaml:"id"`
	Slots int    `yaml:"slots"`
}

type RequestSpec struct {
	Item      string `yaml:"item"`
	Minimum   int    `yaml:"minimum"`
	Requested int    `yaml:"requested"`
}

func Load(path string) (Scenario, error) {
	var s Scenario
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("scenario: %w", err)
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("scenario: %w", err)
	}
	return s, nil
}

func (s *Scenario) Normalize() {
	if s == nil {
		return
	}
	if s.DefaultStackSize <= 0 {
		s.DefaultStackSize = 100
	}
	for i := range s.Platforms {
		if strings.TrimSpace(s.Platforms[i].Collective) == "" {
			s.Platforms[i].Collective = "player"
		}
		if strings.TrimSpace(s.Platforms[i].Name) == "" {
			s.Platforms[i].Name = s.Platforms[i].ID
		}
	}
}

func (s Scenario) Validate() error {
	if len(s.Platforms) == 0 {
		return fmt.Errorf("platforms must not be empty")
	}
	seen := map[string]bool{}
	for _, p := range s.Platforms {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("platform id must not be empty")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate platform id: %s", p.ID)
		}
		seen[p.ID] = true
		if len(p.Bays) == 0 {
			return fmt.Errorf("platform %s must define at least one bay", p.ID)
		}
		bays := map[string]bool{}
		for _, b := range p.Bays {
			if strings.TrimSpace(b.ID) == "" {
				return fmt.Errorf("platform %s has empty bay id", p.ID)
			}
			if bays[b.ID] {
				return fmt.Errorf("platform %s duplicate bay id: %s", p.ID, b.ID)
			}
			bays[b.ID] = true
			if b.Slots <= 0 {
				return fmt.Errorf("platform %s bay %s slots must be > 0", p.ID, b.ID)
			}
		}
		for _, r := range p.Requests {
			if strings.TrimSpace(r.Item) == "" {
				return fmt.Errorf("platform %s request item must not be empty", p.ID)
			}
			if r.Minimum < 1 {
				return fmt.Errorf("platform %s request %s minimum must be >= 1", p.ID, r.Item)
			}
			if r.Requested < r.Minimum {
				return fmt.Errorf("platform %s request %s requested must be >= minimum", p.ID, r.Item)
			}
		}
	}
	for item, n := range s.StackSizes {
		if n <= 0 {
			return fmt.Errorf("stack size for %s must be > 0", item)
		}
	}
	return nil
}

// EngineConfig maps the tuning block onto the engine config.
func (s Scenario) EngineConfig() logistics.Config {
	t := s.Engine
	return logistics.Config{
		TickRateHz:             t.TickRateHz,
		CycleEveryTicks:        t.CycleEveryTicks,
		SweepEveryTicks:        t.SweepEveryTicks,
		TransitTicks:           t.TransitTicks,
		MaxTransfersPerCycle:   t.MaxTransfersPerCycle,
		CooldownTicks:          t.CooldownTicks,
		CooldownRetentionTicks: t.CooldownRetentionTicks,
		PodStaleTicks:          t.PodStaleTicks,
		SnapshotEveryTicks:     t.SnapshotEveryTicks,
	}
}

// Build instantiates the fleet and stocks it.
func (s Scenario) Build() (*Fleet, error) {
	cat := Catalog{DefaultStackSize: s.DefaultStackSize, StackSizes: map[logistics.ItemID]int{}}
	for item, n := range s.StackSizes {
		cat.StackSizes[logistics.ItemID(item)] = n
	}
	f := New(cat)
	for _, ps := range s.Platforms {
		baySlots := map[string]int{}
		for _, b := range ps.Bays {
			baySlots[b.ID] = b.Slots
		}
		p, err := f.AddPlatform(logistics.PlatformID(ps.ID), ps.Name, ps.Collective, ps.Tag, logistics.GroupKey(ps.Group), baySlots)
		if err != nil {
			return nil, err
		}
		// Stock fills the first bay and spills into the rest.
		for item, count := range ps.Stock {
			remaining := count
			for _, b := range p.Bays {
				if remaining <= 0 {
					break
				}
				remaining -= f.Insert(b.ID, logistics.ItemID(item), remaining)
			}
			if remaining > 0 {
				return nil, fmt.Errorf("platform %s: %d %s does not fit its bays", ps.ID, remaining, item)
			}
		}
	}
	return f, nil
}

// RegisterAll installs the scenario's standing requests into the engine.
func (s Scenario) RegisterAll(e *logistics.Engine) error {
	for _, ps := range s.Platforms {
		for _, r := range ps.Requests {
			if !e.RegisterRequest(logistics.PlatformID(ps.ID), logistics.ItemID(r.Item), r.Minimum, r.Requested) {
				return fmt.Errorf("register %s/%s rejected", ps.ID, r.Item)
			}
		}
	}
	return nil
}
