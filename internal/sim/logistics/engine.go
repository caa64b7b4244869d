package logistics

import (
	"log"

	"skyharbor.ai/internal/protocol"
)

// Directory resolves platforms by id and enumerates them across all owning
// collectives. Implemented by the host simulation.
type Directory interface {
	Platform(id PlatformID) (PlatformState, bool)
	Platforms() []PlatformState
}

// Inventory is the cargo access capability for a platform's storage
// endpoints. Remove and Insert return the count actually moved.
type Inventory interface {
	ItemCount(ep EndpointID, item ItemID) int
	FreeCapacity(ep EndpointID, item ItemID) int
	Remove(ep EndpointID, item ItemID, count int) int
	Insert(ep EndpointID, item ItemID, count int) int
}

// PolicyProvider is an optional external transfer-legality oracle. Its
// presence is checked at call time; the host may set or clear it between
// cycles.
type PolicyProvider interface {
	ValidateTransfer(src, dst PlatformState) (bool, string)
}

// Effects receives best-effort delivery notifications. Errors are logged
// and discarded, never propagated.
type Effects interface {
	NotifyDelivery(dst PlatformState, item ItemID, count int, tick uint64) error
}

// AuditLogger receives transfer audit entries (index backend).
type AuditLogger interface {
	WriteAudit(AuditEntry) error
}

// Engine is the matching/scheduling core. All mutation happens inside one
// of ProcessCycle, ResolveArrivals, or Sweep, each run to completion on the
// caller's goroutine; there is no internal locking.
type Engine struct {
	cfg     Config
	dir     Directory
	inv     Inventory
	policy  PolicyProvider
	effects Effects
	audit   AuditLogger
	log     *log.Logger

	requests      map[PlatformID]map[ItemID]*Request
	cooldowns     map[cooldownKey]uint64
	reservations  map[reservationKey]int
	pods          []*Pod
	lastCycleTick uint64

	eventsThisTick []protocol.Event
}

func New(cfg Config, dir Directory, inv Inventory, logger *log.Logger) *Engine {
	cfg.applyDefaults()
	return &Engine{
		cfg:          cfg,
		dir:          dir,
		inv:          inv,
		log:          logger,
		requests:     map[PlatformID]map[ItemID]*Request{},
		cooldowns:    map[cooldownKey]uint64{},
		reservations: map[reservationKey]int{},
	}
}

func (e *Engine) Config() Config { return e.cfg }

// SetPolicyProvider installs or clears (nil) the external legality oracle.
func (e *Engine) SetPolicyProvider(p PolicyProvider) { e.policy = p }

// SetEffects installs or clears (nil) the delivery side-effect hook.
func (e *Engine) SetEffects(fx Effects) { e.effects = fx }

// SetAuditLogger installs or clears (nil) the audit index backend.
func (e *Engine) SetAuditLogger(a AuditLogger) { e.audit = a }

// LastCycleTick is the tick of the most recent ProcessCycle call.
func (e *Engine) LastCycleTick() uint64 { return e.lastCycleTick }

// PendingPods returns a copy of the in-flight transfer list, oldest first.
func (e *Engine) PendingPods() []Pod {
	out := make([]Pod, 0, len(e.pods))
	for _, p := range e.pods {
		out = append(out, *p)
	}
	return out
}

// DrainEvents hands the events accumulated since the last drain to the
// caller (observer broadcast) and resets the buffer.
func (e *Engine) DrainEvents() []protocol.Event {
	evs := e.eventsThisTick
	e.eventsThisTick = nil
	return evs
}
