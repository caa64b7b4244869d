package logistics

// Opaque identifiers owned by the host simulation.
type (
	PlatformID string
	ItemID     string
	GroupKey   string
	EndpointID string
)

// PlatformState is a point-in-time view of a platform as reported by the
// host directory. The engine never creates or destroys platforms; it only
// reacts to validity and grouping.
type PlatformState struct {
	ID         PlatformID
	Name       string
	Collective string
	Tag        string // optional explicit classification ("ship", "station")
	Valid      bool
	Group      GroupKey // empty while in transit / ungrouped
	Endpoints  []EndpointID
}

// Request is a standing demand for an item: ship at least Minimum and up to
// Requested per transfer. Keyed by (platform, item); one per item.
type Request struct {
	Item          ItemID
	Minimum       int
	Requested     int
	LastProcessed uint64
}

// Pod is a committed, in-flight transfer. Pods live in creation order until
// delivery or stale-sweep eviction.
type Pod struct {
	Source  PlatformID
	Dest    PlatformID
	Item    ItemID
	Count   int
	ETA     uint64
	Created uint64
}

type cooldownKey struct {
	Dst  PlatformID
	Src  PlatformID
	Item ItemID
}

type reservationKey struct {
	Dst  PlatformID
	Item ItemID
}

// AuditEntry records an engine-side transfer event for the index backend.
type AuditEntry struct {
	Tick    uint64         `json:"tick"`
	Action  string         `json:"action"`
	Source  string         `json:"source,omitempty"`
	Dest    string         `json:"dest,omitempty"`
	Item    string         `json:"item,omitempty"`
	Count   int            `json:"count,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
