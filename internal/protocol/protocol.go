package protocol

// Version is bumped whenever an event shape changes incompatibly.
const Version = "1.0"

// Event is a loosely-typed engine event pushed to observers and the audit
// index. Keys are stable per event type.
type Event map[string]any

// Event types emitted by the logistics engine.
const (
	EvTransferCommit    = "TRANSFER_COMMIT"
	EvPodDelivered      = "POD_DELIVERED"
	EvPodExpired        = "POD_EXPIRED"
	EvRequestRegistered = "REQUEST_REGISTERED"
	EvRequestRemoved    = "REQUEST_REMOVED"
)
