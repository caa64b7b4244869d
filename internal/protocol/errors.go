package protocol

const (
	// Request validation.
	ErrBadRequest = "E_BAD_REQUEST"

	// Transfer gating.
	ErrInvalidPlatform = "E_INVALID_PLATFORM"
	ErrNotGrouped      = "E_NOT_GROUPED"
	ErrNoCapacity      = "E_NO_CAPACITY"
	ErrNoResource      = "E_NO_RESOURCE"
	ErrCooldown        = "E_COOLDOWN"
	ErrPolicyDenied    = "E_POLICY_DENIED"
	ErrDeadlock        = "E_DEADLOCK"
	ErrInternal        = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:      {},
	ErrInvalidPlatform: {},
	ErrNotGrouped:      {},
	ErrNoCapacity:      {},
	ErrNoResource:      {},
	ErrCooldown:        {},
	ErrPolicyDenied:    {},
	ErrDeadlock:        {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
