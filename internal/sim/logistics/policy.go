package logistics

import "strings"

const (
	classShip    = "ship"
	classStation = "station"
)

// transferAllowed gates a source/destination pair. An injected policy
// provider wins when present. The fallback rule forbids ship-to-ship
// transfers; unclassifiable platforms pass. Side-effect-free — this runs
// for every candidate pair each cycle.
func (e *Engine) transferAllowed(src, dst PlatformState) (bool, string) {
	if e.policy != nil {
		return e.policy.ValidateTransfer(src, dst)
	}
	if classify(src) == classShip && classify(dst) == classShip {
		return false, "ship-to-ship transfers are not allowed"
	}
	return true, ""
}

// classify prefers the explicit tag and falls back to a naming convention.
func classify(p PlatformState) string {
	switch strings.ToLower(strings.TrimSpace(p.Tag)) {
	case classShip:
		return classShip
	case classStation:
		return classStation
	}
	name := strings.ToLower(p.Name)
	switch {
	case strings.Contains(name, "station"), strings.Contains(name, "depot"):
		return classStation
	case strings.Contains(name, "ship"):
		return classShip
	}
	return ""
}
