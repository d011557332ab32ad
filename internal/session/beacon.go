package session

import "github.com/sater-ops/df-agent/pkg/geodesy"

// BeaconMode distinguishes an operator-placed beacon position from one
// tracking the solver output.
type BeaconMode string

const (
	// BeaconManual means the operator set the position explicitly; it
	// survives recomputation until replaced.
	BeaconManual BeaconMode = "manual"

	// BeaconComputed means the position tracks the latest solver fix.
	BeaconComputed BeaconMode = "computed"
)

// Beacon is the authoritative believed transmitter location. Exactly one
// mode is active at a time; Placed reports whether a position has been
// established at all.
type Beacon struct {
	Mode     BeaconMode    `json:"mode"`
	Position geodesy.Point `json:"position"`
	Placed   bool          `json:"placed"`
}
