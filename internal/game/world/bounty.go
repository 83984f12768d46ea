package world

import "math"

// BountyThresholds are the bounty values at which a player's notoriety
// level rises.
var BountyThresholds = [...]int{1, 20, 40, 60, 80, 100}

// BountyVision is how far enemy ships can spot a player at each notoriety
// level. The top levels are seen from anywhere on the map.
var BountyVision = [...]int{1, 2, 2, 3, math.MaxInt, math.MaxInt}

// VisionForBounty returns the range at which enemy ships spot a player
// carrying bounty. Below the first threshold the player is invisible.
func VisionForBounty(bounty int) int {
	vision := 0
	for i, threshold := range BountyThresholds {
		if bounty >= threshold {
			vision = BountyVision[i]
		}
	}
	return vision
}
