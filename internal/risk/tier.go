// Package risk classifies command strings into risk tiers.
package risk

// Tier is the classifier's coarse safety rating of a command.
type Tier string

const (
	TierSafe      Tier = "safe"
	TierCaution   Tier = "caution"
	TierDangerous Tier = "dangerous"
	TierBlocked   Tier = "blocked"
)

// tierRank orders tiers from least to most restrictive.
var tierRank = map[Tier]int{
	TierSafe:      0,
	TierCaution:   1,
	TierDangerous: 2,
	TierBlocked:   3,
}

// Rank returns the tier's position in the total ordering
// safe < caution < dangerous < blocked. Unknown tiers rank as blocked.
func (t Tier) Rank() int {
	if r, ok := tierRank[t]; ok {
		return r
	}
	return tierRank[TierBlocked]
}

// MoreSevere returns the more restrictive of two tiers.
func MoreSevere(a, b Tier) Tier {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

// Verdict is the classifier's output for one command.
type Verdict struct {
	// Tier is the assigned risk tier.
	Tier Tier `json:"tier"`
	// Warnings lists human-readable concerns, in detection order.
	Warnings []string `json:"warnings,omitempty"`
	// RequiresExtraConfirmation marks commands that need a second explicit approval.
	RequiresExtraConfirmation bool `json:"requires_extra_confirmation"`
}

// IsSafe reports whether the command may run without confirmation.
func (v Verdict) IsSafe() bool {
	return v.Tier == TierSafe
}
