// Package sandbox implements the allow/deny gate layered on top of the
// risk classifier. A CRITICAL verdict is a hard stop that no later
// pipeline stage may override.
package sandbox

// Level is the sandbox's severity scale, distinct from the classifier's
// risk tiers.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Verdict is the sandbox's decision for one command.
type Verdict struct {
	// Allowed reports whether the command may continue through the pipeline.
	Allowed bool `json:"allowed"`
	// Reason explains the decision in one sentence.
	Reason string `json:"reason"`
	// RiskLevel is the sandbox severity assigned to the command.
	RiskLevel Level `json:"risk_level"`
	// RequiresExtraConfirmation marks allowed-but-high-risk commands that
	// need a second explicit approval.
	RequiresExtraConfirmation bool `json:"requires_extra_confirmation"`
	// Matched is the pattern, path, or list entry that decided the verdict.
	Matched string `json:"matched,omitempty"`
	// Recommendation is optional guidance surfaced to the user.
	Recommendation string `json:"recommendation,omitempty"`
}

// Explanation returns the human guidance for a severity level.
func (l Level) Explanation() string {
	switch l {
	case LevelLow:
		return "This operation is safe and can proceed"
	case LevelMedium:
		return "This operation may make system changes. Review carefully."
	case LevelHigh:
		return "This operation is risky. Ensure you have backups."
	case LevelCritical:
		return "This operation is extremely dangerous and is blocked for safety."
	default:
		return "Unknown risk level"
	}
}
