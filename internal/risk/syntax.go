package risk

import "strings"

// syntaxWarnings flags structural problems and risky flag combinations.
// These never change the tier on their own; they feed the warning list.
func syntaxWarnings(command string) []string {
	var warnings []string
	lower := strings.ToLower(command)

	if strings.Count(command, `"`)%2 != 0 {
		warnings = append(warnings, "unbalanced double quotes")
	}
	if strings.Count(command, "'")%2 != 0 {
		warnings = append(warnings, "unbalanced single quotes")
	}
	if strings.Count(command, "(") != strings.Count(command, ")") {
		warnings = append(warnings, "unbalanced parentheses")
	}
	if strings.Count(command, "{") != strings.Count(command, "}") {
		warnings = append(warnings, "unbalanced braces")
	}

	destructive := strings.Contains(lower, "remove") || strings.Contains(lower, "delete") ||
		strings.Contains(lower, "rm ") || strings.Contains(lower, "del ")

	if destructive && strings.Contains(command, "*") {
		warnings = append(warnings, "wildcards combined with a remove operation")
	}
	if strings.Contains(lower, "-force") || strings.Contains(lower, "--force") {
		warnings = append(warnings, "-Force suppresses confirmations")
	}
	if destructive && (strings.Contains(lower, "-recurse") || strings.Contains(lower, "-r ") || strings.Contains(lower, "-rf")) {
		warnings = append(warnings, "recursive deletion can affect many files")
	}

	return warnings
}
