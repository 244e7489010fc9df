// Package failure turns raw command errors into actionable diagnoses
// with recovery steps.
package failure

import (
	"regexp"
	"strings"
)

// Category names a class of command failure.
type Category string

const (
	CategoryPermissionDenied  Category = "permission-denied"
	CategoryNotFound          Category = "not-found"
	CategoryLockedFile        Category = "locked-file"
	CategoryNetwork           Category = "network"
	CategoryTimeout           Category = "timeout"
	CategoryDiskSpace         Category = "disk-space"
	CategorySyntax            Category = "syntax"
	CategoryDependencyMissing Category = "dependency-missing"
	CategoryServiceError      Category = "service-error"
	CategoryRegistryError     Category = "registry-error"
	CategoryAlreadyExists     Category = "already-exists"
	CategoryUnknown           Category = "unknown"
)

// Severity grades how serious a failure is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Diagnosis is the classified result for one failure.
type Diagnosis struct {
	Category    Category `json:"category"`
	Summary     string   `json:"summary"`
	Severity    Severity `json:"severity"`
	Recoverable bool     `json:"recoverable"`
	Steps       []string `json:"steps,omitempty"`
	Prevention  string   `json:"prevention,omitempty"`
}

// bundle is the static diagnosis attached to a category.
type bundle struct {
	Summary     string
	Severity    Severity
	Recoverable bool
	Steps       []string
	Prevention  string
}

var bundles = map[Category]bundle{
	CategoryPermissionDenied: {
		Summary:     "The command was refused because the current user lacks the required permissions",
		Severity:    SeverityMedium,
		Recoverable: true,
		Steps: []string{
			"Re-run the command from an elevated shell",
			"Check ownership and ACLs of the target path",
		},
		Prevention: "Check privilege requirements before running system-level commands",
	},
	CategoryNotFound: {
		Summary:     "A file, directory, or command named in the operation does not exist",
		Severity:    SeverityLow,
		Recoverable: true,
		Steps: []string{
			"Verify the path or command name for typos",
			"List the parent directory to confirm what exists",
		},
		Prevention: "Validate paths before acting on them",
	},
	CategoryLockedFile: {
		Summary:     "The target is locked by another process",
		Severity:    SeverityMedium,
		Recoverable: true,
		Steps: []string{
			"Find the locking process (handle.exe, lsof) and close it",
			"Retry after the other process releases the file",
		},
		Prevention: "Close applications that use the file before modifying it",
	},
	CategoryNetwork: {
		Summary:     "A network operation failed to reach its destination",
		Severity:    SeverityMedium,
		Recoverable: true,
		Steps: []string{
			"Check connectivity (ping, Test-NetConnection)",
			"Verify proxy and DNS settings",
			"Retry after a short wait",
		},
		Prevention: "Confirm network availability before remote operations",
	},
	CategoryTimeout: {
		Summary:     "The command did not finish within the allowed time",
		Severity:    SeverityMedium,
		Recoverable: true,
		Steps: []string{
			"Re-run with a longer timeout",
			"Check whether the command is waiting on input or a lock",
		},
		Prevention: "Raise the executor timeout for known long-running commands",
	},
	CategoryDiskSpace: {
		Summary:     "The operation failed because the disk is full",
		Severity:    SeverityHigh,
		Recoverable: true,
		Steps: []string{
			"Free space on the target volume",
			"Redirect output to a volume with room",
		},
		Prevention: "Check free space before large writes",
	},
	CategorySyntax: {
		Summary:     "The shell rejected the command as malformed",
		Severity:    SeverityLow,
		Recoverable: true,
		Steps: []string{
			"Check quoting and parameter names",
			"Consult the command's help output",
		},
		Prevention: "Validate command syntax before execution",
	},
	CategoryDependencyMissing: {
		Summary:     "A required tool, module, or package is not installed",
		Severity:    SeverityMedium,
		Recoverable: true,
		Steps: []string{
			"Install the missing dependency",
			"Confirm it is on PATH after installation",
		},
		Prevention: "Check for required tools before composing commands",
	},
	CategoryServiceError: {
		Summary:     "A service operation failed or the service is in a bad state",
		Severity:    SeverityMedium,
		Recoverable: true,
		Steps: []string{
			"Check the service status and its event log entries",
			"Restart the service's dependencies first",
		},
		Prevention: "Query service state before issuing control commands",
	},
	CategoryRegistryError: {
		Summary:     "A registry operation failed",
		Severity:    SeverityHigh,
		Recoverable: true,
		Steps: []string{
			"Verify the key path and value name",
			"Export the key before retrying the change",
		},
		Prevention: "Back up registry keys before modifying them",
	},
	CategoryAlreadyExists: {
		Summary:     "The target already exists",
		Severity:    SeverityLow,
		Recoverable: true,
		Steps: []string{
			"Use a different name or remove the existing target first",
			"Add a force/overwrite flag if clobbering is intended",
		},
		Prevention: "Check for existing targets before creating",
	},
	CategoryUnknown: {
		Summary:     "The failure does not match any known pattern",
		Severity:    SeverityMedium,
		Recoverable: false,
		Steps: []string{
			"Read the full error output",
			"Search for the exact error message",
		},
	},
}

// patterns map error text to categories. Checked in order; first match
// wins, so more specific patterns come before generic ones.
var patterns = []struct {
	Pattern  *regexp.Regexp
	Category Category
}{
	{regexp.MustCompile(`(?i)(access is denied|permission denied|unauthorizedaccess|operation not permitted|requires elevation|administrator)`), CategoryPermissionDenied},
	{regexp.MustCompile(`(?i)(being used by another process|file is locked|resource busy|sharing violation)`), CategoryLockedFile},
	{regexp.MustCompile(`(?i)(timed out|timeout|operation has timed out)`), CategoryTimeout},
	{regexp.MustCompile(`(?i)(no space left|disk full|not enough space|insufficient disk)`), CategoryDiskSpace},
	{regexp.MustCompile(`(?i)(could not resolve|connection refused|network is unreachable|no such host|connection reset|remote name could not be resolved)`), CategoryNetwork},
	{regexp.MustCompile(`(?i)(is not recognized as|command not found|not recognized as the name of a cmdlet)`), CategoryDependencyMissing},
	{regexp.MustCompile(`(?i)(cannot find (the )?(file|path)|no such file or directory|does not exist|file not found|path not found)`), CategoryNotFound},
	{regexp.MustCompile(`(?i)(syntax error|parsererror|unexpected token|missing terminator|invalid argument|parameter.*cannot be found)`), CategorySyntax},
	{regexp.MustCompile(`(?i)(service .* (failed|cannot be started|did not respond)|stopservice|startservice)`), CategoryServiceError},
	{regexp.MustCompile(`(?i)(registry key|reg(istry)? (access|error)|invalid registry)`), CategoryRegistryError},
	{regexp.MustCompile(`(?i)(already exists|duplicate)`), CategoryAlreadyExists},
}

// exitCodeCategories covers common Windows error codes surfaced as exit
// codes when the text gives no signal.
var exitCodeCategories = map[int]Category{
	2:  CategoryNotFound,
	5:  CategoryPermissionDenied,
	32: CategoryLockedFile,
}

// Classify diagnoses a failure from its error text and exit code. Text
// patterns take precedence; the exit code is the fallback.
func Classify(errText string, exitCode int) Diagnosis {
	category := CategoryUnknown

	text := strings.TrimSpace(errText)
	if text != "" {
		for _, p := range patterns {
			if p.Pattern.MatchString(text) {
				category = p.Category
				break
			}
		}
	}
	if category == CategoryUnknown {
		if c, ok := exitCodeCategories[exitCode]; ok {
			category = c
		}
	}

	b := bundles[category]
	return Diagnosis{
		Category:    category,
		Summary:     b.Summary,
		Severity:    b.Severity,
		Recoverable: b.Recoverable,
		Steps:       b.Steps,
		Prevention:  b.Prevention,
	}
}
