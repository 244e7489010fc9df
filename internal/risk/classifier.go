package risk

import (
	"regexp"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// Signature pairs a compiled pattern with the warning it produces.
// Keeping the tables as data lets new signatures be added and tested
// without touching the dispatch logic.
type Signature struct {
	Pattern *regexp.Regexp
	Warning string
}

// dangerousSignatures match commands that are never acceptable without
// sandbox-level review. A match short-circuits classification to dangerous.
var dangerousSignatures = []Signature{
	{regexp.MustCompile(`(?i)rm\s+(-[a-z]*r[a-z]*f|-[a-z]*f[a-z]*r)\s+/(\s|$)`), "recursive delete of the root filesystem"},
	{regexp.MustCompile(`(?i)remove-item\s+.*-recurse.*\s+[a-z]:\\+\s*$`), "recursive delete of a drive root"},
	{regexp.MustCompile(`(?i)remove-item\s+.*-recurse.*c:\\+windows`), "recursive delete of the Windows directory"},
	{regexp.MustCompile(`(?i)^format(-volume)?\s`), "formats a storage volume"},
	{regexp.MustCompile(`(?i)mkfs(\.[a-z0-9]+)?\s`), "creates a filesystem over existing data"},
	{regexp.MustCompile(`(?i)dd\s+.*of=/dev/(sd|hd|nvme|disk)`), "writes raw data over a block device"},
	{regexp.MustCompile(`(?i)bcdedit\s+/delete`), "deletes boot configuration"},
	{regexp.MustCompile(`(?i)del\s+/[fqs].*c:\\+windows`), "deletes Windows system files"},
	{regexp.MustCompile(`(?i)rd\s+/s\s+/q\s+[a-z]:\\+\s*$`), "removes a drive root directory"},
	{regexp.MustCompile(`(?i)cipher\s+/w`), "wipes free disk space"},
	{regexp.MustCompile(`:\(\)\s*\{\s*:\|:&\s*\}\s*;?\s*:`), "fork bomb"},
}

// safeLeadingTokens is the fixed allowlist of read-only operations. A command
// whose leading token matches exactly is safe with zero warnings.
var safeLeadingTokens = map[string]struct{}{
	// PowerShell read-only cmdlets
	"get-location":     {},
	"get-childitem":    {},
	"get-content":      {},
	"get-process":      {},
	"get-service":      {},
	"get-computerinfo": {},
	"get-date":         {},
	"get-help":         {},
	"get-item":         {},
	"get-itemproperty": {},
	"get-appxpackage":  {},
	"get-wmiobject":    {},
	"select-object":    {},
	"where-object":     {},
	"format-table":     {},
	"format-list":      {},
	"measure-object":   {},
	"sort-object":      {},
	"test-path":        {},
	// Shared / POSIX read-only commands
	"systeminfo": {},
	"ipconfig":   {},
	"ifconfig":   {},
	"netstat":    {},
	"tasklist":   {},
	"ls":         {},
	"dir":        {},
	"pwd":        {},
	"cat":        {},
	"ps":         {},
	"whoami":     {},
	"hostname":   {},
	"uptime":     {},
	"df":         {},
	"du":         {},
	"uname":      {},
	"date":       {},
	"which":      {},
	"printenv":   {},
}

// adminKeywords flag commands that typically need elevated privileges.
var adminKeywords = []string{
	"start-service", "stop-service", "restart-service", "set-service",
	"systemctl start", "systemctl stop", "systemctl restart", "systemctl disable",
	"reg add", "reg delete", "new-itemproperty", "remove-itemproperty",
	"sc start", "sc stop", "sc config",
	"net start", "net stop",
}

// destructiveKeywords flag commands that remove or overwrite data.
var destructiveKeywords = []string{
	"remove-item", "remove-", "rm ", "rmdir", "del ", "rd ",
	"clear-", "format", "erase", "truncate", "unlink", "shred",
}

// Classifier pattern-matches commands against the signature tables.
// The zero value is not usable; call NewClassifier.
type Classifier struct {
	dangerous   []Signature
	safeTokens  map[string]struct{}
	admin       []string
	destructive []string
}

// NewClassifier returns a classifier with the built-in signature tables.
func NewClassifier() *Classifier {
	return &Classifier{
		dangerous:   dangerousSignatures,
		safeTokens:  safeLeadingTokens,
		admin:       adminKeywords,
		destructive: destructiveKeywords,
	}
}

// Classify assigns a risk tier to the command.
//
// Order: dangerous signatures first (terminal), then the safe allowlist,
// then independent admin/destructive keyword checks whose warnings
// accumulate under a single caution tier. Ties resolve toward the more
// cautious tier; escalation to blocked is the sandbox policy's job.
func (c *Classifier) Classify(command string) Verdict {
	trimmed := strings.TrimSpace(command)
	lower := strings.ToLower(trimmed)

	if trimmed == "" {
		return Verdict{Tier: TierCaution, Warnings: []string{"empty command"}}
	}

	for _, sig := range c.dangerous {
		if sig.Pattern.MatchString(lower) {
			return Verdict{
				Tier:                      TierDangerous,
				Warnings:                  []string{"blocked pattern: " + sig.Warning},
				RequiresExtraConfirmation: true,
			}
		}
	}

	if _, ok := c.safeTokens[leadingToken(lower)]; ok {
		return Verdict{Tier: TierSafe}
	}

	var warnings []string
	for _, kw := range c.admin {
		if strings.Contains(lower, kw) {
			warnings = append(warnings, "may require administrator privileges: "+kw)
			break
		}
	}
	for _, kw := range c.destructive {
		if strings.Contains(lower, kw) {
			warnings = append(warnings, "destructive operation: "+strings.TrimSpace(kw))
			break
		}
	}
	warnings = append(warnings, syntaxWarnings(trimmed)...)

	if len(warnings) > 0 {
		return Verdict{Tier: TierCaution, Warnings: warnings}
	}
	return Verdict{Tier: TierSafe}
}

// leadingToken extracts the first shell token of a command, lowercased.
func leadingToken(cmd string) string {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	tokens, err := parser.Parse(cmd)
	if err != nil || len(tokens) == 0 {
		fields := strings.Fields(cmd)
		if len(fields) == 0 {
			return ""
		}
		return strings.ToLower(fields[0])
	}
	return strings.ToLower(tokens[0])
}
