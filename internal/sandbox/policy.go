package sandbox

import (
	"regexp"
	"strings"
)

// dangerousPatterns is the sandbox's own signature list, tuned for
// system-path destruction. It is a stricter superset of the classifier's
// dangerous signatures.
var dangerousPatterns = []struct {
	Pattern *regexp.Regexp
	Label   string
}{
	{regexp.MustCompile(`(?i)format\s+[a-z]:`), "format drive"},
	{regexp.MustCompile(`(?i)cipher\s+/w`), "wipe free space"},
	{regexp.MustCompile(`(?i)takeown\s+/f.*\\windows`), "take ownership of Windows files"},
	{regexp.MustCompile(`(?i)icacls.*\\windows.*/grant`), "modify Windows permissions"},
	{regexp.MustCompile(`(?i)reg\s+delete.*\\windows`), "delete Windows registry keys"},
	{regexp.MustCompile(`(?i)remove-item.*-recurse.*c:\\+windows`), "delete Windows directory"},
	{regexp.MustCompile(`(?i)remove-item\s+.*-recurse.*\s[a-z]:\\*\s*$`), "recursive delete of a drive root"},
	{regexp.MustCompile(`(?i)rm\s+-rf\s+/(\s|$)`), "recursive delete of root"},
	{regexp.MustCompile(`(?i)rm\s+-rf\s+/(etc|boot|usr|bin|sbin|var)(/|\s|$)`), "recursive delete of a system directory"},
	{regexp.MustCompile(`(?i)del\s+/[fqs]\s+c:\\+windows`), "delete Windows via cmd"},
	{regexp.MustCompile(`(?i)rd\s+/s\s+/q.*c:\\+windows`), "remove Windows directory"},
	{regexp.MustCompile(`(?i)mkfs(\.[a-z0-9]+)?\s`), "create filesystem over data"},
	{regexp.MustCompile(`(?i)dd\s+.*of=/dev/`), "raw write to device"},
}

// protectedPaths are system locations that must never be targets of a
// destructive verb.
var protectedPaths = []string{
	`c:\windows\system32`,
	`c:\windows\syswow64`,
	`c:\windows\winsxs`,
	`c:\program files\windowsapps`,
	`c:\windows\boot`,
	"/etc",
	"/boot",
	"/usr/bin",
	"/usr/sbin",
	"/bin",
	"/sbin",
	"/var/lib",
}

// destructiveVerbs mark a command as modifying rather than reading.
var destructiveVerbs = []string{
	"remove", "delete", "del ", "rd ", "rm ", "rmdir", "unlink",
	"format", "erase", "truncate", "move ", "mv ",
}

// safePrefixes is the built-in prefix allowlist mirroring the classifier's
// read-only command set.
var safePrefixes = []string{
	"get-", "select-object", "where-object", "format-table", "format-list",
	"measure-object", "sort-object", "test-path",
	"systeminfo", "ipconfig", "netstat", "tasklist",
	"ls", "dir", "pwd", "cat", "ps", "whoami", "hostname", "df", "du",
	"uname", "date", "which", "printenv", "echo",
}

// highRiskCommands are allowed but demand an extra confirmation round.
var highRiskCommands = []string{
	"format-volume",
	"clear-disk",
	"initialize-disk",
	"remove-partition",
	"disable-windowsupdate",
	"set-executionpolicy unrestricted",
	"set-executionpolicy bypass",
	"fdisk",
	"parted",
	"diskpart",
}

// Policy validates commands against the sandbox rules. User lists come
// from an optional ListStore; the built-in tables are fixed.
type Policy struct {
	lists *ListStore
}

// NewPolicy creates a sandbox policy. lists may be nil, in which case only
// the built-in tables apply.
func NewPolicy(lists *ListStore) *Policy {
	return &Policy{lists: lists}
}

// Validate runs the sandbox decision chain. First match wins:
//
//  1. dangerous pattern            -> deny, CRITICAL
//  2. protected path + destructive -> deny, CRITICAL
//  3. user denylist                -> deny, HIGH
//  4. user allowlist / safe prefix -> allow, LOW
//  5. built-in high-risk set       -> allow, HIGH, extra confirmation
//  6. default                      -> allow, MEDIUM
func (p *Policy) Validate(command string) Verdict {
	lower := strings.ToLower(strings.TrimSpace(command))

	for _, entry := range dangerousPatterns {
		if entry.Pattern.MatchString(lower) {
			return Verdict{
				Allowed:        false,
				Reason:         "Matches dangerous pattern - this command could cause severe system damage",
				RiskLevel:      LevelCritical,
				Matched:        entry.Label,
				Recommendation: "Command blocked for safety. Please verify your intent.",
			}
		}
	}

	for _, path := range protectedPaths {
		if strings.Contains(lower, path) && containsDestructiveVerb(lower) {
			return Verdict{
				Allowed:        false,
				Reason:         "Targets protected system path with destructive operation",
				RiskLevel:      LevelCritical,
				Matched:        path,
				Recommendation: "Do not modify critical system directories",
			}
		}
	}

	var lists UserLists
	if p.lists != nil {
		lists = p.lists.Snapshot()
	}

	for _, denied := range lists.Denylist {
		if denied != "" && strings.Contains(lower, strings.ToLower(denied)) {
			return Verdict{
				Allowed:   false,
				Reason:    "Command in user denylist",
				RiskLevel: LevelHigh,
				Matched:   denied,
			}
		}
	}

	for _, allowed := range lists.Allowlist {
		if allowed != "" && strings.Contains(lower, strings.ToLower(allowed)) {
			return Verdict{
				Allowed:   true,
				Reason:    "Command in user allowlist",
				RiskLevel: LevelLow,
				Matched:   allowed,
			}
		}
	}

	for _, prefix := range safePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return Verdict{
				Allowed:   true,
				Reason:    "Safe read-only command",
				RiskLevel: LevelLow,
				Matched:   prefix,
			}
		}
	}

	for _, highRisk := range highRiskCommands {
		if strings.Contains(lower, highRisk) {
			return Verdict{
				Allowed:                   true,
				Reason:                    "High-risk command requires explicit approval",
				RiskLevel:                 LevelHigh,
				RequiresExtraConfirmation: true,
				Matched:                   highRisk,
			}
		}
	}

	return Verdict{
		Allowed:        true,
		Reason:         "Command passed safety checks but is not in safe list",
		RiskLevel:      LevelMedium,
		Recommendation: "Review command carefully before executing",
	}
}

func containsDestructiveVerb(lower string) bool {
	for _, verb := range destructiveVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return false
}
