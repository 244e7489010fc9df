// Package privilege determines whether a command needs elevated rights
// and whether the current process can satisfy that requirement.
package privilege

import (
	"strings"
)

// Requirement is the elevation need of an operation.
type Requirement string

const (
	// RequirementNone means the operation runs fine unelevated.
	RequirementNone Requirement = "none"
	// RequirementPreferred means the operation works unelevated but may
	// produce partial results.
	RequirementPreferred Requirement = "preferred"
	// RequirementRequired means the operation fails without elevation.
	RequirementRequired Requirement = "required"
)

// OperationType categorizes a command by the kind of system change it makes.
type OperationType string

const (
	OpRegistryWrite     OperationType = "registry-write"
	OpServiceControl    OperationType = "service-control"
	OpSystemRestore     OperationType = "system-restore"
	OpDriverManagement  OperationType = "driver-management"
	OpScheduledTask     OperationType = "scheduled-task-create"
	OpUpdateManagement  OperationType = "update-management"
	OpAppUninstall      OperationType = "app-uninstall"
	OpDiskCleanup       OperationType = "disk-cleanup"
	OpNetworkConfig     OperationType = "network-config"
	OpFirewallConfig    OperationType = "firewall-config"
	OpFileSystem        OperationType = "file-system"
	OpProcessManagement OperationType = "process-management"
	OpPackageManagement OperationType = "package-management"
	OpGeneral           OperationType = "general"
)

// adminRequired operations hard-fail without elevation.
var adminRequired = map[OperationType]bool{
	OpRegistryWrite:    true,
	OpServiceControl:   true,
	OpSystemRestore:    true,
	OpDriverManagement: true,
	OpScheduledTask:    true,
	OpUpdateManagement: true,
}

// adminPreferred operations degrade without elevation but still run.
var adminPreferred = map[OperationType]bool{
	OpAppUninstall:   true,
	OpDiskCleanup:    true,
	OpNetworkConfig:  true,
	OpFirewallConfig: true,
}

// operationMarkers maps command substrings to operation types. Checked in
// order; first match wins.
var operationMarkers = []struct {
	Marker string
	Op     OperationType
}{
	{"reg add", OpRegistryWrite},
	{"reg delete", OpRegistryWrite},
	{"set-itemproperty", OpRegistryWrite},
	{"new-itemproperty", OpRegistryWrite},
	{"remove-itemproperty", OpRegistryWrite},
	{"stop-service", OpServiceControl},
	{"start-service", OpServiceControl},
	{"restart-service", OpServiceControl},
	{"set-service", OpServiceControl},
	{"sc stop", OpServiceControl},
	{"sc start", OpServiceControl},
	{"sc config", OpServiceControl},
	{"systemctl start", OpServiceControl},
	{"systemctl stop", OpServiceControl},
	{"systemctl restart", OpServiceControl},
	{"systemctl enable", OpServiceControl},
	{"systemctl disable", OpServiceControl},
	{"checkpoint-computer", OpSystemRestore},
	{"restore-computer", OpSystemRestore},
	{"rstrui", OpSystemRestore},
	{"pnputil", OpDriverManagement},
	{"modprobe", OpDriverManagement},
	{"insmod", OpDriverManagement},
	{"rmmod", OpDriverManagement},
	{"schtasks /create", OpScheduledTask},
	{"register-scheduledtask", OpScheduledTask},
	{"crontab -e", OpScheduledTask},
	{"install-windowsupdate", OpUpdateManagement},
	{"wuauclt", OpUpdateManagement},
	{"usoclient", OpUpdateManagement},
	{"uninstall-package", OpAppUninstall},
	{"winget uninstall", OpAppUninstall},
	{"apt remove", OpAppUninstall},
	{"apt purge", OpAppUninstall},
	{"msiexec /x", OpAppUninstall},
	{"cleanmgr", OpDiskCleanup},
	{"clear-recyclebin", OpDiskCleanup},
	{"optimize-volume", OpDiskCleanup},
	{"netsh interface", OpNetworkConfig},
	{"set-netipaddress", OpNetworkConfig},
	{"set-dnsclientserveraddress", OpNetworkConfig},
	{"ip addr add", OpNetworkConfig},
	{"ip route", OpNetworkConfig},
	{"netsh advfirewall", OpFirewallConfig},
	{"new-netfirewallrule", OpFirewallConfig},
	{"set-netfirewallrule", OpFirewallConfig},
	{"ufw ", OpFirewallConfig},
	{"iptables", OpFirewallConfig},
	{"stop-process", OpProcessManagement},
	{"taskkill", OpProcessManagement},
	{"kill -9", OpProcessManagement},
	{"winget install", OpPackageManagement},
	{"apt install", OpPackageManagement},
	{"choco install", OpPackageManagement},
	{"remove-item", OpFileSystem},
	{"move-item", OpFileSystem},
	{"copy-item", OpFileSystem},
	{"new-item", OpFileSystem},
}

// degradedAlternatives suggests unelevated fallbacks per operation type.
var degradedAlternatives = map[OperationType][]string{
	OpRegistryWrite: {
		"Write to HKCU instead of HKLM where possible",
		"Export the intended change to a .reg file for later elevated import",
	},
	OpServiceControl: {
		"Query the service state with Get-Service instead of changing it",
	},
	OpAppUninstall: {
		"Uninstall per-user installs only (winget uninstall --scope user)",
	},
	OpDiskCleanup: {
		"Clean user-owned temp directories only ($env:TEMP, ~/.cache)",
	},
	OpNetworkConfig: {
		"Inspect configuration with Get-NetIPConfiguration / ip addr show",
	},
	OpFirewallConfig: {
		"List current rules with Get-NetFirewallRule instead of changing them",
	},
}

// Check is the privilege verdict for one command.
type Check struct {
	// Operation is the detected operation type.
	Operation OperationType `json:"operation"`
	// Requirement is the elevation need of the operation.
	Requirement Requirement `json:"requirement"`
	// Elevated reports whether the current process holds admin rights.
	Elevated bool `json:"elevated"`
	// CanProceed reports whether execution should be attempted at all.
	CanProceed bool `json:"can_proceed"`
	// Reason explains a refusal or degradation.
	Reason string `json:"reason,omitempty"`
	// Alternatives are unelevated fallbacks when rights are missing.
	Alternatives []string `json:"alternatives,omitempty"`
}

// Checker classifies commands by elevation need. The elevation probe is
// injectable for tests.
type Checker struct {
	isElevated func() bool
}

// NewChecker creates a checker using the platform elevation probe.
func NewChecker() *Checker {
	return &Checker{isElevated: processElevated}
}

// NewCheckerWithProbe creates a checker with a custom elevation probe.
func NewCheckerWithProbe(probe func() bool) *Checker {
	return &Checker{isElevated: probe}
}

// ClassifyOperation returns the operation type of a command.
func ClassifyOperation(command string) OperationType {
	lower := strings.ToLower(command)
	for _, m := range operationMarkers {
		if strings.Contains(lower, m.Marker) {
			return m.Op
		}
	}
	return OpGeneral
}

// RequirementFor returns the elevation requirement of an operation type.
func RequirementFor(op OperationType) Requirement {
	switch {
	case adminRequired[op]:
		return RequirementRequired
	case adminPreferred[op]:
		return RequirementPreferred
	default:
		return RequirementNone
	}
}

// Evaluate classifies the command and decides whether it can proceed under
// the current process privileges.
func (c *Checker) Evaluate(command string) Check {
	op := ClassifyOperation(command)
	req := RequirementFor(op)
	elevated := c.isElevated()

	check := Check{
		Operation:   op,
		Requirement: req,
		Elevated:    elevated,
		CanProceed:  true,
	}

	switch req {
	case RequirementRequired:
		if !elevated {
			check.CanProceed = false
			check.Reason = "operation requires administrator privileges"
			check.Alternatives = degradedAlternatives[op]
		}
	case RequirementPreferred:
		if !elevated {
			check.Reason = "operation works best with administrator privileges; results may be partial"
			check.Alternatives = degradedAlternatives[op]
		}
	}
	return check
}
