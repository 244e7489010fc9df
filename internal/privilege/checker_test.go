package privilege

import "testing"

func TestClassifyOperation(t *testing.T) {
	tests := []struct {
		command string
		want    OperationType
	}{
		{`reg add HKLM\SOFTWARE\Acme /v Key /d 1`, OpRegistryWrite},
		{"Stop-Service -Name Spooler", OpServiceControl},
		{"systemctl restart nginx", OpServiceControl},
		{`Checkpoint-Computer -Description "before cleanup"`, OpSystemRestore},
		{"pnputil /add-driver driver.inf", OpDriverManagement},
		{`schtasks /create /tn Nightly /tr backup.cmd`, OpScheduledTask},
		{"Install-WindowsUpdate -AcceptAll", OpUpdateManagement},
		{"winget uninstall Acme.Widget", OpAppUninstall},
		{"cleanmgr /sagerun:1", OpDiskCleanup},
		{"netsh interface ip set address", OpNetworkConfig},
		{"netsh advfirewall set allprofiles state off", OpFirewallConfig},
		{"taskkill /pid 4242 /f", OpProcessManagement},
		{"apt install jq", OpPackageManagement},
		{"Remove-Item old.log", OpFileSystem},
		{"Get-Process", OpGeneral},
	}

	for _, tc := range tests {
		t.Run(tc.command, func(t *testing.T) {
			if got := ClassifyOperation(tc.command); got != tc.want {
				t.Fatalf("ClassifyOperation(%q) = %s, want %s", tc.command, got, tc.want)
			}
		})
	}
}

func TestRequirementFor(t *testing.T) {
	required := []OperationType{
		OpRegistryWrite, OpServiceControl, OpSystemRestore,
		OpDriverManagement, OpScheduledTask, OpUpdateManagement,
	}
	for _, op := range required {
		if got := RequirementFor(op); got != RequirementRequired {
			t.Errorf("RequirementFor(%s) = %s, want %s", op, got, RequirementRequired)
		}
	}

	preferred := []OperationType{
		OpAppUninstall, OpDiskCleanup, OpNetworkConfig, OpFirewallConfig,
	}
	for _, op := range preferred {
		if got := RequirementFor(op); got != RequirementPreferred {
			t.Errorf("RequirementFor(%s) = %s, want %s", op, got, RequirementPreferred)
		}
	}

	if got := RequirementFor(OpGeneral); got != RequirementNone {
		t.Errorf("RequirementFor(general) = %s, want %s", got, RequirementNone)
	}
}

func TestEvaluateRequiredWithoutElevation(t *testing.T) {
	c := NewCheckerWithProbe(func() bool { return false })

	check := c.Evaluate("Stop-Service -Name Spooler")
	if check.CanProceed {
		t.Fatal("service control without elevation should not proceed")
	}
	if check.Reason == "" {
		t.Fatal("refusal must carry a reason")
	}
	if len(check.Alternatives) == 0 {
		t.Fatal("refusal should suggest unelevated alternatives")
	}
}

func TestEvaluateRequiredWithElevation(t *testing.T) {
	c := NewCheckerWithProbe(func() bool { return true })

	check := c.Evaluate("Stop-Service -Name Spooler")
	if !check.CanProceed {
		t.Fatalf("elevated service control refused: %+v", check)
	}
	if check.Reason != "" {
		t.Fatalf("unexpected reason: %q", check.Reason)
	}
}

func TestEvaluatePreferredDegradesButProceeds(t *testing.T) {
	c := NewCheckerWithProbe(func() bool { return false })

	check := c.Evaluate("netsh advfirewall show allprofiles")
	if !check.CanProceed {
		t.Fatal("preferred-elevation operation must still proceed")
	}
	if check.Requirement != RequirementPreferred {
		t.Fatalf("Requirement = %s, want %s", check.Requirement, RequirementPreferred)
	}
	if check.Reason == "" || len(check.Alternatives) == 0 {
		t.Fatalf("degraded run should note reason and alternatives: %+v", check)
	}
}

func TestEvaluateGeneralCommand(t *testing.T) {
	c := NewCheckerWithProbe(func() bool { return false })

	check := c.Evaluate("echo hello")
	if !check.CanProceed || check.Requirement != RequirementNone {
		t.Fatalf("got %+v, want proceed with no requirement", check)
	}
}
