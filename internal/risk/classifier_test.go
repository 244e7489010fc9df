package risk

import (
	"strings"
	"testing"
)

func TestClassifyDangerousSignatures(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		command string
	}{
		{"recursive root delete", "rm -rf /"},
		{"drive root delete", `Remove-Item -Recurse C:\`},
		{"windows dir delete", `Remove-Item -Recurse C:\Windows`},
		{"format volume", "Format-Volume -DriveLetter D"},
		{"format drive", "format c:"},
		{"mkfs", "mkfs.ext4 /dev/sda1"},
		{"dd to disk", "dd if=/dev/zero of=/dev/sda"},
		{"boot config delete", "bcdedit /delete {current}"},
		{"cipher wipe", "cipher /w:C"},
		{"fork bomb", ":(){ :|:& };:"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := c.Classify(tc.command)
			if v.Tier != TierDangerous {
				t.Fatalf("Classify(%q).Tier = %s, want %s", tc.command, v.Tier, TierDangerous)
			}
			if v.IsSafe() {
				t.Fatalf("Classify(%q).IsSafe() = true, want false", tc.command)
			}
			if len(v.Warnings) == 0 {
				t.Fatalf("Classify(%q) produced no warnings", tc.command)
			}
		})
	}
}

func TestClassifySafeAllowlist(t *testing.T) {
	c := NewClassifier()

	tests := []string{
		"Get-Process",
		"Get-Service",
		"get-childitem -Path .",
		"ls -la",
		"ps aux",
		"whoami",
		"df -h",
	}

	for _, cmd := range tests {
		t.Run(cmd, func(t *testing.T) {
			v := c.Classify(cmd)
			if v.Tier != TierSafe {
				t.Fatalf("Classify(%q).Tier = %s, want %s", cmd, v.Tier, TierSafe)
			}
			if len(v.Warnings) != 0 {
				t.Fatalf("Classify(%q).Warnings = %v, want none", cmd, v.Warnings)
			}
		})
	}
}

func TestClassifyCautionAccumulatesWarnings(t *testing.T) {
	c := NewClassifier()

	// Admin-requiring AND destructive: both warnings under one caution tier.
	v := c.Classify("Stop-Service -Name Spooler; Remove-Item C:\\temp\\spool.dat")
	if v.Tier != TierCaution {
		t.Fatalf("Tier = %s, want %s", v.Tier, TierCaution)
	}

	var hasAdmin, hasDestructive bool
	for _, w := range v.Warnings {
		if strings.Contains(w, "administrator") {
			hasAdmin = true
		}
		if strings.Contains(w, "destructive") {
			hasDestructive = true
		}
	}
	if !hasAdmin || !hasDestructive {
		t.Fatalf("warnings = %v, want both admin and destructive entries", v.Warnings)
	}
}

func TestClassifyUnknownCommandIsSafeWithoutKeywords(t *testing.T) {
	c := NewClassifier()
	v := c.Classify("echo hello")
	if v.Tier != TierSafe {
		t.Fatalf("Tier = %s, want %s", v.Tier, TierSafe)
	}
}

func TestClassifyEmptyCommand(t *testing.T) {
	c := NewClassifier()
	v := c.Classify("   ")
	if v.Tier != TierCaution {
		t.Fatalf("Tier = %s, want %s", v.Tier, TierCaution)
	}
}

func TestSyntaxWarnings(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"unbalanced double quotes", `echo "oops`, "double quotes"},
		{"unbalanced parens", "Write-Host (1+2", "parentheses"},
		{"wildcard remove", "Remove-Item C:\\temp\\*", "wildcards"},
		{"force flag", "Remove-Item foo -Force", "-Force"},
		{"recursive delete", "Remove-Item foo -Recurse", "recursive"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			warnings := syntaxWarnings(tc.command)
			for _, w := range warnings {
				if strings.Contains(w, tc.want) {
					return
				}
			}
			t.Fatalf("syntaxWarnings(%q) = %v, want entry containing %q", tc.command, warnings, tc.want)
		})
	}
}

func TestTierOrdering(t *testing.T) {
	if TierSafe.Rank() >= TierCaution.Rank() ||
		TierCaution.Rank() >= TierDangerous.Rank() ||
		TierDangerous.Rank() >= TierBlocked.Rank() {
		t.Fatal("tier ordering safe < caution < dangerous < blocked violated")
	}

	if got := MoreSevere(TierSafe, TierDangerous); got != TierDangerous {
		t.Fatalf("MoreSevere(safe, dangerous) = %s", got)
	}
	if got := MoreSevere(TierBlocked, TierCaution); got != TierBlocked {
		t.Fatalf("MoreSevere(blocked, caution) = %s", got)
	}
}
