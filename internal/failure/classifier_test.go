package failure

import "testing"

func TestClassifyByErrorText(t *testing.T) {
	tests := []struct {
		name    string
		errText string
		want    Category
	}{
		{"windows access denied", "Access is denied.", CategoryPermissionDenied},
		{"posix permission", "rm: cannot remove '/etc/hosts': Permission denied", CategoryPermissionDenied},
		{"elevation hint", "This command requires elevation.", CategoryPermissionDenied},
		{"locked file", "The process cannot access the file because it is being used by another process.", CategoryLockedFile},
		{"sharing violation", "Sharing violation on path config.db", CategoryLockedFile},
		{"timeout", "The operation has timed out.", CategoryTimeout},
		{"disk full", "There is not enough space on the disk.", CategoryDiskSpace},
		{"dns failure", "curl: (6) Could not resolve host: example.invalid", CategoryNetwork},
		{"connection refused", "dial tcp 127.0.0.1:443: connection refused", CategoryNetwork},
		{"missing cmdlet", "'foo' is not recognized as the name of a cmdlet", CategoryDependencyMissing},
		{"missing binary", "bash: jq: command not found", CategoryDependencyMissing},
		{"missing path", "Cannot find path 'C:\\nope' because it does not exist.", CategoryNotFound},
		{"posix missing file", "cat: /tmp/nope: No such file or directory", CategoryNotFound},
		{"syntax", "ParserError: Missing terminator in string", CategorySyntax},
		{"bad parameter", "A parameter with the name 'Recrse' cannot be found", CategorySyntax},
		{"service", "The service Spooler failed to start", CategoryServiceError},
		{"registry", "ERROR: Invalid registry key path.", CategoryRegistryError},
		{"already exists", "mkdir: cannot create directory 'out': File already exists", CategoryAlreadyExists},
		{"unmatched", "segmentation fault (core dumped)", CategoryUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Classify(tc.errText, 1)
			if d.Category != tc.want {
				t.Fatalf("Classify(%q).Category = %s, want %s", tc.errText, d.Category, tc.want)
			}
		})
	}
}

func TestClassifyByExitCode(t *testing.T) {
	tests := []struct {
		exitCode int
		want     Category
	}{
		{5, CategoryPermissionDenied},
		{32, CategoryLockedFile},
		{2, CategoryNotFound},
		{1, CategoryUnknown},
	}

	for _, tc := range tests {
		d := Classify("", tc.exitCode)
		if d.Category != tc.want {
			t.Errorf("Classify(\"\", %d).Category = %s, want %s", tc.exitCode, d.Category, tc.want)
		}
	}
}

func TestTextOutranksExitCode(t *testing.T) {
	d := Classify("No such file or directory", 5)
	if d.Category != CategoryNotFound {
		t.Fatalf("Category = %s, want %s (text beats exit code)", d.Category, CategoryNotFound)
	}
}

func TestOnlyUnknownIsNonRecoverable(t *testing.T) {
	for cat, b := range bundles {
		if cat == CategoryUnknown {
			if b.Recoverable {
				t.Error("unknown must be non-recoverable")
			}
			continue
		}
		if !b.Recoverable {
			t.Errorf("%s marked non-recoverable", cat)
		}
		if len(b.Steps) == 0 {
			t.Errorf("%s has no recovery steps", cat)
		}
	}
}
