// SPDX-License-Identifier: MPL-2.0

package sourcefile

import (
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestValidate_CleanVagrantSource(t *testing.T) {
	t.Parallel()

	sf := &SourceFile{
		Plugin: "vagrant",
		Paths:  []PathEntry{{Path: "/srv/vagrant/lab"}},
	}

	if errs := sf.Validate(); errs != nil {
		t.Errorf("Validate() = %v, want nil", errs)
	}
}

func TestValidate_CollectsAllIssues(t *testing.T) {
	t.Parallel()

	sf := &SourceFile{
		Plugin:       "",
		CacheTimeout: intPtr(-5),
	}

	errs := sf.Validate()
	if !errs.HasErrors() {
		t.Fatal("Validate() found no errors for an invalid source")
	}
	if errs.ErrorCount() < 2 {
		t.Errorf("ErrorCount() = %d, want at least 2 (plugin + timeout)", errs.ErrorCount())
	}
}

func TestValidate_VagrantRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		source        SourceFile
		wantErrors    int
		wantWarnings  int
		wantFirstWord string
	}{
		{
			name:       "no paths is an error",
			source:     SourceFile{Plugin: "vagrant"},
			wantErrors: 1,
		},
		{
			name: "pathless entry is a warning",
			source: SourceFile{
				Plugin: "vagrant",
				Paths:  []PathEntry{{Path: "/srv/lab"}, {Group: "orphan"}},
			},
			wantWarnings: 1,
		},
		{
			name: "url ignored by vagrant",
			source: SourceFile{
				Plugin: "vagrant",
				Paths:  []PathEntry{{Path: "/srv/lab"}},
				URL:    "https://pve.lab:8006",
			},
			wantWarnings: 1,
		},
		{
			name: "negative timeout is an error",
			source: SourceFile{
				Plugin:       "vagrant",
				Paths:        []PathEntry{{Path: "/srv/lab"}},
				Cache:        true,
				CacheTimeout: intPtr(-1),
			},
			wantErrors: 1,
		},
		{
			name: "cache overrides without cache enabled warn",
			source: SourceFile{
				Plugin:      "vagrant",
				Paths:       []PathEntry{{Path: "/srv/lab"}},
				CachePlugin: "jsonfile",
			},
			wantWarnings: 1,
		},
		{
			name: "explicit zero timeout is fine",
			source: SourceFile{
				Plugin:       "vagrant",
				Paths:        []PathEntry{{Path: "/srv/lab"}},
				Cache:        true,
				CacheTimeout: intPtr(0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := tt.source.Validate()
			if got := errs.ErrorCount(); got != tt.wantErrors {
				t.Errorf("ErrorCount() = %d, want %d (issues: %v)", got, tt.wantErrors, errs)
			}
			if got := errs.WarningCount(); got != tt.wantWarnings {
				t.Errorf("WarningCount() = %d, want %d (issues: %v)", got, tt.wantWarnings, errs)
			}
		})
	}
}

func TestValidate_ProxmoxRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		source       SourceFile
		wantErrors   int
		wantWarnings int
	}{
		{
			name:       "missing url is an error",
			source:     SourceFile{Plugin: "proxmox", Token: "user@pam!inv=abc"},
			wantErrors: 1,
		},
		{
			name:       "non-http url is an error",
			source:     SourceFile{Plugin: "proxmox", URL: "ssh://pve.lab", Token: "user@pam!inv=abc"},
			wantErrors: 1,
		},
		{
			name:         "missing token warns about the env fallback",
			source:       SourceFile{Plugin: "proxmox", URL: "https://pve.lab:8006"},
			wantWarnings: 1,
		},
		{
			name: "paths ignored by proxmox",
			source: SourceFile{
				Plugin: "proxmox",
				URL:    "https://pve.lab:8006",
				Token:  "user@pam!inv=abc",
				Paths:  []PathEntry{{Path: "/srv/lab"}},
			},
			wantWarnings: 1,
		},
		{
			name:   "token file alone is clean",
			source: SourceFile{Plugin: "proxmox", URL: "https://pve.lab:8006", TokenFile: "/run/secrets/pve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := tt.source.Validate()
			if got := errs.ErrorCount(); got != tt.wantErrors {
				t.Errorf("ErrorCount() = %d, want %d (issues: %v)", got, tt.wantErrors, errs)
			}
			if got := errs.WarningCount(); got != tt.wantWarnings {
				t.Errorf("WarningCount() = %d, want %d (issues: %v)", got, tt.wantWarnings, errs)
			}
		})
	}
}

func TestValidationErrors_Message(t *testing.T) {
	t.Parallel()

	errs := ValidationErrors{
		{Field: "plugin", Message: "missing", Severity: SeverityError},
		{Field: "paths[0].path", Message: "entry has no path", Severity: SeverityWarning},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "1 error and 1 warning") {
		t.Errorf("Error() = %q, want an error and warning count", msg)
	}
	if !strings.Contains(msg, "plugin: missing") {
		t.Errorf("Error() should list each issue, got %q", msg)
	}

	single := ValidationErrors{{Field: "plugin", Message: "missing", Severity: SeverityError}}
	if single.Error() != "plugin: missing" {
		t.Errorf("single issue Error() = %q", single.Error())
	}

	var empty ValidationErrors
	if empty.Error() != "" {
		t.Errorf("empty Error() = %q, want empty string", empty.Error())
	}
}

func TestValidationErrors_Filters(t *testing.T) {
	t.Parallel()

	errs := ValidationErrors{
		{Field: "a", Message: "x", Severity: SeverityError},
		{Field: "b", Message: "y", Severity: SeverityWarning},
		{Field: "c", Message: "z", Severity: SeverityWarning},
	}

	if !errs.HasErrors() {
		t.Error("HasErrors() = false")
	}
	if got := len(errs.Warnings()); got != 2 {
		t.Errorf("len(Warnings()) = %d, want 2", got)
	}
	if errs.ErrorCount() != 1 || errs.WarningCount() != 2 {
		t.Errorf("counts = %d/%d, want 1/2", errs.ErrorCount(), errs.WarningCount())
	}
}

func TestSeverityString(t *testing.T) {
	t.Parallel()

	if SeverityError.String() != "error" || SeverityWarning.String() != "warning" {
		t.Error("severity String() labels are wrong")
	}
	if ValidationSeverity(42).String() != "unknown" {
		t.Error("unexpected label for out-of-range severity")
	}
}
