// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemPathValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    FilesystemPath
		want    bool
		wantErr bool
	}{
		{"absolute path", FilesystemPath("/usr/bin/vagrant"), true, false},
		{"relative path", FilesystemPath("vagrantory.yml"), true, false},
		{"windows style", FilesystemPath("C:\\Vagrant\\lab"), true, false},
		{"path with spaces", FilesystemPath("/srv/my lab/vagrant"), true, false},
		{"dot path", FilesystemPath("."), true, false},
		{"empty is invalid", FilesystemPath(""), false, true},
		{"whitespace only is invalid", FilesystemPath("   "), false, true},
		{"tab only is invalid", FilesystemPath("\t"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if (err == nil) != tt.want {
				t.Errorf("FilesystemPath(%q).Validate() error = %v, wantValid %v", tt.path, err, tt.want)
			}
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FilesystemPath(%q).Validate() returned nil, want error", tt.path)
				}
				if !errors.Is(err, ErrInvalidFilesystemPath) {
					t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
				}
				var fpErr *InvalidFilesystemPathError
				if !errors.As(err, &fpErr) {
					t.Errorf("error should be *InvalidFilesystemPathError, got: %T", err)
				}
			} else if err != nil {
				t.Errorf("FilesystemPath(%q).Validate() returned unexpected error: %v", tt.path, err)
			}
		})
	}
}

func TestFilesystemPathExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory available: %v", err)
	}

	tests := []struct {
		name string
		path FilesystemPath
		want FilesystemPath
	}{
		{"bare tilde", FilesystemPath("~"), FilesystemPath(home)},
		{"tilde prefix", FilesystemPath("~/.vagrantory/cache"), FilesystemPath(filepath.Join(home, ".vagrantory", "cache"))},
		{"absolute untouched", FilesystemPath("/var/cache"), FilesystemPath("/var/cache")},
		{"relative untouched", FilesystemPath("cache"), FilesystemPath("cache")},
		{"embedded tilde untouched", FilesystemPath("/srv/~backup"), FilesystemPath("/srv/~backup")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.path.ExpandUser()
			if err != nil {
				t.Fatalf("ExpandUser(%q) returned error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ExpandUser(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFilesystemPathAbs(t *testing.T) {
	t.Parallel()

	got, err := FilesystemPath("/srv/vagrant/../lab").Abs()
	if err != nil {
		t.Fatalf("Abs() returned error: %v", err)
	}
	if got != FilesystemPath(filepath.Clean("/srv/lab")) {
		t.Errorf("Abs() = %q, want %q", got, "/srv/lab")
	}

	rel, err := FilesystemPath("vagrantory.yml").Abs()
	if err != nil {
		t.Fatalf("Abs() returned error: %v", err)
	}
	if !filepath.IsAbs(rel.String()) {
		t.Errorf("Abs() of relative path = %q, want absolute", rel)
	}
}

func TestFilesystemPathString(t *testing.T) {
	t.Parallel()
	p := FilesystemPath("/usr/bin/vagrant")
	if p.String() != "/usr/bin/vagrant" {
		t.Errorf("FilesystemPath.String() = %q, want %q", p.String(), "/usr/bin/vagrant")
	}
}
