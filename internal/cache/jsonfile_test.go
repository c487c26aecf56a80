// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/vagrantory/vagrantory/pkg/types"
)

func newTestJSONFile(t *testing.T, timeout int) (Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b, err := newJSONFileBackend(Settings{
		Plugin:     "jsonfile",
		Connection: types.FilesystemPath(dir),
		Timeout:    timeout,
		Prefix:     DefaultPrefix,
	})
	if err != nil {
		t.Fatalf("newJSONFileBackend() returned error: %v", err)
	}
	return b, dir
}

func TestJSONFile_RequiresConnection(t *testing.T) {
	t.Parallel()

	_, err := newJSONFileBackend(Settings{Plugin: "jsonfile", Prefix: DefaultPrefix})
	if err == nil {
		t.Fatal("jsonfile accepted an empty connection")
	}
	if !errors.Is(err, ErrMissingConnection) {
		t.Errorf("error should wrap ErrMissingConnection, got: %v", err)
	}
	var mc *MissingConnectionError
	if !errors.As(err, &mc) || mc.Plugin != "jsonfile" {
		t.Errorf("error should be *MissingConnectionError naming jsonfile, got: %v", err)
	}
}

func TestJSONFile_ConnectionMustBeDirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := newJSONFileBackend(Settings{
		Plugin:     "jsonfile",
		Connection: types.FilesystemPath(file),
		Prefix:     DefaultPrefix,
	})
	if err == nil {
		t.Fatal("jsonfile accepted a file as its connection directory")
	}
}

func TestJSONFile_CreatesConnectionDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err := newJSONFileBackend(Settings{
		Plugin:     "jsonfile",
		Connection: types.FilesystemPath(dir),
		Prefix:     DefaultPrefix,
	})
	if err != nil {
		t.Fatalf("newJSONFileBackend() returned error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("connection directory was not created: %v", err)
	}
}

func TestJSONFile_RoundTrip(t *testing.T) {
	t.Parallel()

	b, dir := newTestJSONFile(t, 3600)
	key := Key("vagrant_abc123def456")
	payload := []byte(`[{"group":"lab","vms":[]}]`)

	if err := b.Set(key, payload); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}

	// The entry lands as a prefixed JSON file callers can inspect by hand.
	wantFile := filepath.Join(dir, DefaultPrefix+key.String()+jsonFileExt)
	if _, err := os.Stat(wantFile); err != nil {
		t.Errorf("expected cache file %s: %v", wantFile, err)
	}

	got, hit, err := b.Get(key)
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if !hit {
		t.Fatal("Get() missed a freshly stored entry")
	}
	if string(got) != string(payload) {
		t.Errorf("Get() = %q, want the exact bytes passed to Set", got)
	}
}

func TestJSONFile_MissOnAbsentKey(t *testing.T) {
	t.Parallel()

	b, _ := newTestJSONFile(t, 3600)
	got, hit, err := b.Get(Key("vagrant_000000000000"))
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if hit || got != nil {
		t.Errorf("Get() of absent key = (%q, %v), want (nil, false)", got, hit)
	}
}

func TestJSONFile_ExpiryByModTime(t *testing.T) {
	t.Parallel()

	b, dir := newTestJSONFile(t, 60)
	key := Key("vagrant_abc123def456")
	if err := b.Set(key, []byte("[]")); err != nil {
		t.Fatal(err)
	}

	// Age the entry past the validity window.
	file := filepath.Join(dir, DefaultPrefix+key.String()+jsonFileExt)
	stale := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(file, stale, stale); err != nil {
		t.Fatal(err)
	}

	_, hit, err := b.Get(key)
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if hit {
		t.Error("Get() returned an entry older than the timeout")
	}

	ok, err := b.Contains(key)
	if err != nil {
		t.Fatalf("Contains() returned error: %v", err)
	}
	if ok {
		t.Error("Contains() reported an expired entry as fresh")
	}
}

func TestJSONFile_ZeroTimeoutNeverExpires(t *testing.T) {
	t.Parallel()

	b, dir := newTestJSONFile(t, 0)
	key := Key("vagrant_abc123def456")
	if err := b.Set(key, []byte("[]")); err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(dir, DefaultPrefix+key.String()+jsonFileExt)
	ancient := time.Now().Add(-24 * 365 * time.Hour)
	if err := os.Chtimes(file, ancient, ancient); err != nil {
		t.Fatal(err)
	}

	_, hit, err := b.Get(key)
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if !hit {
		t.Error("timeout 0 must mean entries never expire")
	}
}

func TestJSONFile_KeysAndFlushHonorPrefix(t *testing.T) {
	t.Parallel()

	b, dir := newTestJSONFile(t, 3600)
	if err := b.Set(Key("vagrant_aaaaaaaaaaaa"), []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if err := b.Set(Key("vagrant_bbbbbbbbbbbb"), []byte("[]")); err != nil {
		t.Fatal(err)
	}

	// A foreign file in a shared directory must be invisible and survive Flush.
	foreign := filepath.Join(dir, "other_tool.json")
	if err := os.WriteFile(foreign, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	keys, err := b.Keys()
	if err != nil {
		t.Fatalf("Keys() returned error: %v", err)
	}
	slices.Sort(keys)
	want := []string{"vagrant_aaaaaaaaaaaa", "vagrant_bbbbbbbbbbbb"}
	if !slices.Equal(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() returned error: %v", err)
	}
	keys, err = b.Keys()
	if err != nil {
		t.Fatalf("Keys() returned error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys() after Flush() = %v, want none", keys)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("Flush() touched a foreign file: %v", err)
	}
}

func TestJSONFile_Delete(t *testing.T) {
	t.Parallel()

	b, _ := newTestJSONFile(t, 3600)
	key := Key("vagrant_abc123def456")
	if err := b.Set(key, []byte("[]")); err != nil {
		t.Fatal(err)
	}

	if err := b.Delete(key); err != nil {
		t.Fatalf("Delete() returned error: %v", err)
	}
	if _, hit, _ := b.Get(key); hit {
		t.Error("entry survived Delete()")
	}

	// Deleting again is not an error.
	if err := b.Delete(key); err != nil {
		t.Errorf("Delete() of absent key returned error: %v", err)
	}
}
