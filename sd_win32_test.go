//go:build windows
// +build windows

package winsec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sd_test.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal("WriteFile", err)
	}
	return path
}

func TestSecurityDescriptorFromPath(t *testing.T) {
	path := setupTestFile(t)
	sd, err := SecurityDescriptorFromPath(path)
	if err != nil {
		t.Fatal("SecurityDescriptorFromPath", err)
	}
	owner := sd.OwnerSID()
	if owner == nil {
		t.Fatal("expected an owner SID")
	}
	if _, _, err := owner.LookupAccount(); err != nil {
		t.Error("owner.LookupAccount", err)
	}
	if sd.GroupSID() == nil {
		t.Error("expected a group SID")
	}
	present, err := sd.DaclPresent()
	if err != nil {
		t.Fatal("DaclPresent", err)
	}
	if !present {
		t.Error("expected a DACL on a fresh temp file")
	}
	// the non-elevated path never reads the SACL
	present, err = sd.SaclPresent()
	if err != nil {
		t.Fatal("SaclPresent", err)
	}
	if present {
		t.Error("unexpected SACL without elevation")
	}
}

func TestSecurityDescriptorFromPathAcesResolve(t *testing.T) {
	path := setupTestFile(t)
	sd, err := SecurityDescriptorFromPath(path)
	if err != nil {
		t.Fatal("SecurityDescriptorFromPath", err)
	}
	dacl := sd.DACL()
	if dacl == nil {
		t.Skip("no DACL on this volume")
	}
	n := 0
	for it := dacl.Aces(); ; n++ {
		ace, ok := it.Next()
		if !ok {
			break
		}
		sid, err := ace.SID()
		if err != nil {
			t.Fatal("ace.SID", err)
		}
		t.Logf("%s %s %s", ace.Type(), ace.Mask(), sid)
	}
	if n != dacl.AceCount() {
		t.Errorf("iterated %d ACEs, header says %d", n, dacl.AceCount())
	}
}

func TestSecurityDescriptorFromPathNotFound(t *testing.T) {
	_, err := SecurityDescriptorFromPath(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, actual %v", err)
	}
}

func TestSecurityDescriptorFromObjectMissingService(t *testing.T) {
	_, err := SecurityDescriptorFromObject("winsec-test-no-such-service", ObjectTypeService)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, actual %v", err)
	}
}

func TestSecurityDescriptorElevatedRequiresToken(t *testing.T) {
	path := setupTestFile(t)

	_, err := SecurityDescriptorFromPathElevated(nil, path)
	if !errors.Is(err, ErrInsufficientRights) {
		t.Fatalf("expected ErrInsufficientRights, actual %v", err)
	}

	token := &ElevatedToken{closed: true}
	_, err = SecurityDescriptorFromPathElevated(token, path)
	if !errors.Is(err, ErrInsufficientRights) {
		t.Fatalf("expected ErrInsufficientRights for a closed token, actual %v", err)
	}
}
