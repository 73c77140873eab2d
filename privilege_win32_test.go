//go:build windows
// +build windows

package winsec

import (
	"errors"
	"testing"
)

func TestIsAdmin(t *testing.T) {
	admin, err := IsAdmin()
	if err != nil {
		t.Fatal("IsAdmin", err)
	}
	t.Log("IsAdmin:", admin)
}

func TestTryElevate(t *testing.T) {
	admin, err := IsAdmin()
	if err != nil {
		t.Fatal("IsAdmin", err)
	}
	token, err := NewPrivilegeToken().TryElevate()
	if !admin {
		if !errors.Is(err, ErrInsufficientRights) {
			t.Fatalf("expected ErrInsufficientRights without elevation, actual %v", err)
		}
		return
	}
	if err != nil {
		t.Fatal("TryElevate", err)
	}
	if err := token.Close(); err != nil {
		t.Error("Close", err)
	}
	// a closed token must no longer authorize elevated reads
	if err := token.valid(); !errors.Is(err, ErrInsufficientRights) {
		t.Fatalf("expected ErrInsufficientRights after Close, actual %v", err)
	}
}

func TestElevatedSaclRead(t *testing.T) {
	admin, err := IsAdmin()
	if err != nil {
		t.Fatal("IsAdmin", err)
	}
	if !admin {
		t.Skip("requires an elevated process token")
	}
	token, err := NewPrivilegeToken().TryElevate()
	if err != nil {
		t.Fatal("TryElevate", err)
	}
	defer token.Close()

	path := setupTestFile(t)
	sd, err := SecurityDescriptorFromPathElevated(token, path)
	if err != nil {
		t.Fatal("SecurityDescriptorFromPathElevated", err)
	}
	present, err := sd.SaclPresent()
	if err != nil {
		t.Fatal("SaclPresent", err)
	}
	t.Log("SaclPresent:", present)
}

func TestElevatedTokenCloseIsIdempotent(t *testing.T) {
	var token *ElevatedToken
	if err := token.Close(); err != nil {
		t.Fatal("nil Close", err)
	}
	token = &ElevatedToken{}
	token.closed = true
	if err := token.Close(); err != nil {
		t.Fatal("closed Close", err)
	}
}
