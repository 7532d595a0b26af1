package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
)

func TestNewStoreSurfacesOpenFailure(t *testing.T) {
	boom := errors.New("connection refused")
	restore := OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		if driverName != defaultDriver {
			t.Fatalf("unexpected driver %q", driverName)
		}
		return nil, boom
	})
	defer restore()

	_, err := NewStore("postgres://example/db", nil)
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected open failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected wrapped context, got %v", err)
	}
}

func TestNewStoreDefaultsDSN(t *testing.T) {
	var seen string
	restore := OverrideSQLOpen(func(_, dsn string) (*sql.DB, error) {
		seen = dsn
		return nil, errors.New("stop here")
	})
	defer restore()

	_, _ = NewStore("", nil)
	if seen != defaultDSN {
		t.Fatalf("expected default DSN, got %q", seen)
	}
}
