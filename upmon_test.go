package upmon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMonitorDiscoversOwnProcess(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("executable: %v", err)
	}
	name := filepath.Base(exe)

	m := New(Options{Lookups: []Lookup{{
		Name:         "self",
		ProcessNames: []string{name},
	}}})
	m.ReconcileOnce(context.Background())

	svc, ok := m.Service("self")
	if !ok {
		t.Fatalf("service %q not discovered (process %q)", "self", name)
	}
	if svc.Status != StatusStarted {
		t.Fatalf("expected %q on first discovery, got %q", StatusStarted, svc.Status)
	}
	if svc.Process.PID != int32(os.Getpid()) {
		t.Fatalf("expected pid %d, got %d", os.Getpid(), svc.Process.PID)
	}
	if len(svc.UpTime) != 1 {
		t.Fatalf("expected one up entry, got %d", len(svc.UpTime))
	}

	pct, err := m.Availability("self")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if pct != 100 {
		t.Fatalf("expected 100%% availability, got %v", pct)
	}
}

func TestMonitorSweepsWhenLookupsRemoved(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("executable: %v", err)
	}
	name := filepath.Base(exe)

	dir := t.TempDir()
	path := filepath.Join(dir, "upmon.toml")
	withLookup := "[[services]]\nname = \"self\"\nprocess_names = [\"" + name + "\"]\n"
	if err := os.WriteFile(path, []byte(withLookup), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	m := New(Options{LookupFile: path})
	m.ReconcileOnce(context.Background())
	if _, ok := m.Service("self"); !ok {
		t.Fatalf("service not discovered from config file")
	}

	// emptying the file drops every lookup; tracked services go offline
	if err := os.WriteFile(path, []byte(""), 0o600); err != nil {
		t.Fatalf("truncate config: %v", err)
	}
	m.ReconcileOnce(context.Background())
	svc, ok := m.Service("self")
	if !ok {
		t.Fatalf("service should remain tracked after going offline")
	}
	if svc.Status != StatusOffline {
		t.Fatalf("expected %q, got %q", StatusOffline, svc.Status)
	}
}

func TestPackageAvailability(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	up := []time.Time{now.Add(-time.Hour)}
	down := []time.Time{now.Add(-30 * time.Minute)}
	pct := Availability(up, down, now)
	if pct != 100 {
		t.Fatalf("closed half-hour pair over half-hour window should be 100, got %v", pct)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upmon.toml")
	body := "interval = \"15s\"\n\n[[services]]\nname = \"db\"\nprocess_names = [\"postgres\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if c.Interval != 15*time.Second {
		t.Fatalf("expected 15s interval, got %v", c.Interval)
	}
	if len(c.Services) != 1 || c.Services[0].Name != "db" {
		t.Fatalf("unexpected services: %+v", c.Services)
	}
}
