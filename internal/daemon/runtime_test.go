package daemon

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRuntime_AcquireLookupRelease(t *testing.T) {
	rt := Runtime{PIDPath: filepath.Join(t.TempDir(), "run", "budgetpulsed.pid")}

	if _, err := rt.Lookup(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Lookup before start = %v, want ErrNotRunning", err)
	}

	started := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	release, err := rt.Acquire(State{Addr: "127.0.0.1:9999", StartedAt: started, DBPath: "/tmp/h.db"})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	st, err := rt.Lookup()
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if st.PID != os.Getpid() || st.Addr != "127.0.0.1:9999" || st.DBPath != "/tmp/h.db" || !st.StartedAt.Equal(started) {
		t.Errorf("state = %+v", st)
	}

	if _, err := rt.Acquire(State{}); err == nil || !strings.Contains(err.Error(), "already running") {
		t.Errorf("second Acquire err = %v, want already running", err)
	}

	release()
	if _, err := os.Stat(rt.PIDPath); !os.IsNotExist(err) {
		t.Errorf("pid file left behind: %v", err)
	}
	if _, err := os.Stat(rt.statePath()); !os.IsNotExist(err) {
		t.Errorf("state file left behind: %v", err)
	}
}

func TestRuntime_StalePID(t *testing.T) {
	rt := Runtime{PIDPath: filepath.Join(t.TempDir(), "budgetpulsed.pid")}
	// Above the kernel's pid_max, so never a live process.
	if err := os.WriteFile(rt.PIDPath, []byte("99999999\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := rt.Lookup()
	if !errors.Is(err, ErrNotRunning) || !strings.Contains(err.Error(), "stale") {
		t.Fatalf("Lookup = %v, want stale ErrNotRunning", err)
	}
	if err := rt.CheckFree(); err != nil {
		t.Fatalf("CheckFree: %v", err)
	}
	if _, err := os.Stat(rt.PIDPath); !os.IsNotExist(err) {
		t.Error("stale pid file not cleared")
	}
}

func TestRuntime_InvalidPIDFile(t *testing.T) {
	rt := Runtime{PIDPath: filepath.Join(t.TempDir(), "budgetpulsed.pid")}
	if err := os.WriteFile(rt.PIDPath, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.Lookup(); err == nil || errors.Is(err, ErrNotRunning) {
		t.Errorf("Lookup = %v, want invalid pid error", err)
	}
}

func TestFetchStatus(t *testing.T) {
	s, _ := newTestService(t, nil)
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	st, err := FetchStatus(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	if err != nil {
		t.Fatalf("FetchStatus: %v", err)
	}
	if st.PollCount != 1 || st.Summary.HealthScore != s.snapshotStatus().Summary.HealthScore {
		t.Errorf("status = %+v", st)
	}

	srv.Close()
	if _, err := FetchStatus(context.Background(), strings.TrimPrefix(srv.URL, "http://")); err == nil {
		t.Error("FetchStatus against a closed server should fail")
	}
}
