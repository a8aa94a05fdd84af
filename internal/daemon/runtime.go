package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrNotRunning is returned when no live daemon owns the pid file.
var ErrNotRunning = errors.New("daemon is not running")

// State is what a running daemon records next to its pid file.
type State struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

// Runtime manages the pid and state files of one daemon instance.
type Runtime struct {
	PIDPath string
}

func (r Runtime) statePath() string {
	return r.PIDPath + ".json"
}

// Acquire claims the pid file for the current process and records st.
// The returned release removes both files.
func (r Runtime) Acquire(st State) (release func(), err error) {
	if err := r.clearStale(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(r.PIDPath), 0o750); err != nil {
		return nil, fmt.Errorf("create daemon directory: %w", err)
	}

	st.PID = os.Getpid()
	if err := os.WriteFile(r.PIDPath, []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("write pid file: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err == nil {
		err = os.WriteFile(r.statePath(), append(data, '\n'), 0o600)
	}
	if err != nil {
		_ = os.Remove(r.PIDPath)
		return nil, fmt.Errorf("write state file: %w", err)
	}

	return r.remove, nil
}

// CheckFree fails when a live daemon already owns the pid file, and clears
// the files of a dead one.
func (r Runtime) CheckFree() error {
	return r.clearStale()
}

func (r Runtime) clearStale() error {
	pid, err := r.readPID()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case processAlive(pid):
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	r.remove()
	return nil
}

// Lookup returns the state of the live daemon. A missing pid file yields
// ErrNotRunning. A dead pid yields a wrapped ErrNotRunning naming it.
func (r Runtime) Lookup() (State, error) {
	pid, err := r.readPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, ErrNotRunning
		}
		return State{}, err
	}
	if !processAlive(pid) {
		return State{PID: pid}, fmt.Errorf("%w: stale pid %d", ErrNotRunning, pid)
	}

	st := State{PID: pid}
	//nolint:gosec // daemon state path is configured by the local user
	if data, err := os.ReadFile(r.statePath()); err == nil {
		_ = json.Unmarshal(data, &st)
		st.PID = pid
	}
	return st, nil
}

// Stop sends SIGTERM to the live daemon and waits up to timeout for it
// to exit.
func (r Runtime) Stop(timeout time.Duration) (int, error) {
	st, err := r.Lookup()
	if err != nil {
		return 0, err
	}
	proc, err := os.FindProcess(st.PID)
	if err != nil {
		return st.PID, fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return st.PID, fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !processAlive(st.PID) {
			r.remove()
			return st.PID, nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return st.PID, fmt.Errorf("daemon (pid %d) did not exit in time", st.PID)
}

func (r Runtime) remove() {
	_ = os.Remove(r.PIDPath)
	_ = os.Remove(r.statePath())
}

func (r Runtime) readPID() (int, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(r.PIDPath)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", r.PIDPath)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// FetchStatus asks the daemon at addr for its /v1/status.
func FetchStatus(ctx context.Context, addr string) (Status, error) {
	var st Status

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("daemon status: HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("daemon status: %w", err)
	}
	return st, nil
}
