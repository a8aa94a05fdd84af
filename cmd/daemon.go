package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/config"
	"github.com/theirongolddev/budgetpulse/internal/daemon"
	"github.com/theirongolddev/budgetpulse/internal/notify"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
	flagDaemonNoPublish    bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background insights daemon with HTTP/SSE endpoints",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "budgetpulsed.pid")
	defaultLog := filepath.Join(config.DataDir(), "budgetpulsed.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonNoPublish, "no-publish", false, "Do not publish insight changes to AMQP")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func daemonRuntime() daemon.Runtime {
	return daemon.Runtime{PIDPath: flagDaemonPIDFile}
}

func daemonAddr() string {
	if flagDaemonAddr != "" {
		return flagDaemonAddr
	}
	return appConfig.Daemon.Addr
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground()
}

func startDaemonDetached() error {
	if err := daemonRuntime().CheckFree(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonPIDFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", daemonAddr())
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

// newPublisher connects to the configured broker. A broker that cannot be
// reached disables publishing rather than stopping the daemon.
func newPublisher() notify.Publisher {
	if flagDaemonNoPublish {
		return nil
	}
	u := config.GetAMQPURL(appConfig)
	if u == "" {
		return nil
	}
	pub, err := notify.NewAMQPPublisher(u, appConfig.Notify.Exchange, appConfig.Notify.RoutingKey)
	if err != nil {
		slog.Warn("amqp publishing disabled", "err", err)
		return nil
	}
	slog.Info("publishing insight changes", "exchange", appConfig.Notify.Exchange)
	return pub
}

func runDaemonForeground() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	addr := daemonAddr()
	release, err := daemonRuntime().Acquire(daemon.State{
		Addr:      addr,
		StartedAt: time.Now(),
		DBPath:    st.Path(),
	})
	if err != nil {
		return err
	}
	defer release()

	interval := flagDaemonInterval
	if interval <= 0 {
		interval = time.Duration(appConfig.Daemon.IntervalSec) * time.Second
	}
	events := flagDaemonEventsBuffer
	if events <= 0 {
		events = appConfig.Daemon.EventsBuffer
	}

	cfg := daemon.Config{
		DBPath:       st.Path(),
		Interval:     interval,
		Addr:         addr,
		EventsBuffer: events,
		Horizon:      configHorizon(),
	}
	if pub := newPublisher(); pub != nil {
		cfg.Publisher = pub
		defer func() { _ = pub.Close() }()
	}
	svc := daemon.New(cfg, st)

	fmt.Printf("  budgetpulse daemon listening on http://%s\n", addr)
	fmt.Printf("  Polling every %s from %s\n", interval, st.Path())
	fmt.Printf("  Stop with: budgetpulse daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runningDaemonAddr returns the address recorded by a live daemon, or the
// configured one.
func runningDaemonAddr() string {
	if st, err := daemonRuntime().Lookup(); err == nil && st.Addr != "" {
		return st.Addr
	}
	return daemonAddr()
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	state, err := daemonRuntime().Lookup()
	if err != nil {
		fmt.Printf("  Daemon: %v\n", err)
		return nil
	}

	addr := state.Addr
	if addr == "" {
		addr = daemonAddr()
	}
	fmt.Printf("  Daemon PID: %d\n", state.PID)
	fmt.Printf("  Address: http://%s\n", addr)
	if !state.StartedAt.IsZero() {
		fmt.Printf("  Up since: %s\n", state.StartedAt.Local().Format(time.DateTime))
	}

	st, err := daemon.FetchStatus(cmd.Context(), addr)
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	printDaemonStatus(st)
	return nil
}

func printDaemonStatus(st daemon.Status) {
	sum := st.Summary
	lastPoll := "pending"
	if !st.LastPollAt.IsZero() {
		lastPoll = st.LastPollAt.Local().Format(time.DateTime)
	}
	publishing := "off"
	if st.Publishing {
		publishing = "publishing"
	}

	rows := [][]string{
		{"Last poll", lastPoll},
		{"Polls", fmt.Sprintf("%d (%d recomputes)", st.PollCount, st.RecomputeCount)},
		{"Database", fmt.Sprintf("%s (rev %d)", st.DBPath, sum.Revision)},
		{"Month", sum.Month},
		{"Income", money(sum.Income)},
		{"Expenses", money(sum.Expenses)},
		{"Balance", money(sum.Balance)},
		{"Health", cli.RenderScore(sum.HealthScore)},
		{"Stream", fmt.Sprintf("%d subscribers, %d events buffered", st.SubscriberCount, st.EventCount)},
		{"AMQP", publishing},
	}
	if len(sum.OverBudget) > 0 {
		rows = append(rows, []string{"Over budget", strings.Join(sum.OverBudget, ", ")})
	}
	if st.LastError != "" {
		rows = append(rows, []string{"Last error", st.LastError})
	}
	fmt.Print(cli.RenderTable(cli.Table{Title: "Daemon", Headers: []string{"Field", "Value"}, Rows: rows}))
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pid, err := daemonRuntime().Stop(8 * time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("  Stopped daemon (pid %d)\n", pid)
	return nil
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
