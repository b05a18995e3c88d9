package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/barkeep/internal/config"
	"github.com/verte-zerg/barkeep/internal/control"
	"github.com/verte-zerg/barkeep/internal/keys"
	"github.com/verte-zerg/barkeep/internal/logging"
	"github.com/verte-zerg/barkeep/internal/store"
	"github.com/verte-zerg/barkeep/internal/waybar"
	"github.com/verte-zerg/barkeep/internal/wpm"
)

const (
	defaultMaxUnits = 3
	defaultMinUnits = 1

	displayTick    = 100 * time.Millisecond
	terminateGrace = 2 * time.Second
)

var (
	keysTimeout  float64
	keysMaxUnits int
	keysMinUnits int
	keysMode     string
	keysWaybar   bool
	keysWPM      float64
	keysGauge    bool
	keysRTL      bool
	keysSMTKBin  string
)

func newKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Keystroke display for the status bar",
		Args:  cobra.NoArgs,
		RunE:  runKeysCmd,
	}

	keysCmd.Flags().Float64Var(&keysTimeout, "timeout", 0, "seconds before output vanishes (0 disables)")
	keysCmd.Flags().IntVar(&keysMaxUnits, "max-units", defaultMaxUnits, "maximum accumulated key units before evicting the oldest")
	keysCmd.Flags().IntVar(&keysMinUnits, "min-units", defaultMinUnits, "minimum display cells per single key")
	keysCmd.Flags().StringVar(&keysMode, "mode", "compose", "display mode: compose, compact, or raw")
	keysCmd.Flags().BoolVar(&keysWaybar, "waybar", false, "output JSON for waybar with pango markup")
	keysCmd.Flags().Float64Var(&keysWPM, "wpm", 0, "enable WPM tracking with the given die time in seconds (0 disables)")
	keysCmd.Flags().BoolVar(&keysGauge, "gauge", false, "color the newest key by typing speed (needs --waybar and --wpm)")
	keysCmd.Flags().BoolVar(&keysRTL, "rtl", false, "display keystrokes right to left (latest on the right)")
	keysCmd.Flags().StringVar(&keysSMTKBin, "smtk-bin", "showmethekey-cli", "showmethekey-cli binary name or path")

	keysCmd.AddCommand(newKeysPasswordCmd())
	keysCmd.AddCommand(newKeysStatsCmd())

	return keysCmd
}

func runKeysCmd(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "timeout", &keysTimeout, fileCfg.Keys.Timeout)
	applyIntConfig(cmd, "max-units", &keysMaxUnits, fileCfg.Keys.MaxUnits)
	applyIntConfig(cmd, "min-units", &keysMinUnits, fileCfg.Keys.MinUnits)
	applyStringConfig(cmd, "mode", &keysMode, fileCfg.Keys.Mode)
	applyFloatConfig(cmd, "wpm", &keysWPM, fileCfg.Keys.WPM)
	applyBoolConfig(cmd, "gauge", &keysGauge, fileCfg.Keys.Gauge)
	applyBoolConfig(cmd, "rtl", &keysRTL, fileCfg.Keys.RTL)
	applyStringConfig(cmd, "smtk-bin", &keysSMTKBin, fileCfg.Keys.SMTKBin)

	if !cmd.Flags().Changed("smtk-bin") {
		if v := config.EnvOverride(config.EnvSMTKBin); v != "" {
			keysSMTKBin = v
		}
	}

	mode, ok := keys.ParseMode(keysMode)
	if !ok {
		return fmt.Errorf("invalid --mode %q (use compose, compact, or raw)", keysMode)
	}
	if keysMaxUnits < 1 {
		return fmt.Errorf("--max-units must be >= 1")
	}

	// The gauge needs both a pango target and a speed source.
	gauge := keysGauge && keysWaybar && keysWPM > 0

	var st *store.Store
	var tracker *wpm.Tracker
	if keysWPM > 0 {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			log.Warn("session persistence disabled", logging.F("error", err))
			st = nil
		}
		tracker = wpm.NewTracker(time.Duration(keysWPM*float64(time.Second)), func(s wpm.Session) {
			if st == nil {
				return
			}
			if _, err := st.InsertSession(context.Background(), s); err != nil {
				log.Warn("failed to persist typing session", logging.F("error", err))
			}
		})
	}
	defer func() {
		if st != nil {
			if cerr := st.Close(); cerr != nil {
				log.Warn("failed to close db", logging.F("error", cerr))
			}
		}
	}()

	acc := keys.NewAccumulator(keys.Options{
		Timeout:  time.Duration(keysTimeout * float64(time.Second)),
		MaxUnits: keysMaxUnits,
		MinUnits: keysMinUnits,
		Mode:     mode,
	}, tracker)

	display := &keysDisplay{
		out:      cmd.OutOrStdout(),
		waybar:   keysWaybar,
		acc:      acc,
		renderer: &keys.Renderer{RTL: keysRTL, Gauge: gauge},
		password: keys.NewPasswordMode(time.Now().UnixNano()),
	}

	child := exec.Command(keysSMTKBin)
	stdout, err := child.StdoutPipe()
	if err != nil {
		return err
	}
	if err := child.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			if keysWaybar {
				line := waybar.Output{Text: "❌ " + keysSMTKBin + " not found"}.Line()
				if _, werr := fmt.Fprintln(cmd.OutOrStdout(), line); werr != nil {
					return werr
				}
			}
			return fmt.Errorf("%s not found, install showmethekey", keysSMTKBin)
		}
		return fmt.Errorf("failed to start %s: %w", keysSMTKBin, err)
	}

	// Waybar needs an initial payload before the first keystroke.
	if keysWaybar {
		display.emit()
	}

	srv, err := control.Listen(config.DefaultSocketPath(), log)
	if err != nil {
		log.Warn("control socket unavailable", logging.F("error", err))
	} else {
		go srv.Serve(func(c control.Command) {
			switch c.Password {
			case "on":
				display.password.Enable()
			case "off":
				display.password.Disable()
			case "toggle":
				display.password.Toggle()
			default:
				log.Warn("unknown control command", logging.F("password", c.Password))
				return
			}
			display.emit()
		})
		defer func() {
			if cerr := srv.Close(); cerr != nil {
				log.Warn("failed to close control socket", logging.F("error", cerr))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGUSR1:
				display.password.Toggle()
				display.emit()
			case syscall.SIGUSR2:
				display.password.Disable()
				display.emit()
			default:
				// Killing the child closes the pipe and unwinds the read loop.
				terminateChild(child, log)
				return
			}
		}
	}()

	tickerDone := make(chan struct{})
	defer close(tickerDone)
	go func() {
		ticker := time.NewTicker(displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-tickerDone:
				return
			case now := <-ticker.C:
				changed := acc.ExpireIfIdle(now)
				if tracker != nil && tracker.CloseIdle(now) {
					changed = true
				}
				if changed {
					display.emit()
				}
			}
		}
	}()

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		ev, ok := keys.ParseEvent(scanner.Text())
		if !ok || keys.Blocked(ev.KeyName) {
			continue
		}

		if display.password.Active() {
			if ev.StateName == keys.StatePressed {
				display.password.Advance()
			}
			display.emit()
			continue
		}

		if acc.HandleEvent(ev, time.Now()) {
			display.emit()
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("event stream ended", logging.F("error", err))
	}

	terminateChild(child, log)
	if tracker != nil {
		tracker.Flush()
	}
	return nil
}

// keysDisplay serializes status line output. The event loop, the timer, the
// signal handler, and the control server all emit through it.
type keysDisplay struct {
	mu       sync.Mutex
	out      io.Writer
	waybar   bool
	acc      *keys.Accumulator
	renderer *keys.Renderer
	password *keys.PasswordMode
}

func (d *keysDisplay) emit() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	var line string
	switch {
	case d.password.Active() && d.waybar:
		tip := ""
		if d.acc.Tracker() != nil {
			tip = keys.WPMTooltip(d.acc.Tracker(), now)
		}
		line = d.password.WaybarFrame(tip)
	case d.password.Active():
		line = d.password.PlainFrame()
	case d.waybar:
		line = d.renderer.Waybar(d.acc.Units(), d.acc.Tracker(), now)
	default:
		line = d.renderer.Plain(d.acc.Units())
	}
	if _, err := fmt.Fprintln(d.out, line); err != nil {
		// Broken stdout means the bar is gone; nothing useful to do.
		_ = err
	}
}

// terminateChild asks the subprocess to exit and kills it after a grace
// period. Safe to call more than once.
func terminateChild(child *exec.Cmd, log *logging.Logger) {
	if child.Process == nil {
		return
	}
	if err := child.Process.Signal(syscall.SIGTERM); err != nil {
		return
	}
	waited := make(chan struct{})
	go func() {
		_, _ = child.Process.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(terminateGrace):
		if err := child.Process.Kill(); err != nil {
			log.Warn("failed to kill event source", logging.F("error", err))
		}
	}
}

func newKeysPasswordCmd() *cobra.Command {
	passwordCmd := &cobra.Command{
		Use:       "password [on|off|toggle]",
		Short:     "Control keystroke hiding in a running instance",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE:      runKeysPasswordCmd,
	}
	passwordCmd.Flags().BoolVar(&keysWaybar, "waybar", false, "print waybar feedback for the expected state")
	return passwordCmd
}

func runKeysPasswordCmd(cmd *cobra.Command, args []string) error {
	action := "toggle"
	if len(args) == 1 {
		action = args[0]
	}

	if err := control.Send(config.DefaultSocketPath(), control.Command{Password: action}); err != nil {
		return err
	}

	if keysWaybar {
		out := waybar.Output{Text: "🔒 ( &gt; _ &lt; )"}
		if action == "off" {
			out = waybar.Output{Text: "⌨️"}
		}
		_, werr := fmt.Fprintln(cmd.OutOrStdout(), out.Line())
		return werr
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Sent password %s\n", action)
	return err
}
