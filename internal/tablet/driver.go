package tablet

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/barkeep/internal/logging"
)

// ErrDriverNotFound means the otd executable is not installed. It is fatal:
// no amount of retrying will make the binary appear.
var ErrDriverNotFound = errors.New("otd executable not found")

const (
	settingsMarker = "--- Profile for"

	settingsRetries = 5
	settingsTimeout = 15 * time.Second
	commandRetries  = 3
	commandTimeout  = 10 * time.Second
	retryBackoff    = 6 * time.Second
)

// RunFunc executes one driver invocation and returns its trimmed stdout.
type RunFunc func(ctx context.Context, bin string, args ...string) (string, error)

// Driver invokes the OpenTabletDriver CLI with retry, backoff, and a
// per-process settings cache.
type Driver struct {
	bin     string
	run     RunFunc
	backoff time.Duration
	log     *logging.Logger

	mu       sync.Mutex
	fetched  bool
	settings *Settings
	lastErr  error
}

// NewDriver builds a Driver for the given otd binary name or path.
func NewDriver(bin string, log *logging.Logger) *Driver {
	if bin == "" {
		bin = "otd"
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Driver{bin: bin, run: runCommand, backoff: retryBackoff, log: log}
}

// SetRunner replaces the subprocess runner; tests use this together with
// SetBackoff(0).
func (d *Driver) SetRunner(run RunFunc) { d.run = run }

// SetBackoff overrides the retry backoff.
func (d *Driver) SetBackoff(backoff time.Duration) { d.backoff = backoff }

func runCommand(ctx context.Context, bin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrDriverNotFound
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s: %s", bin, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Settings returns the parsed getallsettings snapshot. The first call does
// the work; every later call in the same process returns the cached result,
// success or failure, so otd runs at most once per invocation.
func (d *Driver) Settings(ctx context.Context) (*Settings, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fetched {
		return d.settings, d.lastErr
	}
	d.fetched = true

	out, err := d.command(ctx, settingsRetries, settingsTimeout, validateSettingsOutput, "getallsettings")
	if err != nil {
		d.lastErr = err
		return nil, err
	}
	settings := ParseSettings(out)
	if !settings.Complete() {
		d.lastErr = errors.New("driver returned incomplete tablet information")
		return nil, d.lastErr
	}
	d.settings = settings
	return settings, nil
}

// ApplyPreset applies a named preset via otd.
func (d *Driver) ApplyPreset(ctx context.Context, name string) error {
	_, err := d.command(ctx, commandRetries, commandTimeout, nil, "applypreset", name)
	return err
}

// command runs one otd invocation with retries and fixed backoff. A nil
// validate accepts any successful run. Not-found errors abort immediately.
func (d *Driver) command(ctx context.Context, retries int, timeout time.Duration, validate func(string) error, args ...string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			d.log.Debug("retrying driver command", logging.F("args", strings.Join(args, " ")), logging.F("attempt", attempt+1))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(d.backoff):
			}
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		out, err := d.run(attemptCtx, d.bin, args...)
		cancel()
		if err != nil {
			if errors.Is(err, ErrDriverNotFound) {
				return "", err
			}
			lastErr = err
			continue
		}
		if validate != nil {
			if err := validate(out); err != nil {
				lastErr = err
				continue
			}
		}
		return out, nil
	}
	if lastErr == nil {
		lastErr = errors.New("driver command failed")
	}
	return "", fmt.Errorf("driver command failed after %d attempts: %w", retries, lastErr)
}

func validateSettingsOutput(out string) error {
	if out == "" || !strings.Contains(out, settingsMarker) {
		return errors.New("driver returned incomplete settings")
	}
	return nil
}
