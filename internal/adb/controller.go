package adb

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"jordanella.com/autojump-go/internal/logging"
)

// DefaultTimeout bounds every adb invocation unless overridden
const DefaultTimeout = 30 * time.Second

// Runner executes one adb process and returns its combined output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ADB controller type and lifecycle
type Controller struct {
	path    string
	serial  string // empty: the single attached device
	timeout time.Duration
	run     Runner
	mu      sync.Mutex
	logger  *logging.Logger
}

// NewController creates a new ADB controller. A zero timeout disables the
// per-command deadline.
func NewController(adbPath, serial string, timeout time.Duration) *Controller {
	return &Controller{
		path:    adbPath,
		serial:  serial,
		timeout: timeout,
		run:     execRunner,
		logger:  logging.NewLogger("ADB"),
	}
}

// WithRunner replaces the process runner
func (c *Controller) WithRunner(run Runner) *Controller {
	c.run = run
	return c
}

// Serial returns the target device serial, empty when unset
func (c *Controller) Serial() string {
	return c.serial
}

// Connect makes sure the device is reachable. Network serials
// ("host:port") are connected first.
func (c *Controller) Connect(ctx context.Context) error {
	if strings.Contains(c.serial, ":") {
		output, err := c.invoke(ctx, "connect", c.serial)
		if err != nil {
			return fmt.Errorf("failed to connect to device %s: %w", c.serial, err)
		}
		if !strings.Contains(output, "connected") {
			return fmt.Errorf("unexpected connect output: %s", output)
		}
	}

	state, err := c.command(ctx, "get-state")
	if err != nil {
		return fmt.Errorf("device not reachable: %w", err)
	}
	if state != "device" {
		return fmt.Errorf("device in unexpected state %q", state)
	}
	return nil
}

// command runs adb against the target device
func (c *Controller) command(ctx context.Context, args ...string) (string, error) {
	if c.serial != "" {
		args = append([]string{"-s", c.serial}, args...)
	}
	return c.invoke(ctx, args...)
}

// invoke runs adb with the given arguments under the controller timeout.
// Calls are serialized.
func (c *Controller) invoke(ctx context.Context, args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.DebugWithContext("adb", map[string]interface{}{"args": strings.Join(args, " ")})

	output, err := c.run(ctx, c.path, args...)
	text := strings.TrimSpace(string(output))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("adb %s timed out after %v", args[0], c.timeout)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("adb %s failed: %w, output: %s", strings.Join(args, " "), err, text)
	}
	return text, nil
}
