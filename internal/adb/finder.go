package adb

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// FindADB attempts to locate the ADB executable. preferred may be the
// binary itself or an SDK folder holding platform-tools/adb.
func FindADB(preferred string) (string, error) {
	exe := "adb"
	if runtime.GOOS == "windows" {
		exe = "adb.exe"
	}

	var candidates []string
	if preferred != "" {
		candidates = append(candidates,
			preferred,
			filepath.Join(preferred, exe),
			filepath.Join(preferred, "platform-tools", exe),
		)
	}
	if sdk := os.Getenv("ANDROID_HOME"); sdk != "" {
		candidates = append(candidates, filepath.Join(sdk, "platform-tools", exe))
	}
	if runtime.GOOS == "windows" {
		candidates = append(candidates,
			os.ExpandEnv(`${LOCALAPPDATA}\Android\Sdk\platform-tools\adb.exe`),
			`C:\Android\sdk\platform-tools\adb.exe`,
		)
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, "Android", "Sdk", "platform-tools", exe),
			filepath.Join(home, "Library", "Android", "sdk", "platform-tools", exe),
			"/usr/local/bin/adb",
			"/usr/bin/adb",
		)
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	if path, err := exec.LookPath(exe); err == nil {
		return path, nil
	}
	if preferred != "" {
		return "", fmt.Errorf("adb not found at %s or in PATH", preferred)
	}
	return "", fmt.Errorf("adb not found, please specify adb_path in config")
}

// Device is one entry of `adb devices`
type Device struct {
	Serial string
	State  string
}

// ListDevices returns the devices known to the adb server
func (c *Controller) ListDevices(ctx context.Context) ([]Device, error) {
	output, err := c.invoke(ctx, "devices")
	if err != nil {
		return nil, err
	}
	return parseDevices(output), nil
}

func parseDevices(output string) []Device {
	var devices []Device
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{Serial: fields[0], State: fields[1]})
	}
	return devices
}

// SelectDevice pins the controller to a device when no serial was
// configured. Exactly one ready device must be attached.
func (c *Controller) SelectDevice(ctx context.Context) (string, error) {
	if c.serial != "" {
		return c.serial, nil
	}

	devices, err := c.ListDevices(ctx)
	if err != nil {
		return "", err
	}

	var ready []string
	for _, d := range devices {
		if d.State == "device" {
			ready = append(ready, d.Serial)
		}
	}
	switch len(ready) {
	case 0:
		return "", fmt.Errorf("no device attached")
	case 1:
		c.serial = ready[0]
		return c.serial, nil
	default:
		return "", fmt.Errorf("%d devices attached (%s), set device_serial", len(ready), strings.Join(ready, ", "))
	}
}

// ConnectADB is a helper function to find adb and connect to the device
func ConnectADB(ctx context.Context, adbPath, serial string, timeout time.Duration) (*Controller, error) {
	path, err := FindADB(adbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find ADB: %w", err)
	}

	ctrl := NewController(path, serial, timeout)
	if _, err := ctrl.SelectDevice(ctx); err != nil {
		return nil, fmt.Errorf("failed to select device: %w", err)
	}
	if err := ctrl.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to device: %w", err)
	}
	return ctrl, nil
}
