package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"jordanella.com/autojump-go/internal/adb"
	"jordanella.com/autojump-go/internal/cv"
)

// SectionName is the INI section holding all settings
const SectionName = "AutoJump"

// Config holds every tunable of the jump bot
type Config struct {
	// Detection
	TemplatePath      string  `ini:"template_path" yaml:"template_path" validate:"required"`
	TemplateScale     float64 `ini:"template_scale" yaml:"template_scale" validate:"gt=0"`
	BlurKernel        int     `ini:"blur_kernel" yaml:"blur_kernel" validate:"min=1,odd"`
	EdgeLowThreshold  float64 `ini:"edge_low_threshold" yaml:"edge_low_threshold" validate:"gte=0"`
	EdgeHighThreshold float64 `ini:"edge_high_threshold" yaml:"edge_high_threshold" validate:"gtfield=EdgeLowThreshold"`
	ScanBandStartFrac float64 `ini:"scan_band_start_frac" yaml:"scan_band_start_frac" validate:"gte=0,lt=1"`
	ScanBandEndFrac   float64 `ini:"scan_band_end_frac" yaml:"scan_band_end_frac" validate:"lte=1,gtfield=ScanBandStartFrac"`
	RunPolicy         string  `ini:"run_policy" yaml:"run_policy" validate:"runpolicy"`
	MinConfidence     float64 `ini:"min_confidence" yaml:"min_confidence" validate:"gte=0,lte=1"`

	// Timing
	DurationCoeff float64       `ini:"duration_coeff" yaml:"duration_coeff" validate:"gt=0"`
	JitterRange   int           `ini:"jitter_range" yaml:"jitter_range" validate:"gte=0"`
	CycleDelay    time.Duration `ini:"cycle_delay" yaml:"cycle_delay" validate:"gte=0"`

	// Device
	ADBPath          string        `ini:"adb_path" yaml:"adb_path"`
	DeviceSerial     string        `ini:"device_serial" yaml:"device_serial"`
	ADBTimeout       time.Duration `ini:"adb_timeout" yaml:"adb_timeout" validate:"gte=0"`
	RemoteScreenshot string        `ini:"remote_screenshot" yaml:"remote_screenshot" validate:"required,startswith=/"`
	LocalScreenshot  string        `ini:"local_screenshot" yaml:"local_screenshot" validate:"required"`
	PressArea        string        `ini:"press_area" yaml:"press_area" validate:"pressarea"`

	// Output
	DebugDir string `ini:"debug_dir" yaml:"debug_dir"`
	LogLevel string `ini:"log_level" yaml:"log_level" validate:"loglevel"`
	LogFile  string `ini:"log_file" yaml:"log_file"`
}

// NewDefaultConfig creates a config with default values
func NewDefaultConfig() *Config {
	return &Config{
		TemplatePath:      "obj.png",
		TemplateScale:     1,
		BlurKernel:        3,
		EdgeLowThreshold:  50,
		EdgeHighThreshold: 150,
		ScanBandStartFrac: 0.25,
		ScanBandEndFrac:   0.5,
		RunPolicy:         string(cv.RunPolicyLegacy),
		MinConfidence:     0,
		DurationCoeff:     1.448,
		JitterRange:       10,
		CycleDelay:        time.Second,
		ADBPath:           "",
		DeviceSerial:      "",
		ADBTimeout:        adb.DefaultTimeout,
		RemoteScreenshot:  adb.DefaultRemoteScreenshot,
		LocalScreenshot:   adb.DefaultLocalScreenshot,
		PressArea:         "0,600,1000,1500",
		DebugDir:          "",
		LogLevel:          "INFO",
		LogFile:           "",
	}
}

// CVOptions converts the detection settings for the measurement pipeline
func (c *Config) CVOptions() (cv.Options, error) {
	policy, err := cv.ParseRunPolicy(c.RunPolicy)
	if err != nil {
		return cv.Options{}, err
	}
	return cv.Options{
		Edge: cv.EdgeConfig{
			BlurKernel:    c.BlurKernel,
			LowThreshold:  float32(c.EdgeLowThreshold),
			HighThreshold: float32(c.EdgeHighThreshold),
		},
		Band: cv.ScanBand{
			StartFrac: c.ScanBandStartFrac,
			EndFrac:   c.ScanBandEndFrac,
		},
		Policy:        policy,
		MinConfidence: c.MinConfidence,
	}, nil
}

// PressRect parses press_area, "minX,minY,maxX,maxY" with exclusive maxima
func (c *Config) PressRect() (adb.Area, error) {
	return ParseArea(c.PressArea)
}

// ParseArea parses "minX,minY,maxX,maxY" into a non-empty area
func ParseArea(s string) (adb.Area, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return adb.Area{}, fmt.Errorf("area %q: want minX,minY,maxX,maxY", s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return adb.Area{}, fmt.Errorf("area %q: %w", s, err)
		}
		v[i] = n
	}

	area := adb.Area{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]}
	if area.MinX < 0 || area.MinY < 0 || area.MaxX <= area.MinX || area.MaxY <= area.MinY {
		return adb.Area{}, fmt.Errorf("area %q is empty or negative", s)
	}
	return area, nil
}
