package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. AUTOJUMP_DEVICE_SERIAL
const EnvPrefix = "AUTOJUMP_"

// Load reads a config file, choosing the format from its extension.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return NewDefaultConfig(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadFromYAML(path)
	default:
		return LoadFromINI(path)
	}
}

// LoadFromINI loads configuration from the [AutoJump] section of an INI
// file. Missing or unparsable keys keep their defaults.
func LoadFromINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := NewDefaultConfig()
	applySection(config, file.Section(SectionName))
	return config, nil
}

// LoadFromYAML loads configuration from a flat YAML mapping
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := NewDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// applySection overlays every key present in section onto config
func applySection(config *Config, section *ini.Section) {
	// Detection
	config.TemplatePath = section.Key("template_path").MustString(config.TemplatePath)
	config.TemplateScale = section.Key("template_scale").MustFloat64(config.TemplateScale)
	config.BlurKernel = section.Key("blur_kernel").MustInt(config.BlurKernel)
	config.EdgeLowThreshold = section.Key("edge_low_threshold").MustFloat64(config.EdgeLowThreshold)
	config.EdgeHighThreshold = section.Key("edge_high_threshold").MustFloat64(config.EdgeHighThreshold)
	config.ScanBandStartFrac = section.Key("scan_band_start_frac").MustFloat64(config.ScanBandStartFrac)
	config.ScanBandEndFrac = section.Key("scan_band_end_frac").MustFloat64(config.ScanBandEndFrac)
	config.RunPolicy = section.Key("run_policy").MustString(config.RunPolicy)
	config.MinConfidence = section.Key("min_confidence").MustFloat64(config.MinConfidence)

	// Timing
	config.DurationCoeff = section.Key("duration_coeff").MustFloat64(config.DurationCoeff)
	config.JitterRange = section.Key("jitter_range").MustInt(config.JitterRange)
	config.CycleDelay = section.Key("cycle_delay").MustDuration(config.CycleDelay)

	// Device
	config.ADBPath = section.Key("adb_path").MustString(config.ADBPath)
	config.DeviceSerial = section.Key("device_serial").MustString(config.DeviceSerial)
	config.ADBTimeout = section.Key("adb_timeout").MustDuration(config.ADBTimeout)
	config.RemoteScreenshot = section.Key("remote_screenshot").MustString(config.RemoteScreenshot)
	config.LocalScreenshot = section.Key("local_screenshot").MustString(config.LocalScreenshot)
	config.PressArea = section.Key("press_area").MustString(config.PressArea)

	// Output
	config.DebugDir = section.Key("debug_dir").MustString(config.DebugDir)
	config.LogLevel = section.Key("log_level").MustString(config.LogLevel)
	config.LogFile = section.Key("log_file").MustString(config.LogFile)
}

// ApplyEnv overlays AUTOJUMP_* environment variables onto config. When
// envFile exists it is loaded first; variables already set in the
// environment take precedence over the file.
func ApplyEnv(config *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	section := ini.Empty().Section(SectionName)
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) || value == "" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if _, err := section.NewKey(key, value); err != nil {
			return fmt.Errorf("invalid override %s: %w", name, err)
		}
	}
	applySection(config, section)
	return nil
}

// SaveToINI saves configuration to an INI file
func SaveToINI(config *Config, path string) error {
	file := ini.Empty()
	section := file.Section(SectionName)

	// Detection
	section.Key("template_path").SetValue(config.TemplatePath)
	section.Key("template_scale").SetValue(fmt.Sprintf("%g", config.TemplateScale))
	section.Key("blur_kernel").SetValue(fmt.Sprintf("%d", config.BlurKernel))
	section.Key("edge_low_threshold").SetValue(fmt.Sprintf("%g", config.EdgeLowThreshold))
	section.Key("edge_high_threshold").SetValue(fmt.Sprintf("%g", config.EdgeHighThreshold))
	section.Key("scan_band_start_frac").SetValue(fmt.Sprintf("%g", config.ScanBandStartFrac))
	section.Key("scan_band_end_frac").SetValue(fmt.Sprintf("%g", config.ScanBandEndFrac))
	section.Key("run_policy").SetValue(config.RunPolicy)
	section.Key("min_confidence").SetValue(fmt.Sprintf("%g", config.MinConfidence))

	// Timing
	section.Key("duration_coeff").SetValue(fmt.Sprintf("%g", config.DurationCoeff))
	section.Key("jitter_range").SetValue(fmt.Sprintf("%d", config.JitterRange))
	section.Key("cycle_delay").SetValue(config.CycleDelay.String())

	// Device
	section.Key("adb_path").SetValue(config.ADBPath)
	section.Key("device_serial").SetValue(config.DeviceSerial)
	section.Key("adb_timeout").SetValue(config.ADBTimeout.String())
	section.Key("remote_screenshot").SetValue(config.RemoteScreenshot)
	section.Key("local_screenshot").SetValue(config.LocalScreenshot)
	section.Key("press_area").SetValue(config.PressArea)

	// Output
	section.Key("debug_dir").SetValue(config.DebugDir)
	section.Key("log_level").SetValue(config.LogLevel)
	section.Key("log_file").SetValue(config.LogFile)

	return file.SaveTo(path)
}
