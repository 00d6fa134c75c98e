package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	arg "github.com/alexflint/go-arg"

	"jordanella.com/autojump-go/internal/adb"
	"jordanella.com/autojump-go/internal/bot"
	"jordanella.com/autojump-go/internal/config"
	"jordanella.com/autojump-go/internal/cv"
	"jordanella.com/autojump-go/internal/logging"
)

var version = "<not set>"

type Args struct {
	ConfigFile  string `arg:"-c,--config" help:"path to an INI or YAML configuration file"`
	EnvFile     string `arg:"--env-file" help:"optional .env file with AUTOJUMP_* overrides"`
	Template    string `arg:"-t,--template" help:"template image of the player piece"`
	ADB         string `arg:"--adb" help:"adb binary or SDK folder"`
	Serial      string `arg:"-s,--serial" help:"device serial, e.g. emulator-5554 or 127.0.0.1:5555"`
	Input       string `arg:"-i,--input" help:"measure a saved screenshot and exit, no device needed"`
	Once        bool   `arg:"--once" help:"play a single jump and exit"`
	DebugDir    string `arg:"--debug-dir" help:"write annotated edge maps to this directory"`
	WriteConfig string `arg:"--write-config" help:"write the effective configuration as INI and exit"`
	Verbose     bool   `arg:"-v,--verbose" help:"make logging more verbose"`
}

func (Args) Version() string {
	return version
}

func (Args) Description() string {
	return "autojump plays the jump game over adb: it measures the gap on screen and holds the press for as long as the jump needs."
}

func procArgs() Args {
	var args Args
	args.EnvFile = ".env"
	arg.MustParse(&args)
	return args
}

func main() {
	if err := runMain(); err != nil {
		fmt.Fprintln(os.Stderr, "autojump:", err)
		os.Exit(1)
	}
}

func runMain() error {
	args := procArgs()

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	if args.WriteConfig != "" {
		if err := config.SaveToINI(cfg, args.WriteConfig); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Println("wrote", args.WriteConfig)
		return nil
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Init(logging.Options{Level: level, File: cfg.LogFile})
	logger := logging.NewLogger("Main")
	logger.InfoWithContext("Running", map[string]interface{}{"version": version})

	template, err := cv.LoadTemplate(cfg.TemplatePath, cfg.TemplateScale)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}
	defer template.Close()
	logger.InfoWithContext("Template loaded", map[string]interface{}{
		"path": template.Path,
		"size": fmt.Sprintf("%dx%d", template.Width, template.Height),
	})

	cvOpts, err := cfg.CVOptions()
	if err != nil {
		return err
	}
	detector := cv.NewService(template, cvOpts)
	mapper := bot.NewDurationMapper(cfg.DurationCoeff, cfg.JitterRange)

	area, err := cfg.PressRect()
	if err != nil {
		return err
	}
	opts := bot.Options{
		PressArea:  area,
		CycleDelay: cfg.CycleDelay,
		DebugDir:   cfg.DebugDir,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args.Input != "" {
		return measureFile(ctx, args.Input, detector, mapper, opts)
	}

	ctrl, err := adb.ConnectADB(ctx, cfg.ADBPath, cfg.DeviceSerial, cfg.ADBTimeout)
	if err != nil {
		return err
	}
	logger.InfoWithContext("Device ready", map[string]interface{}{"serial": ctrl.Serial()})

	if dir := path.Dir(cfg.RemoteScreenshot); dir != "/" && dir != "." {
		if err := ctrl.Mkdir(ctx, dir); err != nil {
			return err
		}
	}

	capturer := adb.NewScreenCapturer(ctrl, cfg.RemoteScreenshot, cfg.LocalScreenshot)
	b := bot.New(capturer, detector, ctrl, mapper, opts)

	if args.Once {
		result, err := b.RunOnce(ctx)
		if err != nil {
			return err
		}
		logger.InfoWithContext("Jumped", resultFields(result))
		return nil
	}

	err = b.Run(ctx)
	logger.Info("Finished: " + b.Stats().String())
	return err
}

// loadConfig layers the config file, the environment and the command line
func loadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, args.EnvFile); err != nil {
		return nil, err
	}

	if args.Template != "" {
		cfg.TemplatePath = args.Template
	}
	if args.ADB != "" {
		cfg.ADBPath = args.ADB
	}
	if args.Serial != "" {
		cfg.DeviceSerial = args.Serial
	}
	if args.DebugDir != "" {
		cfg.DebugDir = args.DebugDir
	}
	if args.Verbose {
		cfg.LogLevel = string(logging.LogLevelDebug)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// measureFile runs one detection pass over a saved screenshot
func measureFile(ctx context.Context, input string, detector *cv.Service, mapper *bot.DurationMapper, opts bot.Options) error {
	b := bot.New(&cv.FileCapturer{Path: input}, detector, nil, mapper, opts)
	result, err := b.RunOnce(ctx)
	if err != nil {
		var unavailable *cv.CaptureUnavailableError
		if errors.As(err, &unavailable) {
			return fmt.Errorf("cannot read %s: %w", input, unavailable.Err)
		}
		return err
	}

	m := result.Measurement
	fmt.Printf("object   (%d,%d)-(%d,%d) confidence %.3f\n", m.Box.X1, m.Box.Y1, m.Box.X2, m.Box.Y2, m.Confidence)
	fmt.Printf("launch   (%d,%d)\n", m.Launch.X, m.Launch.Y)
	fmt.Printf("center   (%d,%d)\n", m.Center.X, m.Center.Y)
	fmt.Printf("distance %.2f px\n", m.Distance)
	fmt.Printf("duration %d ms\n", result.PressMs)
	if result.DebugImage != "" {
		fmt.Printf("debug    %s\n", result.DebugImage)
	}
	return nil
}

func resultFields(r *bot.CycleResult) map[string]interface{} {
	return map[string]interface{}{
		"cycle":    r.ID[:8],
		"distance": fmt.Sprintf("%.2f", r.Measurement.Distance),
		"duration": r.PressMs,
		"press":    fmt.Sprintf("(%d,%d)", r.PressPoint.X, r.PressPoint.Y),
	}
}
