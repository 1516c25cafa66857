package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/gradientbg/internal/engine"
	"github.com/MeKo-Tech/gradientbg/internal/interaction"
	"github.com/MeKo-Tech/gradientbg/internal/params"
	"github.com/MeKo-Tech/gradientbg/internal/terminal"
	"github.com/MeKo-Tech/gradientbg/internal/worker"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Render the gradient live in the terminal",
	Long: `Render the gradient live in a true-color terminal.

Move the mouse to disturb the field. Keys:
  q, Esc, Ctrl-C  quit
  r               randomize the palette
  g               toggle grain
  m               cycle the pointer mode (pressure, lens, push, none)`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("fps", 30, "Target frames per second")
	runCmd.Flags().Float64("dpr", 1, "Pixel ratio of the render grid relative to terminal half-blocks (capped at 2)")
	runCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "Goroutines rendering each frame")
	runCmd.Flags().String("log-file", "", "Write logs to this file (logs are discarded otherwise)")
	runCmd.Flags().Int64("seed", 0, "Seed for palette randomization (0 uses the clock)")
	runCmd.Flags().String("frame-log", "", "Write per-frame render timings to this CSV file")
	runCmd.Flags().Float64("decay", interaction.DefaultDecay, "Pointer smoothing per frame (0.08-0.10)")
	addGradientFlags(runCmd)

	bindFlags(runCmd, []struct{ key, flag string }{
		{"run.fps", "fps"},
		{"run.dpr", "dpr"},
		{"run.workers", "workers"},
		{"run.log_file", "log-file"},
		{"run.seed", "seed"},
		{"run.frame_log", "frame-log"},
		{"run.decay", "decay"},
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	fps := viper.GetInt("run.fps")
	dpr := viper.GetFloat64("run.dpr")
	workers := viper.GetInt("run.workers")
	logFile := viper.GetString("run.log_file")
	seed := viper.GetInt64("run.seed")
	frameLogPath := viper.GetString("run.frame_log")
	decay := viper.GetFloat64("run.decay")

	// The screen owns the terminal, so logs must not go to stderr.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	initLoggingTo(logOut)

	cfg, err := loadGradientConfig(cmd)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("%w: %w", engine.ErrBackendUnavailable, err)
	}
	surface := terminal.NewSurface(screen, dpr)

	var frameLog *worker.FrameLog
	if frameLogPath != "" {
		f, err := os.Create(frameLogPath)
		if err != nil {
			return fmt.Errorf("failed to create frame log: %w", err)
		}
		defer f.Close()
		frameLog = worker.NewFrameLog(f, 60)
	}

	started := time.Now()
	meter := worker.NewFrameMeter(started)
	in, err := engine.MountConfig(terminal.Host{Surface: surface}, terminal.TargetID, cfg,
		engine.WithLogger(logger),
		engine.WithWorkers(workers),
		engine.WithDecay(decay),
		engine.WithFrameObserver(func(elapsed time.Duration, err error) {
			now := time.Now()
			meter.Observe(now, elapsed, err)
			if frameLog == nil {
				return
			}
			frames, _ := meter.Frames()
			if logErr := frameLog.Record(worker.FrameRecord{
				Frame:    frames,
				AtMS:     float64(now.Sub(started).Microseconds()) / 1000,
				RenderMS: float64(elapsed.Microseconds()) / 1000,
				FPS:      meter.FPS(),
				Failed:   err != nil,
			}); logErr != nil {
				logger.Warn("Frame log write failed", "error", logErr)
			}
		}),
	)
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = terminal.Drive(ctx, in, surface, fps, func(a terminal.Action) {
		next := applyAction(in.DescribeConfig(), a, rng)
		if err := in.Apply(next); err != nil {
			logger.Warn("Failed to apply action", "action", a, "error", err)
			return
		}
		logger.Debug("Applied action", "action", a, "pointer", next.Pointer, "grain", next.GrainEnabled)
	})
	in.Destroy()
	if frameLog != nil {
		if err := frameLog.Flush(); err != nil {
			logger.Warn("Frame log write failed", "error", err)
		}
	}

	summary := meter.Summary(time.Now())
	logger.Info(summary)
	fmt.Fprintln(cmd.ErrOrStderr(), summary)
	return err
}

// applyAction returns cfg changed by a key action.
func applyAction(cfg params.Config, a terminal.Action, rng *rand.Rand) params.Config {
	switch a {
	case terminal.ActionRandomize:
		colors := params.RandomPalette(rng)
		cfg.Colors = colors
		points := make([]params.ControlPointConfig, len(cfg.ControlPoints))
		for i, cp := range cfg.ControlPoints {
			cp.Color = colors[i%len(colors)]
			points[i] = cp
		}
		cfg.ControlPoints = points
	case terminal.ActionToggleGrain:
		cfg.GrainEnabled = !cfg.GrainEnabled
	case terminal.ActionCyclePointer:
		next := params.NextPointerMode(params.PointerMode(cfg.Pointer))
		defaults := params.DefaultConfig(params.Mode(cfg.Mode), next)
		cfg.Pointer = defaults.Pointer
		cfg.MouseStrength = defaults.MouseStrength
	}
	return cfg
}
