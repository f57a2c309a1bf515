// lanefollow drives a small robot along a taped lane: camera frames in,
// steering servo commands out over serial.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/teslashibe/go-lanefollow/internal/config"
	"github.com/teslashibe/go-lanefollow/internal/log"
	"github.com/teslashibe/go-lanefollow/pkg/actuator"
	"github.com/teslashibe/go-lanefollow/pkg/camera"
	"github.com/teslashibe/go-lanefollow/pkg/debug"
	"github.com/teslashibe/go-lanefollow/pkg/lane/vision"
	"github.com/teslashibe/go-lanefollow/pkg/pilot"
	"github.com/teslashibe/go-lanefollow/pkg/web"
)

// options holds everything parsed from flags and the environment.
type options struct {
	pilot pilot.Config

	camera camera.Config

	serialPort string
	serial     actuator.PortOptions
	dryRun     bool

	webPort string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		log.Error("lane follower stopped", "error", err)
		os.Exit(1)
	}
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() (options, error) {
	var opts options

	configPath := flag.String("config", config.ConfigPath(""), "JSON config file overlaid on the preset (env LANE_CONFIG)")
	preset := flag.String("preset", "default", "Steering preset: default, gentle, aggressive")
	cameraPreset := flag.String("camera-preset", "default", "Camera preset: "+strings.Join(camera.PresetNames(), ", "))
	device := flag.Int("camera", config.CameraDevice(0), "Camera device index (env LANE_CAMERA_DEVICE)")
	video := flag.String("video", "", "Read frames from a video file or pipeline instead of a device")
	serialPort := flag.String("serial", config.SerialPort(config.DefaultSerialPort), "Actuator serial port (env LANE_SERIAL_PORT)")
	baud := flag.Int("baud", config.DefaultBaudRate, "Serial baud rate")
	settle := flag.Duration("settle", actuator.DefaultSettleDelay, "Wait after opening the serial port")
	dryRun := flag.Bool("dry-run", false, "Print commands to stdout instead of writing to serial")
	mode := flag.String("mode", "", "Actuator command mode: servo or direction (overrides config)")
	onFailure := flag.String("on-read-failure", "", "Frame read failure policy: stop or skip (overrides config)")
	webPort := flag.String("web", "", "Serve telemetry and tuning on this port (disabled when empty)")
	logLevel := flag.String("log-level", config.LogLevel("info"), "Log level: debug, info, warn, error")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	debugFrames := flag.Bool("debug-frames", false, "Log a trace line for every frame (very verbose)")
	flag.Parse()

	debug.Enabled, debug.Frames = *debugFlag, *debugFrames
	if debug.Enabled || debug.Frames {
		*logLevel = "debug"
	}
	log.Init(*logLevel)

	cfg, ok := pilot.GetPreset(*preset)
	if !ok {
		return opts, fmt.Errorf("unknown preset %q", *preset)
	}
	if *configPath != "" {
		var err error
		if cfg, err = pilot.LoadConfig(*configPath, cfg); err != nil {
			return opts, err
		}
		log.Info("config loaded", "path", *configPath)
	}
	if *mode != "" {
		cfg.Loop.CommandMode = pilot.CommandMode(*mode)
	}
	if *onFailure != "" {
		cfg.Loop.OnReadFailure = pilot.ReadFailurePolicy(*onFailure)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return opts, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	debug.Log("pilot config: %+v\n", cfg)

	camPreset := camera.GetPreset(*cameraPreset)
	if camPreset == nil {
		return opts, fmt.Errorf("unknown camera preset %q", *cameraPreset)
	}
	cam := *camPreset
	cam.Device, cam.Path = *device, *video

	opts.pilot = cfg
	opts.camera = cam
	opts.serialPort = *serialPort
	opts.serial = actuator.PortOptions{BaudRate: *baud, SettleDelay: *settle}
	opts.dryRun = *dryRun
	opts.webPort = *webPort
	return opts, nil
}

// run opens the camera and actuator, then drives the loop until ctx ends.
func run(ctx context.Context, opts options) error {
	src, err := camera.Open(opts.camera)
	if err != nil {
		return err
	}
	masks := vision.NewMaskSource(src, opts.pilot.Preprocess, opts.pilot.Warp)
	defer masks.Close()

	sink, err := openSink(ctx, opts)
	if err != nil {
		return err
	}
	defer sink.Close()

	loop := pilot.NewLoop(opts.pilot, masks, sink)

	if opts.webPort != "" {
		server := web.NewServer(loop)
		loop.SetObserver(server)
		server.ListenAsync(":" + opts.webPort)
		defer server.Shutdown()
	}

	start := time.Now()
	err = loop.Run(ctx)

	stats := loop.Stats()
	log.Info("session summary",
		"session", loop.Session(),
		"duration", time.Since(start).Round(time.Millisecond),
		"frames", stats.Frames,
		"no_lane", stats.NoLaneFrames,
		"read_failures", stats.ReadFailures,
		"send_failures", stats.SendFailures)

	if errors.Is(err, pilot.ErrTooManyReadFailures) {
		return fmt.Errorf("camera stopped delivering frames: %w", err)
	}
	return err
}

// openSink returns the serial actuator, or stdout in dry-run mode.
func openSink(ctx context.Context, opts options) (actuator.Sink, error) {
	if opts.dryRun {
		debug.Log("dry run: commands go to stdout\n")
		return actuator.NewWriterSink(os.Stdout), nil
	}
	sink, err := actuator.OpenSerial(ctx, opts.serialPort, opts.serial)
	if err != nil {
		return nil, err
	}
	return sink, nil
}
