// lane-replay runs the lane follower over recorded images or a video file
// and prints the decision for every frame. No actuator is touched.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/teslashibe/go-lanefollow/internal/config"
	"github.com/teslashibe/go-lanefollow/internal/log"
	"github.com/teslashibe/go-lanefollow/pkg/actuator"
	"github.com/teslashibe/go-lanefollow/pkg/camera"
	"github.com/teslashibe/go-lanefollow/pkg/debug"
	"github.com/teslashibe/go-lanefollow/pkg/lane/vision"
	"github.com/teslashibe/go-lanefollow/pkg/pilot"
)

func main() {
	configPath := flag.String("config", config.ConfigPath(""), "JSON config file overlaid on the preset (env LANE_CONFIG)")
	preset := flag.String("preset", "default", "Steering preset: default, gentle, aggressive")
	video := flag.String("video", "", "Video file to replay (otherwise image paths are read from the arguments)")
	debugFrames := flag.Bool("debug-frames", false, "Also print lane center, heading and raw angle per frame to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: lane-replay [flags] image...\n       lane-replay [flags] -video file\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	debug.Frames = *debugFrames
	log.Init(config.LogLevel("warn"))

	if *video == "" && flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, ok := pilot.GetPreset(*preset)
	if !ok {
		log.Error("unknown preset", "preset", *preset)
		os.Exit(1)
	}
	if *configPath != "" {
		var err error
		if cfg, err = pilot.LoadConfig(*configPath, cfg); err != nil {
			log.Error("configuration error", "error", err)
			os.Exit(1)
		}
	}
	// Recordings may contain unreadable files; keep going.
	cfg.Loop.OnReadFailure = pilot.SkipOnReadFailure
	cfg.Loop.MaxReadFailures = 0
	cfg.Loop.RetryDelay = 0

	src, err := openSource(*video, flag.Args())
	if err != nil {
		log.Error("cannot open input", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := replay(ctx, cfg, src, os.Stdout); err != nil {
		log.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

func openSource(video string, images []string) (camera.Source, error) {
	if video == "" {
		return camera.NewImageSource(images...), nil
	}
	cam := camera.DefaultConfig()
	cam.Path = video
	src, err := camera.Open(cam)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// replay runs the loop with a discarding actuator and prints one row per frame.
func replay(ctx context.Context, cfg pilot.Config, src camera.Source, out io.Writer) error {
	masks := vision.NewMaskSource(src, cfg.Preprocess, cfg.Warp)
	defer masks.Close()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "FRAME\tLANE\tCTE\tANGLE\tDIRECTION\tSMOOTHED\tSERVO")

	loop := pilot.NewLoop(cfg, masks, actuator.NewWriterSink(io.Discard))
	loop.SetObserver(pilot.ObserverFunc(func(r pilot.FrameReport) {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.2f\t%s\t%s\t%d\n",
			r.Seq, laneLabel(r), r.CTE, r.AngleDeg, r.Direction, r.Smoothed, r.Servo)
		if debug.Frames {
			fmt.Fprintf(os.Stderr, "frame %d: center=%.1f heading=%.2f raw=%.2f\n",
				r.Seq, r.LaneCenter, r.HeadingErrorDeg, r.RawAngleDeg)
		}
	}))

	if err := loop.Run(ctx); err != nil {
		return err
	}

	stats := loop.Stats()
	tw.Flush()
	fmt.Fprintf(out, "\n%d frames, %d without lane, %d unreadable\n",
		stats.Frames, stats.NoLaneFrames, stats.ReadFailures)
	return nil
}

func laneLabel(r pilot.FrameReport) string {
	switch {
	case r.LeftFound && r.RightFound:
		return "both"
	case r.LeftFound:
		return "left"
	case r.RightFound:
		return "right"
	default:
		return "none"
	}
}
