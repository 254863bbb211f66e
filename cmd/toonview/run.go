package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-toon/engine"
	"github.com/Carmen-Shannon/oxy-toon/engine/config"
	"github.com/Carmen-Shannon/oxy-toon/engine/frame"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/profiler"
	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var (
		textureDir  string
		framePath   string
		out         string
		frames      uint64
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run <model.glb>",
		Short: "Assemble a character and drive the frame loop headless",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger.Component("toonview")

			c, err := loadCharacter(opts, args[0], textureDir)
			if err != nil {
				return err
			}

			// the host renderer is out of process; a fixed image stands in for its output
			var rendered *postprocess.Buffer
			if framePath != "" {
				img, err := readPNG(framePath)
				if err != nil {
					return err
				}
				rendered = postprocess.FromImage(img)
			}

			prof := profiler.NewProfiler(profiler.WithLogger(opts.logger.Component("profiler")))
			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				if err := prof.Register(reg); err != nil {
					return err
				}
				srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error().Err(err).Str("addr", metricsAddr).Msg("metrics server stopped")
					}
				}()
				defer srv.Close()
				log.Info().Str("addr", metricsAddr).Msg("serving metrics")
			}

			if watch {
				if err := opts.loader.Watch(func(cfg config.Config) {
					c.pipeline.ApplyConfig(cfg)
				}); err != nil {
					return err
				}
			}

			var last *postprocess.Buffer
			eng := engine.NewEngine(
				engine.WithPipeline(c.pipeline),
				engine.WithLogger(opts.logger.Component("engine")),
				engine.WithProfiler(prof),
				engine.WithProfiling(true),
				engine.WithScene(0, c.scene),
				engine.WithRenderFrameLimit(float64(opts.cfg.Render.FrameLimit)),
				engine.WithMaxFrames(frames),
			)
			eng.SetRenderCallback(func(state frame.State, draws []scene.DrawItem) *postprocess.Buffer {
				log.Trace().Uint64("frame", state.Frame).Int("draws", len(draws)).Msg("frame")
				return rendered
			})
			eng.SetPresentCallback(func(buf *postprocess.Buffer) {
				if last == nil || !last.SameSize(buf) {
					last = buf.Clone()
					return
				}
				last.CopyFrom(buf)
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				eng.Quit()
			}()

			start := time.Now()
			eng.Run()
			elapsed := time.Since(start)

			fmt.Fprintf(cmd.OutOrStdout(), "%d frames in %s\n", eng.Frames(), elapsed.Round(time.Millisecond))
			if out != "" && last != nil {
				if err := writePNG(out, last.ToImage()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&textureDir, "textures", "t", "texture", "character texture directory")
	flags.StringVar(&framePath, "frame", "", "PNG standing in for the rendered frame; enables post-processing")
	flags.StringVarP(&out, "out", "o", "", "write the last post-processed frame to this PNG")
	flags.Uint64VarP(&frames, "frames", "n", 300, "frames to run; 0 runs until interrupted")
	flags.BoolVarP(&watch, "watch", "w", false, "reload the config file on change")
	flags.StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	return cmd
}
