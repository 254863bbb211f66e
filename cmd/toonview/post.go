package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/spf13/cobra"
)

func newPostCmd(opts *options) *cobra.Command {
	var (
		out       string
		depthPath string
	)

	cmd := &cobra.Command{
		Use:   "post <in.png>",
		Short: "Run the post-processing chain over an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger.Component("postprocess")

			src, err := readPNG(args[0])
			if err != nil {
				return err
			}
			buf := postprocess.FromImage(src)

			ctx := postprocess.FrameContext{Width: buf.Width, Height: buf.Height}
			if depthPath != "" {
				img, err := readPNG(depthPath)
				if err != nil {
					return err
				}
				ctx.Depth = depthFromImage(img)
			}

			cfg := opts.cfg
			chain := postprocess.NewChain(
				postprocess.WithLogger(log),
				postprocess.WithWorkers(cfg.Render.Workers),
				postprocess.WithBloom(cfg.BloomParams()),
				postprocess.WithAntiAlias(cfg.Preset()),
				postprocess.WithToneMap(cfg.ToneMapParams()),
				postprocess.WithPassObserver(func(kind postprocess.Kind, took time.Duration) {
					log.Debug().Stringer("pass", kind).Dur("took", took).Msg("pass done")
				}),
			)

			result, err := chain.Process(ctx, buf)
			if err != nil {
				return err
			}
			if err := writePNG(out, result.ToImage()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", out, result.Width, result.Height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "out.png", "output PNG")
	cmd.Flags().StringVar(&depthPath, "depth", "", "grayscale depth PNG enabling depth-aware bloom")
	return cmd
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// depthFromImage reads depth from the gray level; white is the far plane.
func depthFromImage(img image.Image) *common.DepthTexture {
	b := img.Bounds()
	d := common.NewDepthTexture(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			d.Set(x, y, float32(g.Y)/0xffff)
		}
	}
	return d
}
