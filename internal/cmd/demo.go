package cmd

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/inpaint/internal/imageio"
	"github.com/MeKo-Tech/inpaint/internal/inpainter"
	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
	"github.com/MeKo-Tech/inpaint/internal/maskprep"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the engine on a synthesized fixture",
	Long:  `Generates a synthetic test pattern (stripe or checkerboard), punches a circular or Perlin-noise-shaped hole in it, runs the engine, and writes before/after images for visual inspection.`,
	RunE:  runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().String("pattern", "checkerboard", "Synthetic pattern: stripe, checkerboard")
	demoCmd.Flags().String("hole", "circle", "Hole shape: circle, perlin")
	demoCmd.Flags().Int("size", 128, "Fixture width/height in pixels")
	demoCmd.Flags().Int("tile", 8, "Checkerboard tile size in pixels")
	demoCmd.Flags().Int("radius", 20, "Hole radius in pixels")
	demoCmd.Flags().StringP("output-dir", "d", ".", "Directory to write fixture.png and result.png into")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"demo.pattern", "pattern"},
		{"demo.hole", "hole"},
		{"demo.size", "size"},
		{"demo.tile", "tile"},
		{"demo.radius", "radius"},
		{"demo.output_dir", "output-dir"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, demoCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	pattern := viper.GetString("demo.pattern")
	hole := viper.GetString("demo.hole")
	size := viper.GetInt("demo.size")
	tile := viper.GetInt("demo.tile")
	radius := viper.GetInt("demo.radius")
	outputDir := viper.GetString("demo.output_dir")
	patchSize := viper.GetInt("patch-size")
	seed := viper.GetInt64("seed")
	workers := viper.GetInt("workers")

	var fixture = buildFixture(pattern, size, tile)

	var holeMask []bool
	center := size / 2
	switch hole {
	case "circle":
		holeMask = maskprep.CircleHole(size, size, center, center, radius)
	case "perlin":
		holeMask = maskprep.PerlinHole(size, size, seed, center, center, radius, 110)
	default:
		return fmt.Errorf("unknown --hole %q: want circle or perlin", hole)
	}

	rgb := make([]uint8, 3*size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := fixture.At(x, y).RGBA()
			i := 3 * (y*size + x)
			rgb[i], rgb[i+1], rgb[i+2] = uint8(r>>8), uint8(g>>8), uint8(b>>8)
		}
	}
	src, err := maskedimage.FromBuffers(size, size, rgb, holeMask)
	if err != nil {
		return fmt.Errorf("failed to assemble fixture: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := imageio.EncodeFile(outputDir+"/fixture.png", imageio.FromMaskedImage(src)); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}

	logger.Info("running demo", "pattern", pattern, "hole", hole, "size", size, "seed", seed)

	inp, err := inpainter.New(src, patchSize, seed)
	if err != nil {
		return fmt.Errorf("failed to initialize inpainter: %w", err)
	}
	inp.SetWorkers(workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := inp.Run(ctx, inpainter.NewSlogSink(logger))
	if err != nil {
		return fmt.Errorf("inpainting failed: %w", err)
	}

	if err := imageio.EncodeFile(outputDir+"/result.png", imageio.FromMaskedImage(result)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	logger.Info("demo complete", "fixture", outputDir+"/fixture.png", "result", outputDir+"/result.png")
	return nil
}

func buildFixture(pattern string, size, tile int) *image.NRGBA {
	switch pattern {
	case "stripe":
		return maskprep.StripeFixture(size, size, color.NRGBA{R: 200, G: 30, B: 30, A: 255}, color.NRGBA{R: 30, G: 30, B: 200, A: 255})
	default:
		return maskprep.CheckerboardFixture(size, size, tile, color.NRGBA{R: 220, G: 220, B: 220, A: 255}, color.NRGBA{R: 20, G: 20, B: 20, A: 255})
	}
}
