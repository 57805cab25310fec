package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/inpaint/internal/imageio"
	"github.com/MeKo-Tech/inpaint/internal/inpainter"
	"github.com/MeKo-Tech/inpaint/internal/maskprep"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Inpaint a masked image",
	Long:  `Fill the masked region of an input image by running the multi-scale PatchMatch/EM engine, and write the result.`,
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "Input color image path (required)")
	runCmd.Flags().String("mask", "", "Mask image path (grayscale; required unless --alpha-mask)")
	runCmd.Flags().Bool("alpha-mask", false, "Derive the hole mask from the input image's own alpha channel instead of --mask")
	runCmd.Flags().Uint8("mask-threshold", 128, "Gray value at or above which a mask pixel is treated as a hole")
	runCmd.Flags().StringP("output", "o", "", "Output image path (required)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"run.input", "input"},
		{"run.mask", "mask"},
		{"run.alpha_mask", "alpha-mask"},
		{"run.mask_threshold", "mask-threshold"},
		{"run.output", "output"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, runCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	inputPath := viper.GetString("run.input")
	maskPath := viper.GetString("run.mask")
	alphaMask := viper.GetBool("run.alpha_mask")
	threshold := uint8(viper.GetInt("run.mask_threshold"))
	outputPath := viper.GetString("run.output")
	patchSize := viper.GetInt("patch-size")
	seed := viper.GetInt64("seed")
	workers := viper.GetInt("workers")

	if inputPath == "" {
		return fmt.Errorf("--input is required")
	}
	if outputPath == "" {
		return fmt.Errorf("--output is required")
	}
	if maskPath == "" && !alphaMask {
		return fmt.Errorf("--mask is required unless --alpha-mask is set")
	}

	colorImg, err := imageio.DecodeFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input image: %w", err)
	}

	var maskGray *image.Gray
	if alphaMask {
		maskGray = maskprep.ExtractAlpha(colorImg)
	} else {
		maskImg, err := imageio.DecodeFile(maskPath)
		if err != nil {
			return fmt.Errorf("failed to read mask image: %w", err)
		}
		maskGray = toGray(maskImg)
	}

	src, err := maskprep.Build(colorImg, maskGray, threshold)
	if err != nil {
		return fmt.Errorf("failed to assemble masked image: %w", err)
	}

	logger.Info("starting inpainting", "input", inputPath, "mask", maskPath, "patch_size", patchSize, "seed", seed, "workers", workers)

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

	if err := imageio.EncodeFile(outputPath, imageio.FromMaskedImage(result)); err != nil {
		return fmt.Errorf("failed to write output image: %w", err)
	}

	logger.Info("inpainting complete", "output", outputPath)
	return nil
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
