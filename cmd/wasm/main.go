//go:build js && wasm
// +build js,wasm

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"time"

	"syscall/js"

	"github.com/MeKo-Tech/inpaint/internal/imageio"
	"github.com/MeKo-Tech/inpaint/internal/inpainter"
	"github.com/MeKo-Tech/inpaint/internal/maskprep"
)

const defaultConcurrency = 4

// InpaintRequest is the JSON request shape for inpaintRun: a base64 PNG
// color image, an optional base64 PNG grayscale mask (holes are
// bright), and the run parameters.
type InpaintRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MaskBase64  string `json:"maskBase64"`
	PatchSize   int    `json:"patchSize"`
	Seed        int64  `json:"seed"`
	Threshold   int    `json:"threshold"`
}

// getConcurrency returns navigator.hardwareConcurrency if available,
// otherwise a conservative default. The engine itself always runs
// single-threaded in WASM (inp.SetWorkers(1)); this value is exposed so
// host JS can decide whether to offload multiple independent runs to
// separate Worker instances.
func getConcurrency(_ js.Value, _ []js.Value) interface{} {
	navigator := js.Global().Get("navigator")
	if navigator.IsUndefined() || navigator.IsNull() {
		return defaultConcurrency
	}

	hwConcurrency := navigator.Get("hardwareConcurrency")
	if hwConcurrency.IsUndefined() || hwConcurrency.IsNull() {
		return defaultConcurrency
	}

	cores := hwConcurrency.Int()
	if cores < 1 {
		return defaultConcurrency
	}
	return cores
}

// inpaintRun is called from JavaScript with a single JSON-encoded
// InpaintRequest argument and returns the result as a base64 PNG.
func inpaintRun(this js.Value, args []js.Value) interface{} {
	start := time.Now()
	if len(args) < 1 {
		return map[string]any{"error": "missing arguments"}
	}

	var req InpaintRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to parse request: %v", err)}
	}

	colorBytes, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("invalid imageBase64: %v", err)}
	}
	colorImg, err := imageio.Decode(bytes.NewReader(colorBytes), "png")
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to decode image: %v", err)}
	}

	var maskGray = maskprep.ExtractAlpha(colorImg)
	if req.MaskBase64 != "" {
		maskBytes, err := base64.StdEncoding.DecodeString(req.MaskBase64)
		if err != nil {
			return map[string]any{"error": fmt.Sprintf("invalid maskBase64: %v", err)}
		}
		maskImg, err := imageio.Decode(bytes.NewReader(maskBytes), "png")
		if err != nil {
			return map[string]any{"error": fmt.Sprintf("failed to decode mask: %v", err)}
		}
		mb := maskImg.Bounds()
		gray := image.NewGray(mb)
		draw.Draw(gray, mb, maskImg, mb.Min, draw.Src)
		maskGray = gray
	}

	threshold := uint8(128)
	if req.Threshold > 0 && req.Threshold < 256 {
		threshold = uint8(req.Threshold)
	}

	src, err := maskprep.Build(colorImg, maskGray, threshold)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to assemble masked image: %v", err)}
	}

	patchSize := req.PatchSize
	if patchSize <= 0 {
		patchSize = inpainter.DefaultPatchHalfSize
	}

	inp, err := inpainter.New(src, patchSize, req.Seed)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to initialize inpainter: %v", err)}
	}
	inp.SetWorkers(1) // WASM is single-threaded; this also keeps the run deterministic

	result, err := inp.Run(context.Background(), inpainter.NoopSink{})
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("inpainting failed: %v", err)}
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, imageio.FromMaskedImage(result), "png"); err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to encode result: %v", err)}
	}

	return map[string]any{
		"pngBase64": base64.StdEncoding.EncodeToString(buf.Bytes()),
		"mime":      "image/png",
		"ms":        time.Since(start).Milliseconds(),
	}
}

// initModule is called on page load to set up the WASM module.
func initModule(this js.Value, args []js.Value) interface{} {
	fmt.Println("inpaint WASM module initialized")
	return map[string]any{"status": "ready"}
}

func main() {
	c := make(chan struct{})

	js.Global().Set("inpaintRun", js.FuncOf(inpaintRun))
	js.Global().Set("inpaintGetConcurrency", js.FuncOf(getConcurrency))
	js.Global().Set("inpaintInit", js.FuncOf(initModule))

	fmt.Println("inpaint WASM module loaded")
	<-c
}
