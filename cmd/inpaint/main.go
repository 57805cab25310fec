// Command inpaint is the CLI entrypoint for the patch-based inpainting
// engine.
package main

import "github.com/MeKo-Tech/inpaint/internal/cmd"

func main() {
	cmd.Execute()
}
