// dwin-go is a dwindle tiling window manager: apps are organized into five
// buffers, tiled by recursive half-splits, with snap regions for floating
// windows.
package main

import (
	"os"

	"dwin-go/cmd"
	"dwin-go/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("command failed", "error", err)
		os.Exit(1)
	}
}
