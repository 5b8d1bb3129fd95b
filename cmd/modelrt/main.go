package main

// The CLI is split across files:
// - root.go     (options, persistent flags, config + logger setup)
// - runtime.go  (discovery, engine and manager construction)
// - serve.go    (debug HTTP server + tick loop)
// - simulate.go (scenario replay)
// - probe.go    (clip search inspection)
// - version.go  (build and engine versions)

import (
	"fmt"
	"os"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "modelrt:", err)
		os.Exit(1)
	}
}
