// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hamed0406/perfprobe/internal/config"
	"github.com/hamed0406/perfprobe/internal/preflight"
)

func main() {
	cfg, err := config.ForService(os.Getenv("PERFPROBE_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "✖", err)
		os.Exit(1)
	}
	if res := preflight.New(os.Stdout).Run(context.Background(), cfg); !res.OK() {
		os.Exit(1)
	}
}
