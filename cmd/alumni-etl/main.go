package main

import (
	"context"
	"fmt"
	"os"

	alumnietl "github.com/Josh-Pai/alumni-analytics-etl"
)

func main() {
	ctx := context.Background()

	cfg, err := alumnietl.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p, err := alumnietl.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(p.Run(ctx).ExitCode())
}
