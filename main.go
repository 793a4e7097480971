package main

import (
	"flag"
	"fmt"
	"os"
	"vtlink/internal/di"
	"vtlink/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "debug mode: verbose logging to stderr")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "vtlink: %s\n", err)
		os.Exit(1)
	}
}
