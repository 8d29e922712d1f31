// Command apiserver runs the Mössbauer analysis REST service. Configuration
// comes from a YAML file named by -config, overridable through MOSS_*
// environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/interfaces/cli"
)

func main() {
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := cli.RunServer(context.Background(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
