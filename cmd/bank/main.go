package main

import (
	"context"
	"fmt"
	"os"

	"github.com/perrijuan/sistema-bancario/internal/app"
	"github.com/perrijuan/sistema-bancario/internal/cli"
	"github.com/perrijuan/sistema-bancario/internal/config"
	"github.com/perrijuan/sistema-bancario/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	logger := logging.Init("bank-cli", cfg.LogLevel, cfg.AppEnv, os.Stderr)

	a := app.New(cfg, logger)
	err = cli.Execute(context.Background(), cli.NewRootCmd(a.Engine))
	a.Close()
	if err != nil {
		os.Exit(1)
	}
}
