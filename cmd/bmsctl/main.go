package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/magabrotheeeer/bms-server/internal/cli"
	"github.com/magabrotheeeer/bms-server/internal/config"
	"github.com/magabrotheeeer/bms-server/internal/lib/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stderr)

	rootCmd := cli.NewRootCmd(cli.StorageOpener(cfg, log), os.Stdout)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
