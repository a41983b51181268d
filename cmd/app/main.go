package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"FundLens/internal/di"
	"FundLens/pkg/config"

	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	printConfig := flag.Bool("print-config", false, "print the effective config and exit")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if *printConfig {
		if err := dumpConfig(cfg); err != nil {
			log.Fatalf("print config: %v", err)
		}
		return
	}

	log.Printf("env=%s cache=%s archive=%s tz=%s", cfg.Environment, cfg.Cache.Backend, cfg.Archive.Backend, cfg.Analysis.Timezone)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Blocks until SIGINT/SIGTERM.
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

// dumpConfig writes the merged file+env config as YAML with secrets masked.
func dumpConfig(cfg *config.Config) error {
	masked := *cfg
	if masked.Redis.Password != "" {
		masked.Redis.Password = "***"
	}
	if masked.ClickHouse.Password != "" {
		masked.ClickHouse.Password = "***"
	}
	out, err := yaml.Marshal(&masked)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, string(out))
	return err
}
