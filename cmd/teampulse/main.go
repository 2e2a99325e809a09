package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"teampulse/internal/config"
	"teampulse/internal/dashboard"
	"teampulse/internal/fetchcache"
	"teampulse/internal/logging"
	"teampulse/internal/prefs"
	"teampulse/internal/registry"
	"teampulse/internal/server"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "version":
		fmt.Printf("teampulse v%s\n", version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: teampulse <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve    Start the dashboard server")
	fmt.Println("  version  Print version information")
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	fs.Parse(args)

	// Load .env file if specified or exists
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Printf("Warning: could not load env file %s: %v", *envFile, err)
		}
	} else {
		// Try default locations
		godotenv.Load(".env")
		godotenv.Load("/etc/teampulse/teampulse.env")
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Providers and the dashboard service
	reg := registry.New(cfg)
	prov, err := reg.Default(cfg)
	if err != nil {
		log.Fatalf("Failed to select provider: %v", err)
	}
	svc := dashboard.New(prov)

	// Result cache with its forced-refresh loop
	cache := fetchcache.New(cfg.Cache.StaleAfter())
	refresher := fetchcache.NewRefresher(cache, cfg.Cache.RefreshInterval())
	refresher.Start()
	defer refresher.Stop()

	// User preferences
	store, err := prefs.Open(cfg.Prefs.Path)
	if err != nil {
		log.Fatalf("Failed to open preference store: %v", err)
	}

	// Refresh-cycle logs with retention cleanup
	recorder := logging.NewRecorder(cfg.Logging.Dir)
	cleaner := logging.NewCleaner(cfg.Logging.Dir, cfg.Logging.RetentionDays)
	cleaner.Start(12 * time.Hour)
	defer cleaner.Stop()

	// Create and start server
	srv := server.New(cfg, svc, cache, store, recorder)

	log.Printf("Starting teampulse for %s/%s (provider %s)",
		cfg.Dashboard.Organization, cfg.Dashboard.Team, prov.Name())
	if err := srv.ListenAndServeWithShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
