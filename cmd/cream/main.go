// Command cream is a networked, in-memory key-value cache server.
//
// Clients open a TCP connection, send one binary request, receive one
// binary response, and the server closes the connection.
//
// Usage:
//
//	cream NUM_WORKERS PORT_NUMBER MAX_ENTRIES
//
//	# 4 worker goroutines, listening on :9090, capacity for 1024 entries
//	./cream 4 9090 1024
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"cream/internal/config"
	"cream/internal/cream"
	"cream/internal/metrics"
)

func main() {
	numWorkers, port, maxEntries := parseArgs(os.Args[1:])

	cfg := config.Load()
	cfg.ApplyArgs(numWorkers, port, maxEntries)

	printBanner(cfg)

	m := metrics.New()
	srv, err := cream.New(cfg, m)
	if err != nil {
		log.Fatalf("[CREAM] Fatal: %v", err)
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Printf("[CREAM] Shutting down…")
		if err := srv.Close(); err != nil {
			log.Printf("[CREAM] Shutdown error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("[CREAM] Fatal: %v", err)
	}
}

// parseArgs validates and parses the three required positional arguments,
// or prints usage and exits: -h/--help exits 0, any parse failure exits
// nonzero.
func parseArgs(args []string) (numWorkers int, port string, maxEntries int) {
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		usage(os.Stdout)
		os.Exit(0)
	}
	if len(args) != 3 {
		usage(os.Stderr)
		os.Exit(2)
	}

	numWorkers, err := strconv.Atoi(args[0])
	if err != nil || numWorkers <= 0 {
		fmt.Fprintf(os.Stderr, "NUM_WORKERS must be a positive integer, got %q\n", args[0])
		os.Exit(2)
	}

	port = args[1]

	maxEntries, err = strconv.Atoi(args[2])
	if err != nil || maxEntries <= 0 {
		fmt.Fprintf(os.Stderr, "MAX_ENTRIES must be a positive integer, got %q\n", args[2])
		os.Exit(2)
	}

	return numWorkers, port, maxEntries
}

func usage(w *os.File) {
	fmt.Fprintf(w, "usage: cream [-h] NUM_WORKERS PORT_NUMBER MAX_ENTRIES\n")
}

func printBanner(cfg *config.Config) {
	fmt.Printf(`
╔══════════════════════════════════════════════════════╗
║                        cream                          ║
╚══════════════════════════════════════════════════════╝
  Workers      : %d
  Port         : %s
  Max entries  : %d
  Key size     : %d-%d bytes
  Value size   : %d-%d bytes
  Log level    : %s
`, cfg.NumWorkers, cfg.Port, cfg.MaxEntries,
		cfg.MinKeySize, cfg.MaxKeySize,
		cfg.MinValueSize, cfg.MaxValueSize,
		cfg.LogLevel)
}
