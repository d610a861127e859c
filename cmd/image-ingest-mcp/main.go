package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-ingest-mcp/internal/config"
	"github.com/ironsheep/image-ingest-mcp/internal/digest"
	"github.com/ironsheep/image-ingest-mcp/internal/imaging"
	"github.com/ironsheep/image-ingest-mcp/internal/remote"
	"github.com/ironsheep/image-ingest-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configPath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("image-ingest-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config needs a file path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n", args[i])
			os.Exit(2)
		}
	}

	// Log to stderr; stdout is for MCP protocol
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load configuration")
	}
	logger = logger.Level(cfg.LogLevel)

	logger.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Str("remote_base_url", cfg.RemoteBaseURL).
		Msg("starting image-ingest-mcp")

	proc := imaging.New(
		imaging.WithLogger(logger),
		imaging.WithResampler(cfg.Resampler),
	)
	fetcher := remote.New(proc,
		remote.WithBaseURL(cfg.RemoteBaseURL),
		remote.WithHTTPClient(&http.Client{Timeout: cfg.RemoteTimeout}),
		remote.WithLogger(logger),
	)

	srv := server.New(server.Params{
		Processor: proc,
		Digests:   digest.New(digest.WithLogger(logger)),
		Fetcher:   fetcher,
		Quality:   cfg.Quality,
		Logger:    &logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func printHelp() {
	fmt.Println("image-ingest-mcp - MCP server for image loading, normalization and array conversion")
	fmt.Println()
	fmt.Println("Usage: image-ingest-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c FILE  Read settings from FILE (default ./image-ingest.toml if present)")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGE_INGEST_LOG_LEVEL=debug                 Log level (debug, info, warn, error)")
	fmt.Println("  IMAGE_INGEST_REMOTE_BASE_URL=URL             Store prefix for digest lookups")
	fmt.Println("  IMAGE_INGEST_REMOTE_TIMEOUT=30s              Timeout for remote fetches")
	fmt.Println("  IMAGE_INGEST_ENCODE_QUALITY=95               Default JPEG quality")
	fmt.Println("  IMAGE_INGEST_RESAMPLE_FILTER=imaging|bild    Lanczos implementation")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
}
