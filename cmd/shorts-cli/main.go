package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"creatorshorts/internal/adapters/command"
	"creatorshorts/internal/adapters/downloader"
	"creatorshorts/internal/adapters/ffmpeg"
	"creatorshorts/internal/adapters/localstorage"
	"creatorshorts/internal/adapters/openai"
	"creatorshorts/internal/adapters/youtube"
	"creatorshorts/internal/adapters/youtubefeed"
	"creatorshorts/internal/adapters/ytdlp"
	"creatorshorts/internal/config"
	"creatorshorts/internal/core/domain"
	"creatorshorts/internal/core/ports"
	"creatorshorts/internal/service"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, environment variables might be set manually
		log.Println("No .env file found")
	}

	// Parse flags
	configPath := flag.String("config", "config.json", "Channel list document")
	statusPath := flag.String("status", "creator_status.json", "Creator status document")
	workDir := flag.String("work-dir", "./data", "Base directory for per-creator scratch files")
	dryRun := flag.Bool("dry-run", false, "Download, trim and generate metadata but do not upload")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load(*configPath, *statusPath, *workDir, *dryRun)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Println("=== Creator Shorts ===")
	logger.Printf("Creators: %d", len(cfg.Channels))
	logger.Printf("Work Directory: %s", cfg.WorkDir)
	if cfg.DryRun {
		logger.Println("Dry run: uploads disabled")
	}

	orchestrator, err := buildOrchestrator(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("\nReceived interrupt signal, cancelling...")
		cancel()
	}()

	summary := orchestrator.Run(ctx, cfg.Channels, cfg.Status)
	printSummary(summary)
}

func buildOrchestrator(cfg *config.Config, logger *log.Logger) (*service.Orchestrator, error) {
	s := cfg.Settings
	runner := command.NewExecRunner()

	var uploader ports.Uploader
	if !cfg.DryRun {
		up, err := youtube.NewUploader(s.YouTubeCredentials,
			youtube.WithHTTPClient(&http.Client{Timeout: s.UploadTimeout}))
		if err != nil {
			return nil, &domain.FatalConfigError{Reason: "invalid YOUTUBE_CREDENTIALS", Err: err}
		}
		uploader = up
	}

	var llm ports.TextGenerator
	if s.LLMAPIKey != "" {
		llm = openai.NewClient(s.LLMAPIKey, s.LLMAPIBase, s.LLMModel, s.LLMTimeout)
	} else {
		logger.Println("LLM_API_KEY not set, using fallback metadata")
	}

	return service.NewOrchestrator(
		youtubefeed.NewChecker(downloader.NewHTTPDownloader(s.FeedTimeout), s.FeedURLTemplate),
		ytdlp.NewYtDlpDownloader(runner, s.YtDlpPath, s.ClipSeconds, s.DownloadTimeout),
		ffmpeg.NewTrimmer(runner, s.FFmpegPath, s.ClipOffset, s.ClipSeconds, s.TranscodeTimeout),
		service.NewMetadataGenerator(llm, s.LLMTimeout),
		uploader,
		localstorage.NewLocalStorage(cfg.WorkDir),
		service.Options{
			ClipLength:    time.Duration(s.ClipSeconds) * time.Second,
			FeedTimeout:   s.FeedTimeout,
			UploadTimeout: s.UploadTimeout,
		},
		logger,
	), nil
}

func printSummary(summary *domain.RunSummary) {
	fmt.Println("\n=== Run Summary ===")
	for _, r := range summary.Results {
		line := fmt.Sprintf("%s %-20s %-8s %s", r.Outcome.Glyph(), r.Creator.Name, r.Outcome, r.Reason)
		if r.Outcome == domain.OutcomeFailed {
			line = fmt.Sprintf("%s %-20s %-8s [%s] %s", r.Outcome.Glyph(), r.Creator.Name, r.Outcome, r.Stage, r.Reason)
		}
		fmt.Println(line)
	}
	fmt.Printf("Done: %d  Skipped: %d  Failed: %d\n", summary.Done(), summary.Skipped(), summary.Failed())
	fmt.Printf("Completed At: %s\n", summary.CompletedAt.Format(time.RFC3339))
}
