package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/overlay-translate-mcp/internal/cache"
	"github.com/ironsheep/overlay-translate-mcp/internal/config"
	"github.com/ironsheep/overlay-translate-mcp/internal/logging"
	"github.com/ironsheep/overlay-translate-mcp/internal/ocr"
	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
	"github.com/ironsheep/overlay-translate-mcp/internal/pipeline"
	"github.com/ironsheep/overlay-translate-mcp/internal/render"
	"github.com/ironsheep/overlay-translate-mcp/internal/server"
	"github.com/ironsheep/overlay-translate-mcp/internal/translate"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	httpMode := false
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("overlay-translate-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--http":
			httpMode = true
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s (see --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logging.New(os.Stderr, "overlay", logging.ParseLevel(cfg.LogLevel))
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, closeAll, err := build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Startup error: %v", err)
	}
	defer closeAll()

	srv := server.New(p, logger)
	if httpMode {
		err = srv.ListenAndServe(ctx, cfg.HTTPAddr)
	} else {
		err = srv.Run(ctx)
	}
	if err != nil && ctx.Err() == nil {
		log.Fatalf("Server error: %v", err)
	}
}

// build wires the pipeline from cfg. The returned func releases the font face
// and the cache connection.
func build(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pipeline.Pipeline, func(), error) {
	face, err := render.LoadFace(cfg.FontPath, cfg.LineHeight)
	if err != nil {
		return nil, nil, err
	}
	style, err := render.ParseStyle(cfg.BackgroundColor, cfg.TextColor, cfg.StrokeColor, cfg.StrokeWidth)
	if err != nil {
		face.Close()
		return nil, nil, err
	}

	engine, err := overlay.NewEngine(cfg.Layout(),
		overlay.WithMeasurer(face),
		overlay.WithLogger(logger.With("component", "layout")),
	)
	if err != nil {
		face.Close()
		return nil, nil, err
	}

	translator, err := translate.New(ctx, translate.Config{
		BaseURL:   cfg.LLMBaseURL,
		APIKey:    cfg.LLMAPIKey,
		Model:     cfg.LLMModel,
		MaxTokens: cfg.LLMMaxTokens,
		Timeout:   cfg.LLMTimeout,
	})
	if err != nil {
		face.Close()
		return nil, nil, err
	}

	p := pipeline.New(engine, render.NewRenderer(face, style),
		ocr.NewRecognizer(cfg.OCRLanguage, cfg.OCRUpscale), translator)
	p.Log = logger
	p.Composite = cfg.Composite

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Warn("translation cache disabled", "error", err)
		} else {
			p.Cache = rc
		}
	}

	closeAll := func() {
		p.Cache.Close()
		face.Close()
	}
	return p, closeAll, nil
}

func printHelp() {
	fmt.Println("overlay-translate-mcp - translated text overlays for game screenshots")
	fmt.Println()
	fmt.Println("Usage: overlay-translate-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --http           Serve POST / over HTTP instead of MCP over stdio")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  OVERLAY_LOG_LEVEL=debug            Enable debug logging")
	fmt.Println("  OVERLAY_HTTP_ADDR=:4404            HTTP listen address")
	fmt.Println("  OVERLAY_OUTPUT_WIDTH/HEIGHT        Overlay canvas size (1920x1200)")
	fmt.Println("  OVERLAY_TARGET_ASPECT=30/17        Game viewport aspect ratio")
	fmt.Println("  OVERLAY_FONT_PATH                  TTF/OTF font (default Go Regular)")
	fmt.Println("  OVERLAY_OCR_LANGUAGE=jpn+eng       Tesseract languages")
	fmt.Println("  LLM_BASE_URL, LLM_API_KEY, LLM_MODEL  OpenAI-compatible vision model")
	fmt.Println("  REDIS_URL                          Enable the translation cache")
	fmt.Println()
	fmt.Println("In MCP mode the server communicates over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}
