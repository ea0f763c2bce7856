package mcp

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/drydotai/dry-go/client"
	"github.com/drydotai/dry-go/internal/config"
	"github.com/drydotai/dry-go/mcp/internal/handlers"
)

// serverConfig holds the MCP server's own settings. Dry.ai client
// settings (token, retries, verbosity) come from the DRY_AI_*
// environment via internal/config.
type serverConfig struct {
	DryServerURL    string
	ServerName      string
	ServerVersion   string
	HTTPAddr        string
	LogLevel        zerolog.Level
	ShutdownTimeout time.Duration
	HTTPReadTimeout time.Duration
	HTTPIdleTimeout time.Duration
}

// loadConfig loads configuration from environment variables and flags
func loadConfig() *serverConfig {
	cfg := &serverConfig{
		// Default values
		DryServerURL:    getEnvOrDefault(client.EnvServer, client.DefaultServerURL),
		ServerName:      getEnvOrDefault("MCP_SERVER_NAME", "dry-mcp-server"),
		ServerVersion:   getEnvOrDefault("MCP_SERVER_VERSION", client.Version),
		HTTPAddr:        getEnvOrDefault("MCP_HTTP_ADDR", ":9550"),
		ShutdownTimeout: parseDurationOrDefault("SHUTDOWN_TIMEOUT", "10s"),
		HTTPReadTimeout: parseDurationOrDefault("HTTP_READ_TIMEOUT", "5s"),
		HTTPIdleTimeout: parseDurationOrDefault("HTTP_IDLE_TIMEOUT", "120s"),
	}

	// Parse log level from environment
	cfg.LogLevel = parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info"))

	// Command line flags (will override env vars)
	var rawLogLevel string
	flag.StringVar(&cfg.DryServerURL, "server", cfg.DryServerURL, "Base URL of the Dry.ai service")
	flag.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "Listen address for the Streamable HTTP transport")
	flag.StringVar(&rawLogLevel, "log-level", cfg.LogLevel.String(), "Log level: debug|info|warn|error")
	flag.Parse()

	// Override log level from flag if provided
	if rawLogLevel != "" {
		cfg.LogLevel = parseLogLevel(rawLogLevel)
	}

	return cfg
}

// initLogger initializes the logger with the configured level
func (c *serverConfig) initLogger() {
	zerolog.SetGlobalLevel(c.LogLevel)
	log.Logger = log.With().Caller().Logger()
}

// Helper functions
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(envKey, defaultValue string) time.Duration {
	if value := os.Getenv(envKey); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	d, _ := time.ParseDuration(defaultValue)
	return d
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

func registerHandler(s *server.MCPServer, handler toolRegisterer, name string) {
	if err := handler.RegisterTools(s); err != nil {
		log.Fatal().Err(err).Msgf("Failed to register %s tools", name)
	}
}

// RunMCPServer starts the MCP server with the given configuration
func RunMCPServer() error {
	// Load configuration and initialize dependencies
	cfg := loadConfig()
	cfg.initLogger()

	clientCfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load client configuration")
		return err
	}

	// The --server flag wins over DRY_AI_SERVER because it is appended
	// last and options apply in order.
	opts := append(clientCfg.ClientOptions(), client.WithServerURL(cfg.DryServerURL))

	log.Info().Str("dry_server_url", cfg.DryServerURL).Msg("Creating Dry.ai client")
	dryClient, err := client.New(opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create client")
		return err
	}
	log.Info().Msg("Client created successfully")

	// Create a new MCP server
	s := server.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		server.WithToolCapabilities(true),
		// Advertise empty resources & prompts so the host client stops returning
		// -32601 for resources/list and prompts/list.
		server.WithResourceCapabilities(true, true), // subscribe=true, listChanged=true
		server.WithPromptCapabilities(true),         // listChanged=true
	)

	// Initialize and register handlers
	registerHandler(s, handlers.NewSpaceHandler(dryClient), "space")
	registerHandler(s, handlers.NewSchemaHandler(dryClient), "schema")
	registerHandler(s, handlers.NewItemHandler(dryClient), "item")
	registerHandler(s, handlers.NewSearchHandler(dryClient), "search")

	// Auto-detect transport method
	if shouldUseStdio() {
		// Stdio transport (for Claude Desktop, launched processes)
		log.Info().Msg("Starting Dry MCP server (stdio transport)")

		if err := server.ServeStdio(s); err != nil {
			log.Fatal().Err(err).Msg("Stdio server error")
		}
	} else {
		// HTTP transport (for manual/Docker startup)
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting Dry MCP server (Streamable HTTP)")

		// Set up graceful shutdown handling
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		shutdownComplete := make(chan struct{})

		streamSrv := server.NewStreamableHTTPServer(
			s,
			server.WithEndpointPath("/mcp"),
			server.WithHeartbeatInterval(30*time.Second),
		)

		srv := &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      streamSrv,
			ReadTimeout:  cfg.HTTPReadTimeout, // Keep short for request parsing
			WriteTimeout: 0,                   // No deadline - required for SSE streaming
			IdleTimeout:  cfg.HTTPIdleTimeout, // Keep for after requests finish
		}

		// Graceful shutdown handler
		go func() {
			defer close(shutdownComplete)

			sig := <-sigChan
			log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			log.Info().Msg("Shutting down HTTP server...")
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Error during HTTP server shutdown")
			} else {
				log.Info().Msg("HTTP server shutdown complete")
			}

			log.Info().Msg("Shutting down MCP streamable server...")
			if err := streamSrv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Error during MCP server shutdown")
			} else {
				log.Info().Msg("MCP server shutdown complete")
			}

			log.Info().Msg("Shutting down Dry.ai client...")
			if err := dryClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing Dry.ai client")
			} else {
				log.Info().Msg("Dry.ai client shutdown complete")
			}
		}()

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}

		// Wait for graceful shutdown to complete
		<-shutdownComplete
		log.Info().Msg("MCP server shutdown complete")
	}

	return nil
}

// shouldUseStdio determines whether to use stdio transport based on environment
func shouldUseStdio() bool {
	// Force stdio mode with environment variable
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}

	// Force HTTP mode with environment variable
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}

	// Auto-detect: Use stdio if stdin is not a terminal (launched by another process)
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}

	// Default to HTTP if detection fails
	return false
}
