// Command pinchat starts the ephemeral chat room server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, CORS origin, debug logging, and optional ngrok
// tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/pinchat/pinchat/api"
	"github.com/pinchat/pinchat/chat/room"
	"github.com/pinchat/pinchat/transport/mcp"
	"github.com/pinchat/pinchat/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "PIN Chat Server"
)

// serverConfig collects the resolved startup options.
type serverConfig struct {
	host       string
	port       int
	corsOrigin string
	debug      bool

	ngrokEnabled bool
	ngrokAuth    string
	ngrokDomain  string
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:    "pinchat",
		Usage:   "ephemeral PIN-identified chat room server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "0.0.0.0",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "cors-origin",
				Value:   "*",
				Usage:   "Value for the Access-Control-Allow-Origin header",
				Sources: cli.EnvVars("CORS_ORIGIN"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server backed by an internal or external HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := configFromCommand(cmd)
					setupLogging(cfg.debug)
					runStdioMCPWithInternalServer(cfg)
					return nil
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFromCommand(cmd)
			setupLogging(cfg.debug)
			log.Printf("Starting %s v%s", AppName, Version)
			runHTTPServer(cfg)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func configFromCommand(cmd *cli.Command) serverConfig {
	return serverConfig{
		host:         cmd.String("host"),
		port:         int(cmd.Int("port")),
		corsOrigin:   cmd.String("cors-origin"),
		debug:        cmd.Bool("debug"),
		ngrokEnabled: cmd.Bool("ngrok"),
		ngrokAuth:    cmd.String("ngrok-auth"),
		ngrokDomain:  cmd.String("ngrok-domain"),
	}
}

func setupLogging(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// buildHandler wires the registry, WebSocket gateway, REST API and /mcp
// endpoint into a single http.Handler.
func buildHandler(cfg serverConfig, baseURL string) http.Handler {
	registry := room.NewRegistry()
	hub := websocket.NewHub()
	gateway := websocket.NewGateway(registry, hub)
	apiServer := api.NewServer(registry, gateway, cfg.corsOrigin)

	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer starts the HTTP server with the REST API, WebSocket gateway,
// and an /mcp proxy endpoint. If ngrok is enabled (via flag or environment),
// it also provisions a public tunnel.
func runHTTPServer(cfg serverConfig) {
	addr := fmt.Sprintf("%s:%d", cfg.host, cfg.port)
	baseURL := fmt.Sprintf("http://%s", addr)
	if cfg.host == "0.0.0.0" {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.port)
	}

	mainRouter := buildHandler(cfg, baseURL)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if cfg.ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if cfg.ngrokAuth == "" {
				log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
				return
			}

			log.Println("Starting ngrok tunnel...")

			var tunnel ngrokConfig.Tunnel
			if cfg.ngrokDomain != "" {
				tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.ngrokDomain))
				log.Printf("Using custom ngrok domain: %s", cfg.ngrokDomain)
			} else {
				tunnel = ngrokConfig.HTTPEndpoint()
			}

			tun, err := ngrok.Listen(ctx,
				tunnel,
				ngrok.WithAuthtoken(cfg.ngrokAuth),
			)
			if err != nil {
				log.Printf("Failed to start ngrok tunnel: %v", err)
				return
			}
			defer func() {
				if err := tun.Close(); err != nil {
					log.Printf("Failed to close ngrok tunnel: %v", err)
				}
			}()

			ngrokURL := tun.URL()
			log.Printf("Ngrok tunnel established: %s", ngrokURL)
			log.Printf("  REST API (ngrok): %s/api", ngrokURL)
			log.Printf("  WebSocket (ngrok): %s/ws", ngrokURL)
			log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

			if err := http.Serve(tun, mainRouter); err != nil && err != http.ErrServerClosed {
				log.Printf("Ngrok server error: %v", err)
			}
			log.Println("Ngrok tunnel closed")
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured port; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and
// targets that.
func runStdioMCPWithInternalServer(cfg serverConfig) {
	var baseURL string

	externalURL := fmt.Sprintf("http://localhost:%d", cfg.port)
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/info")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}

		internalAddr := fmt.Sprintf("127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		registry := room.NewRegistry()
		hub := websocket.NewHub()
		gateway := websocket.NewGateway(registry, hub)
		apiServer := api.NewServer(registry, gateway, cfg.corsOrigin)

		httpServer := &http.Server{
			Handler: apiServer,
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Wait a moment for the server to be ready
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Println("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
