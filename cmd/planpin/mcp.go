package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/galhadida80/planpin"
	mcpAdapter "github.com/galhadida80/planpin/internal/adapters/mcp"
	"github.com/galhadida80/planpin/internal/adapters/memory"
	"github.com/galhadida80/planpin/internal/config"
	"github.com/galhadida80/planpin/internal/logging"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the overlay engine as an MCP Server so AI agents can inspect
markers and place pins as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		pinsDir, _ := cmd.Flags().GetString("pins")
		snapshotPath, _ := cmd.Flags().GetString("snapshot")
		floorplanID, _ := cmd.Flags().GetString("floorplan")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := config.Load(cfgPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		// Logs must stay off Stdout or they corrupt JSON-RPC.
		logger := logging.New(parseLevel(cfg.Log.Level))

		surface := memory.NewSurface(defaultViewport())
		source := memory.NewSource()

		overlay, err := planpin.New(surface, source, overlayOptions(cfg, logger, nil)...)
		if err != nil {
			log.Fatalf("Error initializing overlay: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		overlay.Start(ctx)
		defer overlay.Close()

		pins, err := loadInput(ctx, source, snapshotPath, pinsDir, floorplanID)
		if err != nil {
			log.Fatalf("Error loading pins: %v", err)
		}
		overlay.SetPins(ctx, pins)

		srv := mcpAdapter.NewServer(overlay)

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			logger.Info("Starting Planpin MCP Server (Stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			logger.Info("Starting Planpin MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					logger.Error("MCP Server execution failed", "error", err)
					os.Exit(1)
				}
			}
			fmt.Println("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("pins", "", "Directory containing pin documents")
	mcpCmd.Flags().String("snapshot", "", "Snapshot file to load pins from")
	mcpCmd.Flags().String("floorplan", "", "Floorplan ID to filter pins by")
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
