package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/galhadida80/planpin"
	httpAdapter "github.com/galhadida80/planpin/internal/adapters/http"
	"github.com/galhadida80/planpin/internal/adapters/memory"
	"github.com/galhadida80/planpin/internal/config"
	"github.com/galhadida80/planpin/internal/logging"
	"github.com/galhadida80/planpin/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the overlay HTTP server",
	Long: `Starts the overlay engine behind a JSON API. Pins are loaded from a
snapshot file or a pin directory; clients read and replace them over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		pinsDir, _ := cmd.Flags().GetString("pins")
		snapshotPath, _ := cmd.Flags().GetString("snapshot")
		floorplanID, _ := cmd.Flags().GetString("floorplan")
		listen, _ := cmd.Flags().GetString("listen")

		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if listen != "" {
			cfg.HTTP.Listen = listen
		}

		logger := logging.New(parseLevel(cfg.Log.Level))

		reg := prometheus.NewRegistry()
		m := metrics.New(reg)

		surface := memory.NewSurface(defaultViewport())
		source := memory.NewSource()

		overlay, err := planpin.New(surface, source, overlayOptions(cfg, logger, m)...)
		if err != nil {
			fmt.Printf("Error initializing overlay: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		overlay.Start(ctx)
		defer overlay.Close()

		pins, err := loadInput(ctx, source, snapshotPath, pinsDir, floorplanID)
		if err != nil {
			fmt.Printf("Error loading pins: %v\n", err)
			os.Exit(1)
		}
		overlay.SetPins(ctx, pins)

		handler, err := httpAdapter.NewHandler(overlay, logger, planpin.Version, reg)
		if err != nil {
			fmt.Printf("Error building handler: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    cfg.HTTP.Listen,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Planpin Server on %s\n", srv.Addr)
			fmt.Printf("Serving %d pin(s)\n", len(pins))
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case <-ctx.Done():
			fmt.Println("\nStart shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Planpin Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (overrides config)")
	serveCmd.Flags().String("pins", "", "Directory containing pin documents")
	serveCmd.Flags().String("snapshot", "", "Snapshot file to load pins from")
	serveCmd.Flags().String("floorplan", "", "Floorplan ID to filter pins by")
}
