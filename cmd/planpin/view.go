package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/galhadida80/planpin"
	"github.com/galhadida80/planpin/internal/adapters/memory"
	"github.com/galhadida80/planpin/internal/adapters/term"
	"github.com/galhadida80/planpin/internal/config"
	"github.com/galhadida80/planpin/internal/logging"
	"github.com/galhadida80/planpin/internal/presentation/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Render the overlay in the terminal",
	Long: `Draws the pin overlay as a character grid with a markdown legend.
Useful for eyeballing a pin set without a graphical host.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		pinsDir, _ := cmd.Flags().GetString("pins")
		snapshotPath, _ := cmd.Flags().GetString("snapshot")
		floorplanID, _ := cmd.Flags().GetString("floorplan")
		zoom, _ := cmd.Flags().GetFloat64("zoom")

		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		// The grid is noisy enough; keep logs to warnings.
		logger := logging.New(slog.LevelWarn)

		surface := term.New(os.Stdout, defaultViewport())
		source := memory.NewSource()

		overlay, err := planpin.New(surface, source, overlayOptions(cfg, logger, nil)...)
		if err != nil {
			fmt.Printf("Error initializing overlay: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		overlay.Start(ctx)
		defer overlay.Close()

		if zoom > 0 {
			surface.SetZoom(zoom)
		}

		pins, err := loadInput(ctx, source, snapshotPath, pinsDir, floorplanID)
		if err != nil {
			fmt.Printf("Error loading pins: %v\n", err)
			os.Exit(1)
		}
		if len(pins) == 0 {
			fmt.Println("No pins to display.")
			return
		}
		overlay.SetPins(ctx, pins)

		// Statuses resolve asynchronously; give the fan-out a moment.
		deadline := time.Now().Add(3 * time.Second)
		for len(overlay.Statuses()) < len(pins) && time.Now().Before(deadline) {
			time.Sleep(20 * time.Millisecond)
		}

		render := tui.NewRenderer()
		legend, err := render(tui.LegendMarkdown(overlay.Groups(), len(pins)))
		if err != nil {
			fmt.Printf("Error rendering legend: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(legend)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().String("pins", "", "Directory containing pin documents")
	viewCmd.Flags().String("snapshot", "", "Snapshot file to load pins from")
	viewCmd.Flags().String("floorplan", "", "Floorplan ID to filter pins by")
	viewCmd.Flags().Float64("zoom", 0, "Zoom factor for the rendered view")
}
