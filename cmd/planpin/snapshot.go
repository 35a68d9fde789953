package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	loamAdapter "github.com/galhadida80/planpin/internal/adapters/loam"
	"github.com/galhadida80/planpin/internal/snapshot"
	"github.com/galhadida80/planpin/pkg/domain"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save or inspect overlay snapshots",
	Long: `Snapshots freeze a floorplan's pins and their statuses into a single
compressed file, for offline viewing and for serving without a pin directory.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Capture a pin directory into a snapshot file",
	Run: func(cmd *cobra.Command, args []string) {
		pinsDir, _ := cmd.Flags().GetString("pins")
		floorplanID, _ := cmd.Flags().GetString("floorplan")
		out, _ := cmd.Flags().GetString("out")

		repo, err := loamAdapter.Open(pinsDir)
		if err != nil {
			fmt.Printf("Error opening pin directory: %v\n", err)
			os.Exit(1)
		}

		pins, statuses, err := repo.ListPinsWithStatuses(context.Background(), floorplanID)
		if err != nil {
			fmt.Printf("Error listing pins: %v\n", err)
			os.Exit(1)
		}

		// Pins without a declared status are recorded as open.
		for _, p := range pins {
			if _, ok := statuses[p.ID]; !ok {
				statuses[p.ID] = domain.StatusOpen
			}
		}

		snap := snapshot.Snapshot{
			FloorplanID: floorplanID,
			TakenAt:     time.Now().UTC(),
			Pins:        pins,
			Statuses:    statuses,
		}
		if err := snapshot.Save(out, snap); err != nil {
			fmt.Printf("Error saving snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %d pin(s) to %s\n", len(pins), out)
	},
}

var snapshotInspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print a summary of a snapshot file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		snap, err := snapshot.Load(args[0])
		if err != nil {
			fmt.Printf("Error loading snapshot: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Floorplan: %s\n", snap.FloorplanID)
		fmt.Printf("Taken at:  %s\n", snap.TakenAt.Format(time.RFC3339))
		fmt.Printf("Pins:      %d\n", len(snap.Pins))

		counts := make(map[domain.Status]int)
		for _, st := range snap.Statuses {
			counts[st]++
		}
		for _, st := range []domain.Status{
			domain.StatusOpen,
			domain.StatusInProgress,
			domain.StatusResolved,
			domain.StatusClosed,
		} {
			if counts[st] > 0 {
				fmt.Printf("  %-12s %d\n", st, counts[st])
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotInspectCmd)

	snapshotSaveCmd.Flags().String("pins", "", "Directory containing pin documents")
	snapshotSaveCmd.Flags().String("floorplan", "", "Floorplan ID to filter pins by")
	snapshotSaveCmd.Flags().String("out", "overlay.snap", "Output snapshot file")
	_ = snapshotSaveCmd.MarkFlagRequired("pins")
}
