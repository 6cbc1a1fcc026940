package cmd

import (
	"fmt"
	"os"
	"time"

	"attendance/tracker"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup of the whole attendance document",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default zaloha_dochadzka_<today>.json)")
}

func runExport(cmd *cobra.Command, args []string) error {
	_, tr, err := setup()
	if err != nil {
		return err
	}

	data, err := tr.ExportJSON()
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	out := exportOut
	if out == "" {
		out = tracker.ExportFilename(time.Now())
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	fmt.Printf("Backup written to %s\n", out)
	return nil
}
