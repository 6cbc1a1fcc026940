package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <backup.json>",
	Short: "Replace the attendance document with a backup file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	_, tr, err := setup()
	if err != nil {
		return err
	}

	if err := tr.ImportJSON(data); err != nil {
		return err
	}

	fmt.Printf("Backup %s restored\n", args[0])
	return nil
}
