package cmd

import (
	"fmt"
	"time"

	"attendance/report"

	"github.com/spf13/cobra"
)

var (
	reportMonth int
	reportYear  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the month's attendance summary",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	now := time.Now()
	reportCmd.Flags().IntVar(&reportMonth, "month", int(now.Month()), "Month (1-12)")
	reportCmd.Flags().IntVar(&reportYear, "year", now.Year(), "Year")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportMonth < 1 || reportMonth > 12 {
		return fmt.Errorf("invalid month %d", reportMonth)
	}

	_, tr, err := setup()
	if err != nil {
		return err
	}

	rep := report.New(tr.State(), reportYear, time.Month(reportMonth))
	fmt.Print(rep.Text())
	return nil
}
