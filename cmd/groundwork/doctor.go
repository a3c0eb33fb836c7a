package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groundwork-sh/groundwork/internal/app"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Inspect the host without changing it",
	Long: `Doctor reports the host's provisioning health: the operating
system identification, required tool versions, pending steps, and the
outcome of the last recorded run.`,
	RunE: runDoctor,
}

var doctorConfigPath string

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().StringVarP(&doctorConfigPath, "config", "c", "groundwork.yaml", "Path to groundwork.yaml")
	registerConfigCompletion(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	groundwork := app.New(os.Stdout)

	report, err := groundwork.Doctor(ctx, doctorConfigPath)
	if err != nil {
		return err
	}

	groundwork.PrintDoctorReport(report)

	if !report.Healthy() {
		return fmt.Errorf("host is not ready for provisioning")
	}
	return nil
}
