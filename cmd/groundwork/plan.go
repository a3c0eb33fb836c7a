package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/groundwork-sh/groundwork/internal/app"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what apply would change",
	Long: `Plan verifies the precondition gate, checks every configured step
against the host's current state, and prints the steps an apply would
execute. Nothing on the host is changed.`,
	RunE: runPlan,
}

var planConfigPath string

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&planConfigPath, "config", "c", "groundwork.yaml", "Path to groundwork.yaml")
	registerConfigCompletion(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	groundwork := app.New(os.Stdout)

	plan, err := groundwork.Plan(ctx, planConfigPath)
	if err != nil {
		return err
	}

	groundwork.PrintPlan(plan)
	return nil
}
