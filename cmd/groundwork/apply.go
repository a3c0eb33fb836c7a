package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groundwork-sh/groundwork/internal/app"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Provision the host from the manifest",
	Long: `Apply executes the plan and changes the host.

This command:
1. Verifies the precondition gate (distribution family, tool versions)
2. Creates an execution plan (same as 'plan' command)
3. Executes each step in dependency order
4. Reports results

A failed critical step aborts the run with a non-zero exit code. Failed
non-critical steps are reported as warnings and do not affect the exit
code. Use --dry-run to see what would happen without making changes.`,
	RunE: runApply,
}

var (
	applyConfigPath string
	applyDryRun     bool
)

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applyConfigPath, "config", "c", "groundwork.yaml", "Path to groundwork.yaml")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be done without making changes")
	registerConfigCompletion(applyCmd)
}

func runApply(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	groundwork := app.New(os.Stdout)

	plan, err := groundwork.Plan(ctx, applyConfigPath)
	if err != nil {
		return err
	}

	groundwork.PrintPlan(plan)

	if !plan.HasChanges() {
		return nil
	}

	if applyDryRun {
		fmt.Println("\nDry run - no changes will be made.")
	} else {
		if !confirmApply(len(plan.NeedsApply())) {
			return fmt.Errorf("aborted by user")
		}
		fmt.Println("\nApplying changes...")
	}

	result := groundwork.Apply(ctx, plan, applyDryRun)
	groundwork.PrintResults(result)

	// Only critical failures make the run fail.
	if result.CriticalFailed() || result.Aborted {
		return fmt.Errorf("provisioning aborted")
	}
	return nil
}

func confirmApply(pending int) bool {
	if yesFlag {
		return true
	}
	fmt.Printf("\nProceed with %d pending steps? [y/N]: ", pending)
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
