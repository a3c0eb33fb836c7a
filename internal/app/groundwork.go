// Package app wires the adapters and providers into the provisioning
// application: gate, plan, apply, and reporting.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/groundwork-sh/groundwork/internal/adapters/accounts"
	"github.com/groundwork-sh/groundwork/internal/adapters/command"
	"github.com/groundwork-sh/groundwork/internal/adapters/filesystem"
	"github.com/groundwork-sh/groundwork/internal/adapters/logging"
	"github.com/groundwork-sh/groundwork/internal/domain/config"
	"github.com/groundwork-sh/groundwork/internal/domain/platform"
	"github.com/groundwork-sh/groundwork/internal/domain/run"
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/domain/state"
	"github.com/groundwork-sh/groundwork/internal/ports"
	accountsprovider "github.com/groundwork-sh/groundwork/internal/provider/accounts"
	"github.com/groundwork-sh/groundwork/internal/provider/apt"
	"github.com/groundwork-sh/groundwork/internal/provider/brew"
	"github.com/groundwork-sh/groundwork/internal/provider/node"
	"github.com/groundwork-sh/groundwork/internal/provider/profile"
)

// HostRunner is the command surface the application needs: plain
// execution plus execution under another account's identity.
type HostRunner interface {
	ports.CommandRunner
	ports.RunAser
}

// Groundwork is the main application orchestrator. One instance serves
// one run: Plan gates and plans, Apply executes the plan it produced.
type Groundwork struct {
	runner HostRunner
	fs     ports.FileSystem
	dir    ports.AccountDirectory
	logger ports.Logger
	store  *state.Store
	loader *config.Loader
	out    io.Writer

	osReleasePath string
	lifecycle     *run.Lifecycle
	startedAt     time.Time
	styles        styles
}

// New creates a Groundwork application backed by the real host.
func New(out io.Writer) *Groundwork {
	runner := command.NewRealRunner()
	fs := filesystem.NewReal()

	return &Groundwork{
		runner:        runner,
		fs:            fs,
		dir:           accounts.NewDirectory(runner),
		logger:        logging.NewConsoleLogger(logging.WithOutput(os.Stderr)),
		store:         state.NewStore(fs),
		loader:        config.NewLoader(),
		out:           out,
		osReleasePath: platform.DefaultOSReleasePath,
		styles:        newStyles(),
	}
}

// WithRunner replaces the command runner.
func (g *Groundwork) WithRunner(runner HostRunner) *Groundwork {
	g.runner = runner
	return g
}

// WithFileSystem replaces the filesystem.
func (g *Groundwork) WithFileSystem(fs ports.FileSystem) *Groundwork {
	g.fs = fs
	return g
}

// WithDirectory replaces the account directory.
func (g *Groundwork) WithDirectory(dir ports.AccountDirectory) *Groundwork {
	g.dir = dir
	return g
}

// WithLogger replaces the logger.
func (g *Groundwork) WithLogger(logger ports.Logger) *Groundwork {
	g.logger = logger
	return g
}

// WithStateStore replaces the run record store.
func (g *Groundwork) WithStateStore(store *state.Store) *Groundwork {
	g.store = store
	return g
}

// WithOSReleasePath overrides the host identification file.
func (g *Groundwork) WithOSReleasePath(path string) *Groundwork {
	g.osReleasePath = path
	return g
}

// Phase returns the current lifecycle phase, or idle before Plan.
func (g *Groundwork) Phase() run.Phase {
	if g.lifecycle == nil {
		return run.PhaseIdle
	}
	return g.lifecycle.Phase()
}

// Plan loads the manifest, verifies the precondition gate, compiles the
// providers, and checks every step. Nothing on the host is mutated.
func (g *Groundwork) Plan(ctx context.Context, configPath string) (*run.Plan, error) {
	manifest, err := g.loader.Load(configPath)
	if err != nil {
		return nil, err
	}

	lifecycle, err := run.NewLifecycle()
	if err != nil {
		return nil, err
	}
	g.lifecycle = lifecycle
	g.startedAt = time.Now().UTC()

	lifecycle.Begin()

	rel, err := g.gate(manifest).Verify(ctx)
	if err != nil {
		lifecycle.Failed()
		return nil, err
	}
	g.logger.Info(ctx, "precondition gate passed", ports.F("os", rel.String()))
	lifecycle.PrecheckPassed()

	graph, err := g.compile(ctx, manifest)
	if err != nil {
		lifecycle.Failed()
		return nil, err
	}

	plan, err := run.NewPlanner().Plan(ctx, graph)
	if err != nil {
		lifecycle.Failed()
		return nil, err
	}

	lifecycle.Planned()
	return plan, nil
}

// Apply executes the plan produced by Plan. The run record is appended
// to the state file unless this is a dry run.
func (g *Groundwork) Apply(ctx context.Context, plan *run.Plan, dryRun bool) run.Result {
	executor := run.NewExecutor().
		WithDryRun(dryRun).
		WithObserver(g.printStepResult)

	result := executor.Execute(sequence.NewRunContext(ctx), plan)

	if g.lifecycle != nil {
		if result.CriticalFailed() || result.Aborted {
			g.lifecycle.Failed()
		} else {
			g.lifecycle.Completed()
		}
		g.lifecycle.Stop()
	}

	if !dryRun {
		if err := g.recordRun(result); err != nil {
			g.logger.Warn(ctx, "could not write run record", ports.F("error", err))
		}
	}

	return result
}

// gate builds the precondition gate from the manifest's host section.
func (g *Groundwork) gate(manifest *config.Manifest) *platform.Gate {
	tools := make([]platform.ToolRequirement, 0, 2)
	for _, t := range manifest.ToolRequirements() {
		tools = append(tools, platform.ToolRequirement{
			Name:       t.Name,
			Command:    t.Command,
			Args:       t.Args,
			MinVersion: t.Min,
		})
	}
	return platform.NewGate(g.fs, g.runner, manifest.Host.Family, tools).
		WithOSReleasePath(g.osReleasePath)
}

// compile registers the providers and compiles the manifest into a
// validated step graph. Registration order fixes the base run order.
func (g *Groundwork) compile(ctx context.Context, manifest *config.Manifest) (*sequence.StepGraph, error) {
	var users []ports.User
	if manifest.HasSection("profile") {
		var err error
		users, err = g.dir.LoginUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not list login users: %w", err)
		}
	}

	seq := sequence.NewSequencer()
	seq.RegisterProvider(apt.NewProvider(g.runner, g.fs))
	seq.RegisterProvider(accountsprovider.NewProvider(g.dir))
	seq.RegisterProvider(node.NewProvider(g.runner, g.fs))
	seq.RegisterProvider(brew.NewProvider(g.runner, g.fs))
	seq.RegisterProvider(profile.NewProvider(g.fs, users))

	return seq.Compile(manifest.Sections)
}

// recordRun appends the finished run to the state file.
func (g *Groundwork) recordRun(result run.Result) error {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	rec := state.NewRecord(host)
	rec.StartedAt = g.startedAt
	rec.FinishedAt = time.Now().UTC()
	rec.Aborted = result.Aborted
	for _, res := range result.Results {
		rec.Steps = append(rec.Steps, state.StepRecord{
			ID:     res.StepID().String(),
			Status: res.Status().String(),
		})
	}

	return g.store.Append(rec)
}

// PrintPlan outputs a human-readable plan, grouped by provider.
func (g *Groundwork) PrintPlan(plan *run.Plan) {
	summary := plan.Summary()

	g.printf("\n%s\n\n", g.styles.Heading.Render("Groundwork Plan"))

	if !plan.HasChanges() {
		g.printf("%s\n", g.styles.Satisfied.Render("No changes needed. The host is already provisioned."))
		return
	}

	g.printf("Steps: %d total, %d to apply, %d satisfied\n",
		summary.Total, summary.NeedsApply, summary.Satisfied)

	caser := cases.Title(language.English)
	lastProvider := ""
	for _, entry := range plan.Entries() {
		provider := entry.Step().ID().Provider()
		if provider != lastProvider {
			g.printf("\n%s\n", g.styles.Provider.Render(caser.String(provider)))
			lastProvider = provider
		}

		marker := g.styles.Satisfied.Render("✓")
		if entry.Status() == sequence.StatusNeedsApply {
			marker = g.styles.Change.Render("+")
		}
		g.printf("  %s %s\n", marker, entry.Step().ID().String())

		if diff := entry.Diff(); !diff.IsEmpty() {
			g.printf("      %s\n", g.styles.Muted.Render(diff.Summary()))
		}
	}

	g.printf("\nRun 'groundwork apply' to execute this plan.\n")
}

// printStepResult emits one status line while the run progresses.
func (g *Groundwork) printStepResult(result run.StepResult) {
	id := result.StepID().String()
	switch result.Status() {
	case sequence.StatusSatisfied:
		g.printf("  %s %s\n", g.styles.Satisfied.Render("✓"), id)
	case sequence.StatusFailed:
		if result.Critical() {
			g.printf("  %s %s: %v\n", g.styles.Fail.Render("✗"), id, result.Error())
		} else {
			g.printf("  %s %s: %v\n", g.styles.Warn.Render("!"), id, result.Error())
		}
	case sequence.StatusSkipped:
		g.printf("  %s\n", g.styles.Muted.Render("- "+id+" (skipped)"))
	case sequence.StatusNeedsApply:
		g.printf("  %s %s\n", g.styles.Change.Render("+"), id)
	case sequence.StatusUnknown:
		g.printf("  ? %s\n", id)
	}
}

// PrintResults outputs the run summary after Apply.
func (g *Groundwork) PrintResults(result run.Result) {
	var succeeded, warned, failed, skipped int
	for _, res := range result.Results {
		switch res.Status() {
		case sequence.StatusFailed:
			if res.Critical() {
				failed++
			} else {
				warned++
			}
		case sequence.StatusSkipped:
			skipped++
		case sequence.StatusSatisfied:
			succeeded++
		case sequence.StatusNeedsApply, sequence.StatusUnknown:
			// Dry runs report planned statuses as-is.
			succeeded++
		}
	}

	g.printf("\nSummary: %d succeeded, %d failed, %d warnings, %d skipped\n",
		succeeded, failed, warned, skipped)

	if warned > 0 {
		g.printf("%s\n", g.styles.Warn.Render("Some non-critical steps failed; the run is still considered successful."))
	}
	if result.CriticalFailed() {
		g.printf("%s\n", g.styles.Fail.Render("A critical step failed. The run was aborted."))
	}
}

// printf writes to the output writer, ignoring errors.
func (g *Groundwork) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(g.out, format, args...)
}
