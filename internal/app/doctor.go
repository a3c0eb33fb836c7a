package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/groundwork-sh/groundwork/internal/domain/config"
	"github.com/groundwork-sh/groundwork/internal/domain/platform"
	"github.com/groundwork-sh/groundwork/internal/domain/run"
)

// CheckStatus classifies one doctor finding.
type CheckStatus string

// Doctor check statuses.
const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// DoctorCheck is one host health finding.
type DoctorCheck struct {
	Name   string
	Status CheckStatus
	Detail string
}

// DoctorReport is the outcome of a host inspection. It reads the host
// but never mutates it.
type DoctorReport struct {
	Checks []DoctorCheck
}

// Healthy reports whether no check failed.
func (r *DoctorReport) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			return false
		}
	}
	return true
}

func (r *DoctorReport) add(name string, status CheckStatus, detail string) {
	r.Checks = append(r.Checks, DoctorCheck{Name: name, Status: status, Detail: detail})
}

// Doctor inspects the host against the manifest: distribution family,
// tool versions, pending steps, and run history.
func (g *Groundwork) Doctor(ctx context.Context, configPath string) (*DoctorReport, error) {
	manifest, err := g.loader.Load(configPath)
	if err != nil {
		return nil, err
	}

	report := &DoctorReport{}

	rel, err := platform.LoadOSRelease(g.fs, g.osReleasePath)
	switch {
	case err != nil:
		report.add("os-release", CheckFail, fmt.Sprintf("could not identify the host: %v", err))
	case !rel.MatchesFamily(manifest.Host.Family):
		report.add("os-release", CheckFail,
			fmt.Sprintf("host reports %s, expected %s family", rel.String(), manifest.Host.Family))
	default:
		report.add("os-release", CheckOK, rel.String())
	}

	for _, t := range manifest.ToolRequirements() {
		g.doctorTool(ctx, report, t.Name, t.Command, t.Args, t.Min)
	}

	g.doctorPending(ctx, report, manifest)
	g.doctorHistory(report)

	return report, nil
}

func (g *Groundwork) doctorTool(ctx context.Context, report *DoctorReport, name, cmd string, args []string, minVersion string) {
	result, err := g.runner.Run(ctx, cmd, args...)
	if err != nil || !result.Success() {
		report.add("tool:"+name, CheckFail, fmt.Sprintf("%s is not available (need >= %s)", name, minVersion))
		return
	}
	version, ok := platform.ExtractVersion(result.Stdout)
	if !ok {
		report.add("tool:"+name, CheckWarn, fmt.Sprintf("could not parse version from %q", strings.TrimSpace(result.Stdout)))
		return
	}
	report.add("tool:"+name, CheckOK, fmt.Sprintf("%s %s (need >= %s)", name, strings.TrimPrefix(version, "v"), minVersion))
}

func (g *Groundwork) doctorPending(ctx context.Context, report *DoctorReport, manifest *config.Manifest) {
	graph, err := g.compile(ctx, manifest)
	if err != nil {
		report.add("plan", CheckFail, fmt.Sprintf("manifest does not compile: %v", err))
		return
	}

	plan, err := run.NewPlanner().Plan(ctx, graph)
	if err != nil {
		report.add("plan", CheckWarn, fmt.Sprintf("could not check steps: %v", err))
		return
	}

	summary := plan.Summary()
	if summary.NeedsApply == 0 {
		report.add("plan", CheckOK, fmt.Sprintf("all %d steps satisfied", summary.Total))
	} else {
		report.add("plan", CheckWarn,
			fmt.Sprintf("%d of %d steps pending, run 'groundwork apply'", summary.NeedsApply, summary.Total))
	}
}

func (g *Groundwork) doctorHistory(report *DoctorReport) {
	doc, err := g.store.Load()
	if err != nil {
		report.add("state", CheckWarn, fmt.Sprintf("could not read %s: %v", g.store.Path(), err))
		return
	}

	last, ok := doc.LastRun()
	if !ok {
		report.add("state", CheckWarn, "no recorded runs yet")
		return
	}
	if last.Aborted {
		report.add("state", CheckWarn,
			fmt.Sprintf("last run %s on %s was aborted", last.ID, last.FinishedAt.Format("2006-01-02 15:04")))
		return
	}
	report.add("state", CheckOK,
		fmt.Sprintf("last run finished %s", last.FinishedAt.Format("2006-01-02 15:04")))
}

// PrintDoctorReport outputs the findings with one line per check.
func (g *Groundwork) PrintDoctorReport(report *DoctorReport) {
	g.printf("\n%s\n\n", g.styles.Heading.Render("Groundwork Doctor"))

	for _, check := range report.Checks {
		var marker string
		switch check.Status {
		case CheckOK:
			marker = g.styles.Satisfied.Render("✓")
		case CheckWarn:
			marker = g.styles.Warn.Render("!")
		case CheckFail:
			marker = g.styles.Fail.Render("✗")
		}
		g.printf("  %s %-14s %s\n", marker, check.Name, check.Detail)
	}

	if report.Healthy() {
		g.printf("\n%s\n", g.styles.Satisfied.Render("Host looks healthy."))
	} else {
		g.printf("\n%s\n", g.styles.Fail.Render("Host has problems that block provisioning."))
	}
}
