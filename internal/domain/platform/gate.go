package platform

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
)

// ToolRequirement describes a minimum version a preinstalled tool must
// report before the run may mutate anything.
type ToolRequirement struct {
	Name       string   // display name, e.g. "node"
	Command    string   // binary to invoke
	Args       []string // version query arguments, e.g. ["--version"]
	MinVersion string   // minimum accepted version, e.g. "18" or "2.30"
}

// Gate is the precondition gate: distribution family plus tool version
// requirements. It runs before planning; if it fails, zero mutating
// actions have been performed.
type Gate struct {
	fs            ports.FileSystem
	runner        ports.CommandRunner
	osReleasePath string
	family        string
	tools         []ToolRequirement
}

// NewGate creates a precondition gate for the given distribution family.
func NewGate(fs ports.FileSystem, runner ports.CommandRunner, family string, tools []ToolRequirement) *Gate {
	return &Gate{
		fs:            fs,
		runner:        runner,
		osReleasePath: DefaultOSReleasePath,
		family:        family,
		tools:         tools,
	}
}

// WithOSReleasePath overrides the host identification file location.
func (g *Gate) WithOSReleasePath(path string) *Gate {
	g.osReleasePath = path
	return g
}

// Verify checks every precondition and returns a PreconditionUnmet error
// describing the first one that fails.
func (g *Gate) Verify(ctx context.Context) (*OSRelease, error) {
	rel, err := LoadOSRelease(g.fs, g.osReleasePath)
	if err != nil {
		return nil, sequence.NewStepError(sequence.ErrCodePreconditionUnmet,
			"could not identify the host operating system").
			WithSuggestion(fmt.Sprintf("Ensure %s exists and is readable.", g.osReleasePath)).
			WithUnderlying(err)
	}

	if g.family != "" && !rel.MatchesFamily(g.family) {
		return rel, sequence.NewStepError(sequence.ErrCodePreconditionUnmet,
			fmt.Sprintf("host reports %q, expected a %s-family distribution", rel.String(), g.family)).
			WithSuggestion("Run groundwork on a supported distribution, or change host.family in groundwork.yaml.")
	}

	for _, tool := range g.tools {
		if err := g.verifyTool(ctx, tool); err != nil {
			return rel, err
		}
	}

	return rel, nil
}

// Tools returns the configured tool requirements.
func (g *Gate) Tools() []ToolRequirement {
	return g.tools
}

func (g *Gate) verifyTool(ctx context.Context, tool ToolRequirement) error {
	result, err := g.runner.Run(ctx, tool.Command, tool.Args...)
	if err != nil || !result.Success() {
		return sequence.NewStepError(sequence.ErrCodePreconditionUnmet,
			fmt.Sprintf("required tool %q is not available", tool.Name)).
			WithSuggestion(fmt.Sprintf("Install %s >= %s before provisioning.", tool.Name, tool.MinVersion)).
			WithUnderlying(err)
	}

	version, ok := ExtractVersion(result.Stdout)
	if !ok {
		return sequence.NewStepError(sequence.ErrCodePreconditionUnmet,
			fmt.Sprintf("could not parse a version from %q output", tool.Command)).
			WithUnderlying(fmt.Errorf("output: %s", strings.TrimSpace(result.Stdout)))
	}

	min := canonical(tool.MinVersion)
	if semver.Compare(semver.Major(version), semver.Major(min)) < 0 {
		return sequence.NewStepError(sequence.ErrCodePreconditionUnmet,
			fmt.Sprintf("%s %s is below the required major version %s", tool.Name, strings.TrimPrefix(version, "v"), strings.TrimPrefix(semver.Major(min), "v"))).
			WithSuggestion(fmt.Sprintf("Upgrade %s to %s or newer.", tool.Name, tool.MinVersion))
	}

	return nil
}

// versionPattern matches the first dotted version token in tool output,
// e.g. "git version 2.43.0" or "v22.3.0".
var versionPattern = regexp.MustCompile(`v?(\d+(?:\.\d+){0,2})`)

// ExtractVersion pulls the first version token out of a tool's reported
// version string, normalized to the "vMAJOR[.MINOR[.PATCH]]" form semver
// comparison expects.
func ExtractVersion(output string) (string, bool) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return "", false
	}
	version := "v" + match[1]
	if !semver.IsValid(version) {
		return "", false
	}
	return version, true
}

func canonical(version string) string {
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}
