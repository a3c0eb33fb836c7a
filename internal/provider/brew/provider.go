package brew

import (
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
)

// Provider compiles the brew section into clone, permissions, and
// verify steps.
type Provider struct {
	runner Runner
	fs     ports.FileSystem
}

// NewProvider creates a new brew provider.
func NewProvider(runner Runner, fs ports.FileSystem) *Provider {
	return &Provider{
		runner: runner,
		fs:     fs,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "brew"
}

// Compile transforms the brew configuration into steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	section := ctx.GetSection("brew")
	if section == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(section)
	if err != nil {
		return nil, err
	}

	return []sequence.Step{
		NewCloneStep(cfg, p.runner, p.fs),
		NewPermissionsStep(cfg, p.runner, p.fs),
		NewVerifyStep(cfg, p.runner),
	}, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)
