package apt

import (
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
)

// Provider compiles the apt section into update and install steps.
type Provider struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewProvider creates a new apt provider.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem) *Provider {
	return &Provider{
		runner: runner,
		fs:     fs,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "apt"
}

// Compile transforms the apt configuration into steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	section := ctx.GetSection("apt")
	if section == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(section)
	if err != nil {
		return nil, err
	}

	if len(cfg.Packages) == 0 {
		return nil, nil
	}

	steps := make([]sequence.Step, 0, len(cfg.Packages)+1)
	steps = append(steps, NewUpdateStep(p.runner, p.fs))

	for _, pkg := range cfg.Packages {
		steps = append(steps, NewPackageStep(pkg, p.runner))
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)
