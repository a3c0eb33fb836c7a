package node

import (
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
)

// Provider compiles the node section into corepack and pnpm steps.
type Provider struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewProvider creates a new node provider.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem) *Provider {
	return &Provider{
		runner: runner,
		fs:     fs,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "node"
}

// Compile transforms the node configuration into steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	section := ctx.GetSection("node")
	if section == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(section)
	if err != nil {
		return nil, err
	}

	return []sequence.Step{
		NewEnableStep(cfg, p.runner, p.fs),
		NewActivateStep(cfg, p.runner),
		NewVerifyStep(cfg, p.runner),
	}, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)
