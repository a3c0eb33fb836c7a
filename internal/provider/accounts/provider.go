package accounts

import (
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
)

// Provider compiles the accounts section into group, user, and
// membership steps.
type Provider struct {
	dir ports.AccountDirectory
}

// NewProvider creates a new accounts provider.
func NewProvider(dir ports.AccountDirectory) *Provider {
	return &Provider{dir: dir}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "accounts"
}

// Compile transforms the accounts configuration into steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	section := ctx.GetSection("accounts")
	if section == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(section)
	if err != nil {
		return nil, err
	}

	var steps []sequence.Step
	for _, group := range cfg.Groups {
		steps = append(steps, NewGroupStep(group, p.dir))
	}
	for _, user := range cfg.Users {
		steps = append(steps, NewUserStep(user, p.dir))
	}
	for _, member := range cfg.Members {
		steps = append(steps, NewMemberStep(member, p.dir))
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)
