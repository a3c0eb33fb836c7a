package profile

import (
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
	"github.com/groundwork-sh/groundwork/internal/ports"
)

// Provider compiles the profile section into fragment steps. The login
// user list is resolved by the caller before compilation, since step
// identity depends on which users exist on the host.
type Provider struct {
	fs    ports.FileSystem
	users []ports.User
}

// NewProvider creates a new profile provider. users are the existing
// login accounts that receive best-effort fragments.
func NewProvider(fs ports.FileSystem, users []ports.User) *Provider {
	return &Provider{
		fs:    fs,
		users: users,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "profile"
}

// Compile transforms the profile configuration into steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	section := ctx.GetSection("profile")
	if section == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(section)
	if err != nil {
		return nil, err
	}

	steps := []sequence.Step{NewSystemwideStep(cfg, p.fs)}
	if cfg.Skel {
		steps = append(steps, NewSkelStep(cfg, p.fs))
	}
	if cfg.Users {
		for _, user := range p.users {
			step, err := NewUserStep(cfg, user, p.fs)
			if err != nil {
				// Per-user fragments are best effort: a passwd entry
				// whose name does not fit the ID grammar is skipped, it
				// never blocks the run.
				continue
			}
			steps = append(steps, step)
		}
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)
