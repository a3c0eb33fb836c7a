// Package platform reads host identification and guards the precondition
// gate that must hold before any mutation.
package platform

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

// DefaultOSReleasePath is the standard host identification file.
const DefaultOSReleasePath = "/etc/os-release"

// OSRelease is the host identification record from /etc/os-release.
type OSRelease struct {
	ID         string
	IDLike     []string
	VersionID  string
	PrettyName string
}

// LoadOSRelease reads and parses the host identification file.
func LoadOSRelease(fs ports.FileSystem, path string) (*OSRelease, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseOSRelease(data)
}

// ParseOSRelease parses os-release content. The format is a flat list of
// KEY=value assignments, which the ini parser handles including quoting.
func ParseOSRelease(data []byte) (*OSRelease, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse os-release: %w", err)
	}

	section := cfg.Section("")
	rel := &OSRelease{
		ID:         strings.ToLower(section.Key("ID").String()),
		VersionID:  section.Key("VERSION_ID").String(),
		PrettyName: section.Key("PRETTY_NAME").String(),
	}

	if like := section.Key("ID_LIKE").String(); like != "" {
		for _, f := range strings.Fields(like) {
			rel.IDLike = append(rel.IDLike, strings.ToLower(f))
		}
	}

	return rel, nil
}

// MatchesFamily reports whether the host belongs to the given
// distribution family, either directly (ID) or by ancestry (ID_LIKE).
func (r *OSRelease) MatchesFamily(family string) bool {
	family = strings.ToLower(family)
	if r.ID == family {
		return true
	}
	for _, like := range r.IDLike {
		if like == family {
			return true
		}
	}
	return false
}

// String returns the identification in human-readable form.
func (r *OSRelease) String() string {
	if r.PrettyName != "" {
		return r.PrettyName
	}
	if r.VersionID != "" {
		return r.ID + " " + r.VersionID
	}
	return r.ID
}
