// Package validation provides input validation for values that end up as
// OS command arguments, preventing command injection and path traversal.
package validation

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidVersionSpec = errors.New("invalid version specifier")
	ErrInvalidPath        = errors.New("invalid path")
	ErrPathTraversal      = errors.New("path traversal detected")
)

// Compiled patterns (compiled once).
var (
	// packageNameRegex matches valid apt package names: alphanumeric
	// with hyphens, underscores, dots, and plus. Examples: "git",
	// "build-essential", "g++".
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

	// accountNameRegex matches the names useradd and groupadd accept.
	// Examples: "linuxbrew", "svc-brew".
	accountNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

	// versionSpecRegex matches pinned versions such as "9", "9.12" or
	// "9.12.1", optionally suffixed with a prerelease tag.
	versionSpecRegex = regexp.MustCompile(`^\d+(\.\d+){0,2}(-[a-zA-Z0-9.]+)?$`)
)

// ValidatePackageName checks that a package name is safe for use as a
// command argument.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !packageNameRegex.MatchString(name) {
		return ErrInvalidPackageName
	}
	return nil
}

// ValidateAccountName checks a user or group name against useradd rules.
func ValidateAccountName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if len(name) > 32 || !accountNameRegex.MatchString(name) {
		return ErrInvalidAccountName
	}
	return nil
}

// ValidateVersionSpec checks a pinned version such as "9.12.1".
func ValidateVersionSpec(version string) error {
	if version == "" {
		return ErrEmptyInput
	}
	if version == "latest" {
		return nil
	}
	if !versionSpecRegex.MatchString(version) {
		return ErrInvalidVersionSpec
	}
	return nil
}

// ValidateAbsolutePath checks that a target path is absolute and free of
// traversal segments.
func ValidateAbsolutePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}
	if !filepath.IsAbs(path) {
		return ErrInvalidPath
	}
	if strings.Contains(path, "..") {
		return ErrPathTraversal
	}
	return nil
}
