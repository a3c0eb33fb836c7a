package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/groundwork-sh/groundwork/internal/domain/config"
	"github.com/groundwork-sh/groundwork/internal/domain/sequence"
)

func TestFormatError_UserError(t *testing.T) {
	err := config.NewConfigNotFoundError("/etc/groundwork.yaml")

	msg := formatError(err)
	assert.Contains(t, msg, "configuration file not found")
	assert.Contains(t, msg, "(at /etc/groundwork.yaml)")
	assert.Contains(t, msg, "Suggestion:")
}

func TestFormatError_StepError(t *testing.T) {
	err := sequence.NewStepError(sequence.ErrCodePreconditionUnmet, "required tool \"node\" is not available").
		WithSuggestion("Install node >= 18 before provisioning.").
		WithUnderlying(errors.New("exec: \"node\": executable file not found in $PATH"))

	msg := formatError(err)
	assert.Contains(t, msg, "required tool")
	assert.Contains(t, msg, "Suggestion: Install node")
	assert.NotContains(t, msg, "executable file not found")
}

func TestFormatError_StepError_Verbose(t *testing.T) {
	verbose = true
	defer func() { verbose = false }()

	err := sequence.NewStepError(sequence.ErrCodeApplyFailed, "step failed to apply").
		WithUnderlying(errors.New("apt-get update exited 100"))

	msg := formatError(err)
	assert.Contains(t, msg, "Technical details: apt-get update exited 100")
}

func TestFormatError_PlainError(t *testing.T) {
	msg := formatError(errors.New("something unexpected"))
	assert.Equal(t, "something unexpected", msg)
}

func TestPrintErrorTo(t *testing.T) {
	var buf bytes.Buffer
	printErrorTo(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}
