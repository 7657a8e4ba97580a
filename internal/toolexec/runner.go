package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"autocontent/internal/faults"
)

// maxStderr bounds how much stderr a ToolError keeps.
const maxStderr = 4096

// Runner executes a tool and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CommandRunner runs tools with os/exec.
type CommandRunner struct {
	// Dir is the working directory; empty inherits the process directory.
	Dir string
}

// Run implements Runner.
func (r CommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	// #nosec G204 - binaries come from configuration, arguments are built internally
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s cancelled: %w", filepath.Base(name), ctx.Err())
		}
		return nil, &ToolError{
			Tool:   filepath.Base(name),
			Args:   args,
			Stderr: tail(stderr.String(), maxStderr),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// ToolError represents a failed tool invocation, including its stderr.
type ToolError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s error: %v", e.Tool, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + lastLine(stderr)
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is reports ToolError as an external tool failure.
func (e *ToolError) Is(target error) bool {
	return target == faults.ErrExternalTool
}

// ExitCode returns the tool's exit status, or -1 when it did not exit normally.
func (e *ToolError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func tail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}

func lastLine(s string) string {
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}
