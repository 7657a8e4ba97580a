package toolexec

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"autocontent/internal/faults"
)

func skipIfNoShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH, skipping test")
	}
}

func TestCommandRunnerReturnsStdout(t *testing.T) {
	skipIfNoShell(t)
	out, err := CommandRunner{}.Run(context.Background(), "sh", "-c", "printf hello; printf noise >&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("expected stdout only, got %q", out)
	}
}

func TestCommandRunnerWrapsFailure(t *testing.T) {
	skipIfNoShell(t)
	_, err := CommandRunner{}.Run(context.Background(), "sh", "-c", "echo first >&2; echo 'bad input' >&2; exit 3")
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %T", err)
	}
	if !errors.Is(err, faults.ErrExternalTool) {
		t.Fatal("expected ToolError to match ErrExternalTool")
	}
	if toolErr.ExitCode() != 3 || toolErr.Tool != "sh" {
		t.Fatalf("unexpected tool error %+v", toolErr)
	}
	if !strings.HasSuffix(err.Error(), "bad input") {
		t.Fatalf("expected last stderr line in message, got %q", err.Error())
	}
}

func TestCommandRunnerCancelled(t *testing.T) {
	skipIfNoShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CommandRunner{}.Run(ctx, "sh", "-c", "sleep 5")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{Tool: "ffmpeg", Args: []string{"-i", "x"}, Stderr: "", Err: errors.New("exit status 1")}
	if err.Error() != "ffmpeg error: exit status 1" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err.ExitCode() != -1 {
		t.Fatalf("expected -1 exit code for non-exit error")
	}
	if got := tail("abcdef", 3); got != "def" {
		t.Fatalf("tail = %q", got)
	}
}
