package workspace

import (
	"context"
	"strings"
	"testing"
	"time"

	"mentorcore/internal/errors"
)

func TestCheckCommand_Builtin(t *testing.T) {
	blocked := []string{
		"rm -rf /",
		"sudo apt install cowsay",
		"cat /etc/passwd",
		"echo hi && RM -RF /",
	}
	for _, cmd := range blocked {
		if err := CheckCommand(cmd, nil); !errors.Is(err, errors.ErrCommandBlocked) {
			t.Errorf("CheckCommand(%q) should return COMMAND_BLOCKED, got: %v", cmd, err)
		}
	}

	allowed := []string{
		"ls -la",
		"python3 main.py",
		"rm -rf node_modules",
	}
	for _, cmd := range allowed {
		if err := CheckCommand(cmd, nil); err != nil {
			t.Errorf("CheckCommand(%q) failed: %v", cmd, err)
		}
	}
}

func TestCheckCommand_Extra(t *testing.T) {
	extra := []string{"curl ", " WGET "}
	if err := CheckCommand("curl http://example.com", extra); !errors.Is(err, errors.ErrCommandBlocked) {
		t.Errorf("extra pattern not enforced: %v", err)
	}
	if err := CheckCommand("Wget http://example.com", extra); !errors.Is(err, errors.ErrCommandBlocked) {
		t.Errorf("extra patterns should match case-insensitively: %v", err)
	}
	if err := CheckCommand("echo safe", extra); err != nil {
		t.Errorf("CheckCommand failed: %v", err)
	}
}

func TestRun_CapturesOutput(t *testing.T) {
	root := t.TempDir()

	res, err := Run(context.Background(), root, "echo out; echo err >&2", 10*time.Second, 64<<10, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if res.TimedOut || res.Truncated {
		t.Errorf("unexpected flags: %+v", res)
	}
}

func TestRun_WorkingDirectory(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "marker.txt", "here")

	res, err := Run(context.Background(), root, "cat marker.txt", 10*time.Second, 64<<10, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Stdout != "here" {
		t.Errorf("Stdout = %q, want marker content", res.Stdout)
	}
}

func TestRun_NonzeroExit(t *testing.T) {
	root := t.TempDir()

	res, err := Run(context.Background(), root, "exit 3", 10*time.Second, 64<<10, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRun_Timeout(t *testing.T) {
	root := t.TempDir()

	start := time.Now()
	res, err := Run(context.Background(), root, "echo partial; sleep 30", 300*time.Millisecond, 64<<10, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.TimedOut {
		t.Fatal("TimedOut = false, want true")
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
	// Partial output captured before the kill still comes back
	if !strings.Contains(res.Stdout, "partial") {
		t.Errorf("Stdout = %q, want partial output", res.Stdout)
	}
	// The kill happens promptly, not after the child's sleep
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run took %v, the process group was not reaped", elapsed)
	}
}

func TestRun_CapsOutput(t *testing.T) {
	root := t.TempDir()

	res, err := Run(context.Background(), root, "yes x | head -c 100000", 10*time.Second, 1024, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
	if int64(len(res.Stdout)) > 1024 {
		t.Errorf("Stdout length = %d, want <= 1024", len(res.Stdout))
	}
}

func TestRun_Blocked(t *testing.T) {
	root := t.TempDir()

	_, err := Run(context.Background(), root, "sudo rm file", 10*time.Second, 64<<10, nil)
	if !errors.Is(err, errors.ErrCommandBlocked) {
		t.Errorf("Run should return COMMAND_BLOCKED, got: %v", err)
	}
}

func TestRun_EmptyCommand(t *testing.T) {
	root := t.TempDir()

	_, err := Run(context.Background(), root, "   ", 10*time.Second, 64<<10, nil)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Run should return INVALID_REQUEST, got: %v", err)
	}
}

func TestRunFile_ShellScript(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "hello.sh", "echo from-script\n")

	res, err := RunFile(context.Background(), root, "hello.sh", 10*time.Second, 64<<10, nil)
	if err != nil {
		t.Fatalf("RunFile failed: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "from-script" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestRunFile_EntryPointFallback(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "run.sh", "echo picked\n")

	res, err := RunFile(context.Background(), root, "", 10*time.Second, 64<<10, nil)
	if err != nil {
		t.Fatalf("RunFile failed: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "picked" {
		t.Errorf("Stdout = %q, want output of the discovered entry point", res.Stdout)
	}
}

func TestRunFile_NoEntryPoint(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "notes.txt", "nothing runnable")

	_, err := RunFile(context.Background(), root, "", 10*time.Second, 64<<10, nil)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("RunFile should return NOT_FOUND, got: %v", err)
	}
}

func TestRunFile_NoInterpreter(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "data.csv", "a,b,c")

	_, err := RunFile(context.Background(), root, "data.csv", 10*time.Second, 64<<10, nil)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("RunFile should return INVALID_REQUEST, got: %v", err)
	}
}

func TestRunFile_MissingFile(t *testing.T) {
	root := t.TempDir()

	_, err := RunFile(context.Background(), root, "ghost.py", 10*time.Second, 64<<10, nil)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("RunFile should return NOT_FOUND, got: %v", err)
	}
}
