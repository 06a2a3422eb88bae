package workspace

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"mentorcore/internal/errors"
)

// blockedPatterns is the built-in command denylist, matched as lowercase
// substrings of the raw command string. This is a tripwire for obvious
// footguns, not a sandbox; real isolation belongs to the deployment layer.
var blockedPatterns = []string{
	"rm -rf /",
	"rm -fr /",
	"mkfs",
	"dd if=/dev/",
	"> /dev/sd",
	":(){",
	"shutdown",
	"reboot",
	"poweroff",
	"halt -",
	"sudo ",
	"chmod -r 777 /",
	"chown -r ",
	"/etc/passwd",
	"/etc/shadow",
}

// interpreterByExtension maps file extensions to interpreter invocations for
// RunFile.
var interpreterByExtension = map[string]string{
	".py":  "python3",
	".js":  "node",
	".mjs": "node",
	".sh":  "sh",
	".rb":  "ruby",
	".php": "php",
	".pl":  "perl",
	".go":  "go run",
}

// runnableEntryPoints is the fixed priority order consulted when RunFile is
// called without a target file.
var runnableEntryPoints = []string{
	"main.py", "app.py",
	"index.js", "main.js", "server.js", "app.js",
	"main.go",
	"main.sh", "run.sh",
}

// CheckCommand matches command against the built-in denylist plus any
// configured extra patterns. Returns COMMAND_BLOCKED on a match.
func CheckCommand(command string, extra []string) error {
	lower := strings.ToLower(command)
	for _, p := range blockedPatterns {
		if strings.Contains(lower, p) {
			return errors.NewCommandBlocked(p)
		}
	}
	for _, p := range extra {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(lower, p) {
			return errors.NewCommandBlocked(p)
		}
	}
	return nil
}

// Run executes a shell command with the workspace root as working directory.
//
// The command gets a hard wall-clock budget: on expiry the whole process
// group is killed and a TimedOut execution is returned with whatever partial
// output was captured — partial output still has diagnostic value. Each
// stream is capped at maxOutput bytes; overflow truncates and sets
// Truncated instead of buffering a runaway process. Cancellation of ctx also
// kills the process group before returning, so no child outlives the call.
func Run(ctx context.Context, root, command string, timeout time.Duration, maxOutput int64, extraBlocked []string) (*Execution, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.NewInvalidRequest("command is required")
	}
	if err := CheckCommand(command, extraBlocked); err != nil {
		return nil, err
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = root
	// Own process group so the entire tree can be reaped on timeout.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &cappedWriter{max: maxOutput}
	stderr := &cappedWriter{max: maxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("start command: %w", err))
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var waitErr error
	timedOut := false
	select {
	case <-runCtx.Done():
		if cmd.Process != nil {
			// Negative pid targets the process group.
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		if ctx.Err() != nil {
			// Caller cancellation, distinct from the wall-clock budget.
			return nil, errors.NewInternal(ctx.Err())
		}
		timedOut = true
	case waitErr = <-done:
	}

	exitCode := 0
	if timedOut {
		exitCode = -1
	} else if waitErr != nil {
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			return nil, errors.NewInternal(fmt.Errorf("wait command: %w", waitErr))
		}
		exitCode = exitErr.ExitCode()
	}

	return &Execution{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode,
		WallTime:  time.Since(start),
		Truncated: stdout.truncated || stderr.truncated,
		TimedOut:  timedOut,
	}, nil
}

// RunFile runs a single file through the interpreter its extension selects.
// With an empty rel it tries the well-known entry-point filenames at the
// workspace root in fixed priority order.
func RunFile(ctx context.Context, root, rel string, timeout time.Duration, maxOutput int64, extraBlocked []string) (*Execution, error) {
	if rel == "" {
		for _, candidate := range runnableEntryPoints {
			if fileExists(filepath.Join(root, candidate)) {
				rel = candidate
				break
			}
		}
		if rel == "" {
			return nil, errors.NewNotFound("runnable entry point")
		}
	}

	abs, err := Resolve(root, rel)
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(abs); statErr != nil || !info.Mode().IsRegular() {
		return nil, errors.NewNotFound(rel)
	}

	interp, ok := interpreterByExtension[strings.ToLower(filepath.Ext(rel))]
	if !ok {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("no interpreter for %s", rel))
	}

	command := fmt.Sprintf("%s %s", interp, shellQuote(filepath.ToSlash(rel)))
	return Run(ctx, root, command, timeout, maxOutput, extraBlocked)
}

// shellQuote single-quotes s for sh -c.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// cappedWriter buffers writes up to max bytes, discarding the rest. Each
// stream has its own writer, so no locking is needed.
type cappedWriter struct {
	max       int64
	buf       bytes.Buffer
	truncated bool
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	if w.max <= 0 {
		w.buf.Write(p)
		return len(p), nil
	}
	remaining := w.max - int64(w.buf.Len())
	if remaining <= 0 {
		w.truncated = true
		return len(p), nil
	}
	if int64(len(p)) > remaining {
		w.buf.Write(p[:remaining])
		w.truncated = true
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}

func (w *cappedWriter) String() string {
	return w.buf.String()
}
