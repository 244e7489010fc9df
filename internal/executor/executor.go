// Package executor runs approved commands in a shell with a hard timeout
// and records every run.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/wardproject/ward/internal/failure"
	"github.com/wardproject/ward/internal/privilege"
	"github.com/wardproject/ward/internal/utils"
)

// DefaultTimeout bounds command execution when no override is configured.
const DefaultTimeout = 30 * time.Second

// sentinelExitCode marks results that never produced a real exit status:
// timeouts and spawn failures. It never collides with a real exit status.
const sentinelExitCode = -1

// Result is the record of one execution attempt.
type Result struct {
	Command   string             `json:"command"`
	ExitCode  int                `json:"exit_code"`
	Stdout    string             `json:"stdout,omitempty"`
	Stderr    string             `json:"stderr,omitempty"`
	Success   bool               `json:"success"`
	TimedOut  bool               `json:"timed_out,omitempty"`
	DryRun    bool               `json:"dry_run,omitempty"`
	Refused   bool               `json:"refused,omitempty"`
	StartedAt time.Time          `json:"started_at"`
	Duration  time.Duration      `json:"duration"`
	Diagnosis *failure.Diagnosis `json:"diagnosis,omitempty"`
}

// Options adjusts a single execution.
type Options struct {
	// DryRun skips the spawn and synthesizes a successful result.
	DryRun bool
	// Timeout overrides the executor's default when positive.
	Timeout time.Duration
}

// Executor runs shell commands. It keeps an in-memory history and
// optionally appends each result to a JSONL log file.
type Executor struct {
	timeout time.Duration
	checker *privilege.Checker
	logPath string

	mu      sync.Mutex
	history []Result
}

// New creates an executor with the default timeout and the platform
// privilege checker. logPath may be empty to disable the execution log.
func New(timeout time.Duration, logPath string) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		timeout: timeout,
		checker: privilege.NewChecker(),
		logPath: logPath,
	}
}

// NewWithChecker creates an executor with a custom privilege checker,
// for tests.
func NewWithChecker(timeout time.Duration, logPath string, checker *privilege.Checker) *Executor {
	e := New(timeout, logPath)
	e.checker = checker
	return e
}

// Sanitize strips markdown code fences and stray backticks that language
// models wrap around generated commands.
func Sanitize(command string) string {
	s := strings.TrimSpace(command)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// Drop a language tag like "powershell" or "sh" on the fence line.
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			first := strings.TrimSpace(s[:idx])
			if first != "" && !strings.ContainsAny(first, " \t") {
				s = s[idx+1:]
			}
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	s = strings.Trim(strings.TrimSpace(s), "`")
	return strings.TrimSpace(s)
}

// Execute runs the command and returns its result. The command is
// sanitized, privilege-checked, and bounded by the timeout. Execute
// returns an error only for infrastructure problems; command failures are
// reported in the Result.
func (e *Executor) Execute(ctx context.Context, command string, opts Options) (*Result, error) {
	command = Sanitize(command)
	if command == "" {
		return nil, errors.New("empty command")
	}

	res := Result{
		Command:   command,
		StartedAt: time.Now(),
	}

	check := e.checker.Evaluate(command)
	if !check.CanProceed {
		var b strings.Builder
		b.WriteString(check.Reason)
		for _, alt := range check.Alternatives {
			b.WriteString("\n  try: ")
			b.WriteString(alt)
		}
		res.Refused = true
		res.ExitCode = 1
		res.Stderr = b.String()
		res.Duration = time.Since(res.StartedAt)
		e.record(res)
		return &res, nil
	}

	if opts.DryRun {
		res.DryRun = true
		res.Success = true
		res.Stdout = fmt.Sprintf("[dry-run] would execute: %s", command)
		res.Duration = time.Since(res.StartedAt)
		e.record(res)
		return &res, nil
	}

	timeout := e.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := shellCommand(runCtx, command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Duration = time.Since(res.StartedAt)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.ExitCode = sentinelExitCode
		res.Stderr = fmt.Sprintf("timed out after %ds", int(timeout.Seconds()))
	case err == nil:
		res.Success = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			// The command never ran (shell missing, spawn error).
			res.ExitCode = sentinelExitCode
			if res.Stderr == "" {
				res.Stderr = err.Error()
			}
		}
	}

	if !res.Success {
		errText := res.Stderr
		if strings.TrimSpace(errText) == "" {
			errText = res.Stdout
		}
		d := failure.Classify(errText, res.ExitCode)
		res.Diagnosis = &d
	}

	e.record(res)
	return &res, nil
}

// History returns a copy of all recorded results, oldest first.
func (e *Executor) History() []Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Result(nil), e.history...)
}

func (e *Executor) record(res Result) {
	e.mu.Lock()
	e.history = append(e.history, res)
	e.mu.Unlock()

	utils.Debug("command executed",
		"command", res.Command,
		"exit_code", res.ExitCode,
		"success", res.Success,
		"duration", res.Duration,
	)

	if e.logPath == "" {
		return
	}
	if err := appendJSONL(e.logPath, res); err != nil {
		utils.Warn("writing execution log", "path", e.logPath, "err", err)
	}
}

func appendJSONL(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// shellCommand wraps the command in the platform shell.
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}
