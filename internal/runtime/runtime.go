package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a whole test run
	DefaultTimeout = 10 * time.Minute

	// tailLines is how much raw output is shown when no pytest summary is found
	tailLines = 50

	// waitDelay gives a killed script this long to release its output pipes
	waitDelay = 2 * time.Second
)

// Environment describes what is available to run the middleware test suite
type Environment struct {
	HasDocker     bool   `json:"has_docker"`
	DockerVersion string `json:"docker_version,omitempty"`
	ExecutionMode string `json:"execution_mode"` // "docker" or "unavailable"
}

// DetectEnvironment checks whether docker can be used to run the tests
func DetectEnvironment() *Environment {
	env := &Environment{ExecutionMode: "unavailable"}

	if output, err := exec.Command("docker", "--version").CombinedOutput(); err == nil {
		env.HasDocker = true
		env.DockerVersion = strings.TrimSpace(string(output))
		env.ExecutionMode = "docker"
	}

	return env
}

// Runner runs the middleware test script
type Runner struct {
	Script   string        // Path to the test script
	RepoPath string        // Repository used when a run does not name one
	Timeout  time.Duration // Zero means DefaultTimeout
}

// TestRun is the outcome of one test script invocation
type TestRun struct {
	Command       []string      `json:"command"`
	Script        string        `json:"script"`
	ScriptMissing bool          `json:"script_missing,omitempty"`
	TimedOut      bool          `json:"timed_out,omitempty"`
	Timeout       time.Duration `json:"timeout"`
	ExitCode      int           `json:"exit_code"`
	Duration      time.Duration `json:"duration"`
	Stdout        string        `json:"-"`
	Stderr        string        `json:"-"`
}

// Succeeded reports whether the script ran to completion with exit code 0
func (t *TestRun) Succeeded() bool {
	return !t.ScriptMissing && !t.TimedOut && t.ExitCode == 0
}

// Run executes "<script> <repo> [testFile]". A missing script, a timeout and
// a non-zero exit are reported in the returned TestRun; the error is only
// set when the script could not be started.
func (r *Runner) Run(ctx context.Context, repoPath, testFile string) (*TestRun, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	run := &TestRun{Script: r.Script, Timeout: timeout}

	if info, err := os.Stat(r.Script); r.Script == "" || err != nil || info.IsDir() {
		run.ScriptMissing = true
		return run, nil
	}

	if repoPath == "" {
		repoPath = r.RepoPath
	}
	if repoPath == "" {
		return nil, errors.New("no middleware repository path configured")
	}

	run.Command = []string{r.Script, repoPath}
	if testFile != "" {
		run.Command = append(run.Command, testFile)
	}
	log.Printf("Running test command: %s", strings.Join(run.Command, " "))

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, run.Command[0], run.Command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	startTime := time.Now()
	err := cmd.Run()
	run.Duration = time.Since(startTime)
	run.Stdout = stdout.String()
	run.Stderr = stderr.String()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		run.TimedOut = true
		run.ExitCode = -1
		log.Printf("Test run timed out after %v", timeout)
		return run, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("test run canceled: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		log.Printf("✓ Tests completed in %v", run.Duration.Round(time.Millisecond))
	case errors.As(err, &exitErr):
		run.ExitCode = exitErr.ExitCode()
		log.Printf("Tests failed with exit code %d after %v", run.ExitCode, run.Duration.Round(time.Millisecond))
	default:
		return nil, fmt.Errorf("failed to run test script: %w", err)
	}

	return run, nil
}

// Report renders the run as the text returned to the caller
func (t *TestRun) Report() string {
	if t.ScriptMissing {
		return fmt.Sprintf("Test script not found at %s", t.Script)
	}
	if t.TimedOut {
		return fmt.Sprintf("❌ Test execution timed out after %s", humanDuration(t.Timeout))
	}

	var parts []string
	if t.ExitCode == 0 {
		parts = append(parts, "✅ Tests completed successfully!")
	} else {
		parts = append(parts, fmt.Sprintf("❌ Tests failed with exit code: %d", t.ExitCode))
	}

	if t.Stdout != "" {
		lines := strings.Split(t.Stdout, "\n")
		if summary := pytestSummary(lines); len(summary) > 0 {
			parts = append(parts, "\n## Test Output\n```\n"+strings.Join(summary, "\n")+"\n```")
		} else {
			parts = append(parts, fmt.Sprintf("\n## Output (last %d lines)\n```\n%s\n```", tailLines, strings.Join(lastLines(lines, tailLines), "\n")))
		}
	}

	if t.Stderr != "" && t.ExitCode != 0 {
		parts = append(parts, "\n## Errors\n```\n"+t.Stderr+"\n```")
	}

	return strings.Join(parts, "\n")
}

// pytestSummary returns the lines from "test session starts" through the
// first line reporting both passed tests and warnings
func pytestSummary(lines []string) []string {
	var out []string
	capturing := false
	for _, line := range lines {
		if strings.Contains(line, "test session starts") {
			capturing = true
		}
		if capturing {
			out = append(out, line)
		}
		if strings.Contains(line, "passed") && strings.Contains(line, "warnings") {
			if !capturing {
				out = append(out, line)
			}
			break
		}
	}
	return out
}

func lastLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// humanDuration prints whole minutes as "10 minutes" and anything else as Go does
func humanDuration(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return d.String()
}
