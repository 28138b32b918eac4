package hosttools

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/metrics"
)

// Runner executes a command and returns its stdout
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the host with os/exec
type ExecRunner struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewExecRunner creates a runner that bounds each command by timeout
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		timeout: timeout,
		logger:  logging.GetLogger("hosttools.runner"),
	}
}

// Run executes name with args and returns the captured stdout
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	commandLine := strings.TrimSpace(name + " " + strings.Join(args, " "))
	tool := filepath.Base(name)
	logging.LogCommand(r.logger, name, args)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	// children that inherit the pipes must not outlive the timeout
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		metrics.ObserveCommand(tool, metrics.OutcomeOK, elapsed)
		r.logger.Debug().
			Str("command", commandLine).
			Dur("elapsed", elapsed).
			Int("bytes", stdout.Len()).
			Msg("Command finished")
		return stdout.String(), nil
	}

	exitCode := -1
	outcome := metrics.OutcomeFailed
	if ctx.Err() == context.DeadlineExceeded {
		outcome = metrics.OutcomeTimeout
	} else {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
	}
	metrics.ObserveCommand(tool, outcome, elapsed)

	r.logger.Error().
		Err(err).
		Str("command", commandLine).
		Int("exitCode", exitCode).
		Str("stderr", stderr.String()).
		Msg("Command execution failed")

	return "", errors.CommandFailed(commandLine, exitCode, stdout.String(), stderr.String(), err)
}
