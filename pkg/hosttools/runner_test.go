package hosttools

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	requireShell(t)

	out, err := NewExecRunner(5*time.Second).Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	requireShell(t)

	_, err := NewExecRunner(5*time.Second).Run(context.Background(), "sh", "-c", "echo partial; echo broken >&2; exit 3")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalCommand))

	code, stdout, stderr, ok := errors.CommandFailure(err)
	require.True(t, ok)
	assert.Equal(t, 3, code)
	assert.Equal(t, "partial\n", stdout)
	assert.Equal(t, "broken\n", stderr)
}

func TestExecRunnerTimeout(t *testing.T) {
	requireShell(t)

	start := time.Now()
	_, err := NewExecRunner(50*time.Millisecond).Run(context.Background(), "sh", "-c", "sleep 5")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)

	code, _, _, ok := errors.CommandFailure(err)
	require.True(t, ok)
	assert.Equal(t, -1, code)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := NewExecRunner(time.Second).Run(context.Background(), "/nonexistent/astutus-tool")
	require.Error(t, err)

	code, _, _, ok := errors.CommandFailure(err)
	require.True(t, ok)
	assert.Equal(t, -1, code)
}
