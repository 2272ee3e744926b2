package mirror

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		exitCode  int
		threshold int
		want      Status
	}{
		{"zero is clean success", 0, 3, StatusSuccess},
		{"one copied files", 1, 3, StatusSuccessWithCopies},
		{"at threshold still success", 3, 3, StatusSuccessWithCopies},
		{"above threshold fails", 4, 3, StatusFailure},
		{"hard failure code", 16, 3, StatusFailure},
		{"negative code fails", -1, 3, StatusFailure},
		{"zero threshold falls back to default", 3, 0, StatusSuccessWithCopies},
		{"custom threshold", 7, 7, StatusSuccessWithCopies},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Classify(tt.exitCode, tt.threshold)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.exitCode, res.ExitCode)
		})
	}
}

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Source:           `\\nas\share\media`,
		Dest:             `D:\backup\media`,
		LogPath:          `D:\logs\mirror_log.txt`,
		Retries:          5,
		RetryWaitSec:     10,
		InterPacketGapMs: 50,
	}

	args := BuildArgs(cfg)

	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, cfg.Source, args[0])
	assert.Equal(t, cfg.Dest, args[1])

	assert.Contains(t, args, "/E")
	assert.Contains(t, args, "/COPY:DAT")
	assert.Contains(t, args, "/XO")
	assert.Contains(t, args, "/NDL")
	assert.Contains(t, args, "/TEE")
	assert.Contains(t, args, "/R:5")
	assert.Contains(t, args, "/W:10")
	assert.Contains(t, args, "/IPG:50")
	assert.Contains(t, args, `/LOG+:D:\logs\mirror_log.txt`)
}

func TestBuildArgs_OptionalFlagsOmitted(t *testing.T) {
	t.Parallel()

	args := BuildArgs(Config{Source: "src", Dest: "dst"})

	for _, a := range args {
		assert.NotContains(t, a, "/IPG:")
		assert.NotContains(t, a, "/LOG+:")
	}
}

func TestInvoke_MissingToolIsFailure(t *testing.T) {
	t.Parallel()

	res, err := Invoke(Config{Tool: "definitely-not-a-real-copy-tool", Source: "a", Dest: "b"})
	require.Error(t, err)
	assert.Equal(t, StatusFailure, res.Status)
}

func TestInvoke_ZeroExitIsSuccess(t *testing.T) {
	t.Parallel()

	if _, lookErr := exec.LookPath("true"); lookErr != nil {
		t.Skip("no 'true' binary on PATH")
	}

	res, err := Invoke(Config{Tool: "true", Source: "a", Dest: "b"})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 0, res.ExitCode)
}
