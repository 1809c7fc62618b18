package pid_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"codeberg.org/mutker/powerplanctl/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "powerplanctl.pid")
	f := pid.New(path)

	require.NoError(t, f.Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, f.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing twice is fine.
	assert.NoError(t, f.Remove())
}

func TestWriteOverwritesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powerplanctl.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o600))

	require.NoError(t, pid.New(path).Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
}

func TestWriteOwnPIDIsAllowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powerplanctl.pid")
	f := pid.New(path)

	require.NoError(t, f.Write())
	assert.NoError(t, f.Write())
}

func TestWriteRefusesLiveOwner(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getppid() <= 1 {
		t.Skip("no live parent process to own the file")
	}

	path := filepath.Join(t.TempDir(), "powerplanctl.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := pid.New(path).Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, pid.DefaultPath(), pid.New("").Path())
	assert.Equal(t, "powerplanctl.pid", filepath.Base(pid.DefaultPath()))
}
