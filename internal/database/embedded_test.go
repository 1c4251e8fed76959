package database

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPostmasterPID(t *testing.T) {
	dir := t.TempDir()

	_, err := readPostmasterPID(dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	pidFile := filepath.Join(dir, "postmaster.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte("4242\n/var/lib/pg\n1700000000\n5433\n"), 0o600))
	pid, err := readPostmasterPID(dir)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	require.NoError(t, os.WriteFile(pidFile, []byte("not-a-pid\n"), 0o600))
	_, err = readPostmasterPID(dir)
	assert.Error(t, err)
}

func TestReapStalePostmasterRemovesGarbagePIDFile(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "postmaster.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte("garbage"), 0o600))

	// an unparsable pid file is left for the operator
	reapStalePostmaster(dir)
	assert.FileExists(t, pidFile)

	reapStalePostmaster(filepath.Join(dir, "missing"))
}

func TestWaitForPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	assert.True(t, portInUse(port))
	assert.False(t, waitForPort(port, 10*time.Millisecond))

	require.NoError(t, ln.Close())
	assert.True(t, waitForPort(port, time.Second))
}
