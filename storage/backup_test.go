package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupNextRun(t *testing.T) {
	b := &Backup{Hour: 2}
	at := func(h, m int) time.Time { return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC) }

	assert.Equal(t, at(2, 0), b.nextRun(at(1, 30)))
	assert.Equal(t, at(2, 0).Add(24*time.Hour), b.nextRun(at(2, 0)))
	assert.Equal(t, at(2, 0).Add(24*time.Hour), b.nextRun(at(13, 0)))
}

func TestBackupRunOnceAndPrune(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "uploads")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.jpg"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.png"), []byte("b"), 0o644))

	now := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	b := &Backup{SrcDir: src, BackupDir: filepath.Join(root, "backup"), Retention: 48 * time.Hour, now: func() time.Time { return now }}

	dest, err := b.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10_02-00-00", filepath.Base(dest))
	raw, err := os.ReadFile(filepath.Join(dest, "nested", "b.png"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(raw))

	stale := filepath.Join(b.BackupDir, "2026-03-01_02-00-00")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	old := now.Add(-5 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(dest, now, now))

	removed, err := b.Prune()
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, removed)
	assert.DirExists(t, dest)
	assert.NoDirExists(t, stale)
}
