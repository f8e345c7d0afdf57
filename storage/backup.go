package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Backup copies the local upload directory into timestamped folders and
// prunes old copies. It only matters for the Local store.
type Backup struct {
	SrcDir    string
	BackupDir string
	Retention time.Duration
	Hour      int
	now       func() time.Time
}

func (b *Backup) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

// nextRun is the next occurrence of b.Hour:00 after now.
func (b *Backup) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), b.Hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Run backs up daily at a fixed hour until ctx is done.
func (b *Backup) Run(ctx context.Context) {
	log := zerolog.Ctx(ctx)
	for {
		next := b.nextRun(b.clock())
		log.Info().Time("next", next).Msg("next upload backup scheduled")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		dest, err := b.RunOnce()
		if err != nil {
			log.Error().Err(err).Msg("upload backup failed")
		} else {
			log.Info().Str("dest", dest).Msg("uploads backed up")
		}
		removed, err := b.Prune()
		if err != nil {
			log.Error().Err(err).Msg("backup cleanup failed")
		}
		for _, p := range removed {
			log.Info().Str("path", p).Msg("removed old backup")
		}
	}
}

// RunOnce copies SrcDir into a new timestamped folder and returns its path.
func (b *Backup) RunOnce() (string, error) {
	dest := filepath.Join(b.BackupDir, b.clock().Format("2006-01-02_15-04-05"))
	return dest, copyDir(b.SrcDir, dest)
}

// Prune removes backup folders older than Retention.
func (b *Backup) Prune() ([]string, error) {
	entries, err := os.ReadDir(b.BackupDir)
	if err != nil {
		return nil, errors.Wrap(err, "read backup directory")
	}
	cutoff := b.clock().Add(-b.Retention)
	var removed []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(b.BackupDir, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folderPath); err != nil {
				return removed, errors.Wrapf(err, "remove %s", folderPath)
			}
			removed = append(removed, folderPath)
		}
	}
	return removed, nil
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrap(err, "read upload directory")
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Wrap(err, "create backup folder")
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "open source file")
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "create backup file")
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "copy %s", src)
	}
	return out.Sync()
}
