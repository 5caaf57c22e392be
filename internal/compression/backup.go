// Package compression writes and restores the tar.xz backups taken before a
// rewrite touches any file.
package compression

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/repalette/internal/security"
)

const (
	// maxRestoreSize bounds the decompressed size of a single restored file.
	maxRestoreSize = 64 * 1024 * 1024

	// entryBase anchors entry names when checking them for traversal.
	entryBase = "/backup"
)

// BackupFile is one file captured in a backup archive.
type BackupFile struct {
	// Name is the root-relative path using forward slashes.
	Name    string
	Mode    os.FileMode
	ModTime time.Time
	Data    []byte
}

// WriteBackup writes files into a new tar.xz archive at dest. The archive is
// written to a temporary file first so a failed backup never leaves a
// truncated archive behind.
func WriteBackup(dest string, files []BackupFile) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".repalette-backup-*")
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	xzw, err := xz.NewWriter(tmp)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	tw := tar.NewWriter(xzw)

	for _, f := range files {
		if err := security.ValidateFilePath(f.Name, entryBase); err != nil {
			return fmt.Errorf("invalid backup entry %s: %w", f.Name, err)
		}
		header := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     f.Name,
			Mode:     int64(f.Mode.Perm()),
			Size:     int64(len(f.Data)),
			ModTime:  f.ModTime,
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write backup header for %s: %w", f.Name, err)
		}
		if _, err := tw.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write backup entry %s: %w", f.Name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close backup file: %w", err)
	}

	return os.Rename(tmp.Name(), dest)
}

// ReadBackup returns every regular file stored in the archive at src.
// Entry names are validated against directory traversal.
func ReadBackup(src string) ([]BackupFile, error) {
	f, err := os.Open(src) // #nosec G304 - User-specified backup archive, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz reader: %w", err)
	}
	tr := tar.NewReader(xzr)

	var files []BackupFile
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if err := security.ValidateFilePath(header.Name, entryBase); err != nil {
			return nil, fmt.Errorf("refusing backup entry %s: %w", header.Name, err)
		}

		data, err := io.ReadAll(security.NewLimitedReader(tr, maxRestoreSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read backup entry %s: %w", header.Name, err)
		}
		files = append(files, BackupFile{
			Name:    path.Clean(header.Name),
			Mode:    os.FileMode(header.Mode).Perm(),
			ModTime: header.ModTime,
			Data:    data,
		})
	}

	return files, nil
}

// RestoreBackup writes every file in the archive at src back under root and
// returns the restored root-relative names. All entries are read and
// validated before the first file is written.
func RestoreBackup(src, root string) ([]string, error) {
	files, err := ReadBackup(src)
	if err != nil {
		return nil, err
	}

	restored := make([]string, 0, len(files))
	for _, f := range files {
		dest := filepath.Join(root, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return restored, fmt.Errorf("failed to create directory for %s: %w", f.Name, err)
		}
		if err := WriteFileAtomic(dest, f.Data, f.Mode); err != nil {
			return restored, fmt.Errorf("failed to restore %s: %w", f.Name, err)
		}
		restored = append(restored, f.Name)
	}

	return restored, nil
}

// WriteFileAtomic replaces name with data by writing a sibling temporary
// file and renaming it into place.
func WriteFileAtomic(name string, data []byte, mode os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(mode.Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
