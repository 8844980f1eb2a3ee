package store

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"namegen/internal/models"
)

// BackupSuffix is appended to the data file path to name its single backup.
const BackupSuffix = ".bak"

var (
	// ErrCorrupt is returned when the data file exists but is not a JSON
	// array of records.
	ErrCorrupt = errors.New("data file is corrupt")

	// ErrIndexOutOfRange is returned by store commands addressing a record
	// or province that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ReadFile loads the records stored at path. A missing or empty document
// yields an empty list.
func ReadFile(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return Decode(data)
}

// Decode parses a records document.
func Decode(data []byte) ([]models.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Record{}, nil
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out, nil
}

// Encode produces the on-disk document: types lowercased, ordered by type
// then state id, indented.
func Encode(records []models.Record) ([]byte, error) {
	working := make([]models.Record, len(records))
	for i, r := range records {
		working[i] = r.Normalized()
	}
	slices.SortStableFunc(working, func(a, b models.Record) int {
		if c := cmp.Compare(a.Type, b.Type); c != 0 {
			return c
		}
		return cmp.Compare(a.StateID, b.StateID)
	})

	data, err := json.MarshalIndent(working, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return data, nil
}

// WriteFile encodes records to path. The previous document, if any, becomes
// path+BackupSuffix, replacing an older backup. The new document is written
// to a temporary file first and renamed into place, so path always holds a
// complete document.
func WriteFile(path string, records []models.Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set data file mode: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := rotateBackup(path); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat data file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

func rotateBackup(path string) error {
	backup := path + BackupSuffix
	if err := os.Remove(backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove old backup: %w", err)
	}
	// A hard link keeps the old inode reachable once the rename replaces path.
	if err := os.Link(path, backup); err == nil {
		return nil
	}
	if err := copyFile(path, backup); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
