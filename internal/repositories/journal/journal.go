// Package journal is an append-only, fsync'd JSON-lines log. The in-memory
// account store writes one line per committed unit and replays the file on
// startup.
package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// FileMode rw-r--r--
const FileMode fs.FileMode = 0644

// ErrBroken is returned by Append once a failed write could not be rolled
// back. The file may hold a partial entry, so nothing more is accepted.
var ErrBroken = errors.New("journal is broken")

type file interface {
	io.ReadWriteSeeker
	io.Closer
	Stat() (fs.FileInfo, error)
	Sync() error
	Truncate(size int64) error
}

type Journal struct {
	file   file
	mu     sync.Mutex
	broken error
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &Journal{file: file}, nil
}

// Append writes v as one line and syncs it to disk before returning. On
// failure the file is cut back to its previous size so a rejected entry is
// never replayed.
func (j *Journal) Append(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.broken != nil {
		return fmt.Errorf("%w: %v", ErrBroken, j.broken)
	}

	info, err := j.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat journal: %w", err)
	}
	offset := info.Size()

	if _, err := j.file.Write(data); err != nil {
		return j.rollback(offset, fmt.Errorf("failed to write journal entry: %w", err))
	}
	if err := j.file.Sync(); err != nil {
		return j.rollback(offset, fmt.Errorf("failed to sync journal: %w", err))
	}
	return nil
}

func (j *Journal) rollback(offset int64, cause error) error {
	if err := j.file.Truncate(offset); err != nil {
		j.broken = fmt.Errorf("rollback to offset %d failed: %w", offset, err)
		return fmt.Errorf("%w: %w", cause, ErrBroken)
	}
	if err := j.file.Sync(); err != nil {
		j.broken = fmt.Errorf("rollback to offset %d not synced: %w", offset, err)
		return fmt.Errorf("%w: %w", cause, ErrBroken)
	}
	return cause
}

// Replay calls fn for every complete entry in write order. A final line
// without a newline is a write that never finished; it is cut off so later
// appends start on a clean line.
func (j *Journal) Replay(fn func(raw json.RawMessage) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	reader := bufio.NewReader(j.file)
	var offset int64
	for lineNo := 1; ; lineNo++ {
		line, err := reader.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			if len(line) > 0 {
				return j.file.Truncate(offset)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}
		offset += int64(len(line))

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return fmt.Errorf("journal line %d is corrupt", lineNo)
		}
		if err := fn(json.RawMessage(line)); err != nil {
			return err
		}
	}
}

// Close closes the file.
func (j *Journal) Close() error {
	return j.file.Close()
}
