// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents what writing a document did to its target
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // Target did not exist
	StatusModified             // Target existed with different content
	StatusUnchanged            // Target already had this content
	StatusFailed               // Document could not be processed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a written document
type FileInfo struct {
	Path     string     // Source document path
	Target   string     // Where the result was written
	Status   FileStatus // Outcome
	Size     int64      // Result size in bytes
	Checksum string     // Result content hash
	Matches  int        // Substitutions made in the document
	Error    error      // Any error associated with this document
}

// 🔧 Manager writes rewritten documents and tracks what happened to each
type Manager struct {
	baseDir   string          // Output directory; empty writes in place
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages

	mu    sync.RWMutex
	files map[string]FileInfo
}

// 🏭 New creates a new status manager. An empty baseDir rewrites documents
// in place.
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if baseDir != "" {
		baseDir = filepath.Clean(baseDir)
	}
	return &Manager{
		baseDir:   baseDir,
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// 🔒 Target returns where the result for the given document is written
func (m *Manager) Target(path string) string {
	if m.baseDir == "" {
		return path
	}
	// results never leave baseDir, even for "../" paths
	return filepath.Join(m.baseDir, filepath.Clean(string(filepath.Separator)+path))
}

// 🔍 calculateChecksum generates a SHA-256 hash of the content
func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// 💾 Put writes the result for a document unless the target already holds it
func (m *Manager) Put(ctx context.Context, path string, content []byte, matches int) (FileInfo, error) {
	target := m.Target(path)
	info := FileInfo{
		Path:     path,
		Target:   target,
		Size:     int64(len(content)),
		Checksum: calculateChecksum(content),
		Matches:  matches,
	}

	mode := fs.FileMode(0o644)
	existing, err := os.ReadFile(target)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) {
			info.Status = StatusUnchanged
		} else {
			info.Status = StatusModified
		}
		if st, err := os.Stat(target); err == nil {
			mode = st.Mode().Perm()
		}
	case errors.Is(err, fs.ErrNotExist):
		info.Status = StatusNew
	default:
		return FileInfo{}, errors.Errorf("reading existing target: %w", err)
	}

	if info.Status != StatusUnchanged {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return FileInfo{}, errors.Errorf("creating parent directories: %w", err)
		}
		if err := writeFileAtomic(target, content, mode); err != nil {
			return FileInfo{}, err
		}
	}

	m.track(ctx, info)
	return info, nil
}

// Fail records a document that could not be processed.
func (m *Manager) Fail(ctx context.Context, path string, err error) FileInfo {
	info := FileInfo{
		Path:   path,
		Target: m.Target(path),
		Status: StatusFailed,
		Error:  err,
	}
	m.track(ctx, info)
	return info
}

func writeFileAtomic(path string, content []byte, mode fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (m *Manager) track(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info

	msg := m.formatter.FormatFileOperation(info)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	m.logger.Debug().
		Str("path", info.Path).
		Str("target", info.Target).
		Str("status", info.Status.String()).
		Int("matches", info.Matches).
		Msg(msg)
}

// GetFileInfo returns what happened to a document.
func (m *Manager) GetFileInfo(path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns every tracked document ordered by path.
func (m *Manager) ListFiles() []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// Summary counts tracked documents by status.
func (m *Manager) Summary() map[FileStatus]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[FileStatus]int{}
	for _, info := range m.files {
		counts[info.Status]++
	}
	return counts
}
