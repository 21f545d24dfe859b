// Package logfile opens access log files for reading, transparently
// decompressing rotated gzip archives by extension.
package logfile

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

// Open opens a log file for reading. Files ending in .gz are wrapped in
// a gzip reader; closing the returned reader closes the underlying file.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, ".gz") {
		return file, nil
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening gzip reader: %w", err)
	}
	return &gzipFile{Reader: gz, file: file}, nil
}

type rotatedFile struct {
	path string
	num  int
}

// Rotated returns the rotation chain for a log file in chronological
// order: {base}.{N} and {base}.{N}.gz archives with the highest N first
// (logrotate convention puts the oldest data there), ending with the
// live file itself if it exists.
func Rotated(logPath string) ([]string, error) {
	dir := filepath.Dir(logPath)
	baseName := filepath.Base(logPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	prefix := baseName + "."
	var files []rotatedFile

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		suffix := strings.TrimPrefix(name, prefix)
		suffix = strings.TrimSuffix(suffix, ".gz")

		// Must be a pure integer
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}

		files = append(files, rotatedFile{
			path: filepath.Join(dir, name),
			num:  n,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].num > files[j].num
	})

	paths := make([]string, 0, len(files)+1)
	for _, f := range files {
		paths = append(paths, f.path)
	}
	if _, err := os.Stat(logPath); err == nil {
		paths = append(paths, logPath)
	}
	return paths, nil
}
