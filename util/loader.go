// Package util - Loading helpers for recorded output layers.
package util

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DumpExtension is the file extension of raw output layer dumps.
const DumpExtension = ".bin"

// DumpFile is one recorded output layer.
type DumpFile struct {
	// Path is the path to the dump file.
	Path string
	// Data is the raw bytes of the dump file.
	Data []byte
	// Frame is the frame number taken from the file name.
	Frame int
}

// LoadDirectoryDumpFiles reads every dump file of a directory, ordered by
// frame number. Files are named "frame-<N>.bin" or "<N>.bin"; other
// extensions and sub directories are ignored.
//
// Arguments:
//   - dir: Directory path containing dump files.
//
// Returns:
//   - []DumpFile: The dumps in ascending frame order.
//   - error: Error if the directory or a file cannot be read, or a dump file
//     name carries no frame number.
func LoadDirectoryDumpFiles(dir string) ([]DumpFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read dump directory")
	}

	var dumps []DumpFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != DumpExtension {
			continue
		}

		frame, err := FrameNumber(entry.Name())
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}

		dumps = append(dumps, DumpFile{
			Path:  path,
			Data:  data,
			Frame: frame,
		})
	}

	sort.SliceStable(dumps, func(i, j int) bool {
		return dumps[i].Frame < dumps[j].Frame
	})

	return dumps, nil
}

// FrameNumber extracts N from "frame-N.ext" or "N.ext".
func FrameNumber(name string) (int, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	frame, err := strconv.Atoi(strings.TrimPrefix(base, "frame-"))
	if err != nil || frame < 0 {
		return 0, errors.Errorf("no frame number in %q", name)
	}
	return frame, nil
}
