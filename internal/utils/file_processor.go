package utils

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/axon-debug/internal/errors"
)

// SourceExt is the extension of the source files the analyzer reads.
const SourceExt = ".rs"

// FileProcessor finds and reads the source files named on a command line
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be entered
type DirectoryFilter func(path string, info fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// SourceFileFilter accepts source files
func SourceFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), SourceExt)
	}
}

// readHint suggests a fix for a file that was found but could not be read.
func readHint(err error) string {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return "the file was moved or deleted after it was found; run the check again"
	case stderrors.Is(err, fs.ErrPermission):
		return "check that the file is readable by the current user"
	}
	return ""
}

// DefaultDirectoryFilter skips build output, dependencies and hidden directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"target":       true,
		"vendor":       true,
		"node_modules": true,
	}

	return func(path string, info fs.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles walks through files in a directory tree with filtering. The root
// itself is never filtered out.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, d) {
				return filepath.SkipDir
			}
			return nil
		}
		if options.FileFilter == nil || options.FileFilter(path, d) {
			matched = append(matched, path)
		}
		return nil
	})

	return matched, err
}

// ListFiles returns the files directly inside dir accepted by filter
func (fp *FileProcessor) ListFiles(dir string, filter FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapReadError(dir, err)
	}
	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if filter == nil || filter(path, entry) {
			files = append(files, path)
		}
	}
	return files, nil
}

// ExpandPatterns turns command line arguments into source files. A file is
// taken as is, a directory contributes its own source files, and "dir/..."
// contributes every source file below dir. Each file is listed once, in
// argument order.
func (fp *FileProcessor) ExpandPatterns(patterns []string) ([]string, error) {
	var (
		files []string
		seen  = make(map[string]bool)
	)
	add := func(paths ...string) {
		for _, p := range paths {
			clean := filepath.Clean(p)
			if !seen[clean] {
				seen[clean] = true
				files = append(files, clean)
			}
		}
	}

	for _, pattern := range patterns {
		if base, ok := strings.CutSuffix(pattern, "..."); ok {
			base = strings.TrimSuffix(base, "/")
			if base == "" {
				base = "."
			}
			found, err := fp.WalkFiles(base, FileWalkOptions{
				FileFilter:      SourceFileFilter(),
				DirectoryFilter: DefaultDirectoryFilter(),
			})
			if err != nil {
				return nil, WrapProcessError(fmt.Sprintf("directory walk %s", base), err)
			}
			add(found...)
			continue
		}

		info, err := os.Stat(pattern)
		if err != nil {
			return nil, WrapReadError(pattern, err)
		}
		if !info.IsDir() {
			add(pattern)
			continue
		}
		found, err := fp.ListFiles(pattern, SourceFileFilter())
		if err != nil {
			return nil, err
		}
		add(found...)
	}

	return files, nil
}

// ReadFiles reads paths in order through the processor's reader. Every
// failure is collected; the texts of unreadable files are left empty.
func (fp *FileProcessor) ReadFiles(paths []string) ([]string, error) {
	texts := make([]string, len(paths))
	errs := errors.NewMultipleErrors()
	for i, path := range paths {
		text, err := fp.fileReader.ReadFile(path)
		if err != nil {
			var axonErr errors.AxonError
			if !stderrors.As(err, &axonErr) {
				axonErr = errors.WrapFileSystemError("read", path, err)
			}
			if be, ok := axonErr.(*errors.BaseError); ok {
				if hint := readHint(err); hint != "" {
					be.WithSuggestion(hint)
				}
			}
			errs.Add(axonErr)
			continue
		}
		texts[i] = text
	}
	return texts, errs.ErrOrNil()
}
