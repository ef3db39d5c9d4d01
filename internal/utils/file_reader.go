package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/axon-debug/internal/errors"
)

// FileReader reads source files, caching their contents until the file's
// modification time or size changes
type FileReader struct {
	contents *Cache[string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contents: NewCache[string](),
	}
}

// ReadFile reads a file and returns its contents as a string with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.cleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contents.Get(cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("read", cleanPath, err)
	}

	contentStr := string(content)
	// Without a stamp the entry still serves Source; the next ReadFile
	// reads the file again.
	_ = fr.contents.Put(cleanPath, contentStr)

	return contentStr, nil
}

// Source implements the emitter's source lookup over files already read.
func (fr *FileReader) Source(file string) (string, bool) {
	return fr.contents.Peek(filepath.Clean(file))
}

// CachedFiles returns the number of cached files
func (fr *FileReader) CachedFiles() int {
	return fr.contents.Len()
}

func (fr *FileReader) cleanPath(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	return filepath.Clean(filePath), nil
}
