package cli

import (
	"github.com/toyz/axon-debug/internal/analyzer"
	"github.com/toyz/axon-debug/internal/config"
	"github.com/toyz/axon-debug/internal/utils"
)

// SourceScanner turns command line paths into the source files to check
type SourceScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewSourceScanner creates a scanner reading through reader
func NewSourceScanner(reader *utils.FileReader) *SourceScanner {
	return &SourceScanner{
		fileProcessor: utils.NewFileProcessorWithReader(reader),
	}
}

// ScanPaths expands paths and drops the files cfg excludes. Supports
// Go-style patterns like "./..." for recursive scanning.
func (s *SourceScanner) ScanPaths(paths []string, cfg *config.Config) ([]string, error) {
	files, err := s.fileProcessor.ExpandPatterns(paths)
	if err != nil {
		return nil, err
	}
	kept := files[:0]
	for _, f := range files {
		if !cfg.Excluded(f) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// ReadSources reads the scanned files for analysis
func (s *SourceScanner) ReadSources(files []string) ([]analyzer.Source, error) {
	texts, err := s.fileProcessor.ReadFiles(files)
	if err != nil {
		return nil, err
	}
	sources := make([]analyzer.Source, len(files))
	for i, f := range files {
		sources[i] = analyzer.Source{Name: f, Text: texts[i]}
	}
	return sources, nil
}
