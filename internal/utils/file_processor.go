package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/ngcc/internal/errors"
)

// CompiledMarker is inserted before the extension of every emitted file
const CompiledMarker = ".ivy"

// sourceExtensions are the file types the parser understands
var sourceExtensions = map[string]bool{
	".ts":  true,
	".js":  true,
	".mjs": true,
}

// FileProcessor discovers source files and manages compiled outputs
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor with its own reader
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{fileReader: NewFileReader()}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{fileReader: reader}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// SourceFileFilter accepts TypeScript and JavaScript sources, skipping
// declaration files and outputs of a previous run
func SourceFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return sourceExtensions[filepath.Ext(name)] &&
			!strings.HasSuffix(name, ".d.ts") &&
			!IsCompiledFile(name)
	}
}

// CompiledFileFilter accepts files emitted by a previous run
func CompiledFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && IsCompiledFile(info.Name())
	}
}

// DefaultDirectoryFilter skips dependency, build and hidden directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"node_modules": true,
		"dist":         true,
		"build":        true,
		"coverage":     true,
		"vendor":       true,
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

// IsCompiledFile reports whether name carries the compiled marker, as in app.ivy.js
func IsCompiledFile(name string) bool {
	ext := filepath.Ext(name)
	return strings.HasSuffix(strings.TrimSuffix(name, ext), CompiledMarker)
}

// CompiledPath returns where the compiled form of path is written. With an
// empty outDir the file sits next to its source.
func CompiledPath(path, outDir string) string {
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext) + CompiledMarker + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}
	return filepath.Join(outDir, filepath.Dir(path), name)
}

// WalkFiles walks a directory tree and returns the files accepted by the filters
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// CollectSourceFiles expands files and directories into a sorted, duplicate
// free list of source files. Files named explicitly are taken as given.
func (fp *FileProcessor) CollectSourceFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		found, err := fp.WalkFiles(path, FileWalkOptions{
			FileFilter:      SourceFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
		})
		if err != nil {
			return nil, errors.WrapFileSystemError("walk", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(files)
	return files, nil
}

// CleanCompiled removes the files emitted by a previous run below each root
func (fp *FileProcessor) CleanCompiled(roots []string) ([]string, error) {
	var removed []string

	for _, root := range roots {
		found, err := fp.WalkFiles(root, FileWalkOptions{
			FileFilter:      CompiledFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return removed, errors.WrapFileSystemError("walk", root, err)
		}

		for _, path := range found {
			if err := os.Remove(path); err != nil {
				return removed, errors.WrapFileSystemError("remove", path, err)
			}
			fp.fileReader.Invalidate(path)
			removed = append(removed, path)
		}
	}

	return removed, nil
}

// FileReader returns the underlying FileReader
func (fp *FileProcessor) FileReader() *FileReader {
	return fp.fileReader
}
