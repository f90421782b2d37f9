package utils

import (
	"os"
	"path/filepath"

	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/parser"
)

// FileReader reads and parses source files, caching both until the file changes
type FileReader struct {
	parser       *parser.Parser
	parsedCache  *FileCache[*host.ParsedFile]
	contentCache *FileCache[string]
}

// NewFileReader creates a FileReader backed by the default reflection host
func NewFileReader() *FileReader {
	return NewFileReaderWithHost(host.NewReflectionHost())
}

// NewFileReaderWithHost creates a FileReader whose parser resolves imports through h
func NewFileReaderWithHost(h host.ReflectionHost) *FileReader {
	return &FileReader{
		parser:       parser.NewParser(h),
		parsedCache:  NewFileCache[*host.ParsedFile](),
		contentCache: NewFileCache[string](),
	}
}

// ReadFile returns the contents of a file
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, ok := fr.contentCache.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("read", cleanPath, err)
	}

	text := string(content)
	_ = fr.contentCache.Set(cleanPath, text)
	return text, nil
}

// ParseFile reads and parses a source file
func (fr *FileReader) ParseFile(filePath string) (*host.ParsedFile, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.parsedCache.Get(cleanPath); ok {
		return cached, nil
	}

	text, err := fr.ReadFile(cleanPath)
	if err != nil {
		return nil, err
	}

	file, err := fr.parser.ParseSource(cleanPath, text)
	if err != nil {
		return nil, err
	}

	_ = fr.parsedCache.Set(cleanPath, file)
	return file, nil
}

// ParseSource parses source text that does not live on disk
func (fr *FileReader) ParseSource(fileName, source string) (*host.ParsedFile, error) {
	return fr.parser.ParseSource(fileName, source)
}

// Load resolves url against the directory of containingFile and reads it.
// It satisfies the resource loader used for templateUrl and styleUrls.
func (fr *FileReader) Load(url, containingFile string) (string, error) {
	path := url
	if !filepath.IsAbs(url) {
		path = filepath.Join(filepath.Dir(containingFile), url)
	}
	return fr.ReadFile(path)
}

// Invalidate drops any cached data for a file
func (fr *FileReader) Invalidate(filePath string) {
	cleanPath := filepath.Clean(filePath)
	fr.parsedCache.Delete(cleanPath)
	fr.contentCache.Delete(cleanPath)
}

// CacheStats returns the number of cached parse results and file contents
func (fr *FileReader) CacheStats() (parsedFiles, contentFiles int) {
	return fr.parsedCache.Size(), fr.contentCache.Size()
}

func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", errors.WrapFileSystemError("read", filePath, err)
	}

	cleanPath := filepath.Clean(filePath)
	if _, err := os.Stat(cleanPath); err != nil {
		return "", errors.WrapFileSystemError("stat", cleanPath, err)
	}
	return cleanPath, nil
}
