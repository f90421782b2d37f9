package host

import (
	"path"
	"path/filepath"
	"strings"
)

// IsRelativeSpecifier reports whether specifier names a file relative to the
// importing module rather than a package
func IsRelativeSpecifier(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// ResolveSpecifier turns a relative specifier written in sf into the
// extensionless module path it names. Package specifiers are returned as is.
func ResolveSpecifier(sf *SourceFile, specifier string) string {
	if !IsRelativeSpecifier(specifier) {
		return specifier
	}
	return path.Clean(path.Join(path.Dir(sf.ModuleName()), specifier))
}

// RelativeSpecifier computes the module specifier of target as seen from dir.
// When only one of the two paths is absolute, both are made absolute first.
func RelativeSpecifier(dir, target string) string {
	dir, target = filepath.ToSlash(dir), filepath.ToSlash(target)
	if path.IsAbs(dir) != path.IsAbs(target) {
		dir, target = absolute(dir), absolute(target)
	}

	fromParts := splitPath(dir)
	toParts := splitPath(target)

	common := 0
	for common < len(fromParts) && common < len(toParts) && fromParts[common] == toParts[common] {
		common++
	}

	var parts []string
	for range fromParts[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[common:]...)

	rel := strings.Join(parts, "/")
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}

func absolute(p string) string {
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return p
	}
	return filepath.ToSlash(abs)
}

func splitPath(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "" || p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
