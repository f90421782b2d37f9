// Package renderer renders analyzed classes from many files in one batch so
// that they share a single set of import aliases.
package renderer

import (
	"path"
	"path/filepath"

	"github.com/toyz/ngcc/internal/analyzer"
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/transform"
	"github.com/toyz/ngcc/internal/translator"
)

// RenderedClass pairs an analyzed class with its batch-rendered text
type RenderedClass struct {
	AnalyzedClass  *analyzer.AnalyzedClass
	RenderedOutput string
}

// RenderResult is the output of one batch: the shared import list and the
// rendered classes in input order
type RenderResult struct {
	Imports         []translator.ImportAlias
	RenderedClasses []RenderedClass
}

// Renderer re-renders compiled definitions, resolving each class name through
// the reflection host. Relative module specifiers are rewritten from the
// declaring file to outputDir, so equal specifiers written in different
// directories get different aliases.
type Renderer struct {
	naming    transform.NameStrategy
	outputDir string
}

// NewRenderer creates a renderer whose output is placed in the working directory
func NewRenderer(h host.ReflectionHost) *Renderer {
	return &Renderer{naming: transform.ReflectedName{Host: h}, outputDir: "."}
}

// NewBundleRenderer creates a renderer for output written to outputPath
func NewBundleRenderer(h host.ReflectionHost, outputPath string) *Renderer {
	return &Renderer{
		naming:    transform.ReflectedName{Host: h},
		outputDir: path.Dir(filepath.ToSlash(outputPath)),
	}
}

// RenderDefinitions renders classes through one import manager. A class whose
// identifier cannot be resolved is reported in the returned MultipleErrors and
// left out of the result; the others are still rendered.
func (r *Renderer) RenderDefinitions(classes []*analyzer.AnalyzedClass) (*RenderResult, error) {
	im := translator.NewImportManager()
	result := &RenderResult{}

	var errs *errors.MultipleErrors
	for _, class := range classes {
		name, err := r.naming.Resolve(class.Declaration, class.Name)
		if err != nil {
			errors.AddToMultiple(&errs, err)
			continue
		}

		var sf *host.SourceFile
		var opts []translator.Option
		if class.Declaration != nil && class.Declaration.SourceFile != nil {
			sf = class.Declaration.SourceFile
			opts = append(opts, translator.WithModuleRewriter(r.rebase(sf)))
		}
		result.RenderedClasses = append(result.RenderedClasses, RenderedClass{
			AnalyzedClass:  class,
			RenderedOutput: transform.RenderDefinition(sf, name, class.Compilation, im, opts...),
		})
	}

	result.Imports = im.GetAllImports()
	return result, errs.ErrorOrNil()
}

// RenderFiles renders every analyzed class of files as one batch
func (r *Renderer) RenderFiles(files []*analyzer.AnalyzedFile) (*RenderResult, error) {
	var classes []*analyzer.AnalyzedClass
	for _, f := range files {
		classes = append(classes, f.AnalyzedClasses...)
	}
	return r.RenderDefinitions(classes)
}

// rebase rewrites specifiers written in sf so they resolve from the output directory
func (r *Renderer) rebase(sf *host.SourceFile) func(string) string {
	return func(specifier string) string {
		if !host.IsRelativeSpecifier(specifier) {
			return specifier
		}
		return host.RelativeSpecifier(r.outputDir, host.ResolveSpecifier(sf, specifier))
	}
}
