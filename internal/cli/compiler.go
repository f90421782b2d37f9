package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toyz/ngcc/internal/analyzer"
	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/renderer"
	"github.com/toyz/ngcc/internal/translator"
	"github.com/toyz/ngcc/internal/utils"
)

// Compiler coordinates a compile run: discovery, parsing, analysis and emission
type Compiler struct {
	host        host.ReflectionHost
	processor   *utils.FileProcessor
	reader      *utils.FileReader
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	stdout      io.Writer
	summary     CompilationSummary
}

// NewCompiler creates a compiler reporting through diagnostics and reporter
func NewCompiler(diagnostics *utils.DiagnosticSystem, reporter *DiagnosticReporter) *Compiler {
	h := host.NewReflectionHost()
	reader := utils.NewFileReaderWithHost(h)
	return &Compiler{
		host:        h,
		processor:   utils.NewFileProcessorWithReader(reader),
		reader:      reader,
		reporter:    reporter,
		diagnostics: diagnostics,
		stdout:      os.Stdout,
	}
}

// SetOutput redirects dry-run output
func (c *Compiler) SetOutput(w io.Writer) {
	c.stdout = w
}

// Summary returns the statistics of the last run
func (c *Compiler) Summary() CompilationSummary {
	return c.summary
}

// Run compiles every source file named by config. Failures of single files
// or classes are reported and collected while the remaining files are still
// compiled; the collected failures are returned as one MultipleErrors.
func (c *Compiler) Run(config Config) error {
	startTime := time.Now()
	c.summary = CompilationSummary{}

	if err := config.Validate(); err != nil {
		return err
	}
	coreVersion := config.CoreVersion
	if coreVersion == "" {
		coreVersion = DefaultCoreVersion
	}
	target, err := annotations.NewTarget(coreVersion)
	if err != nil {
		return err
	}
	c.diagnostics.Verbose("Starting compilation at %s", startTime.Format("15:04:05"))
	c.diagnostics.Debug("Targeting @angular/core %s", target.CoreVersion)

	files, err := c.processor.CollectSourceFiles(config.Paths)
	if err != nil {
		return err
	}
	c.summary.FilesScanned = len(files)
	if len(files) == 0 {
		c.diagnostics.Warn("no source files found in %s", strings.Join(config.Paths, ", "))
	}

	a := analyzer.NewDefaultAnalyzer(c.host, analyzer.Options{
		Target: target,
		Scope:  annotations.NewSelectorScopeRegistry(),
		Loader: c.reader,
	})

	var failures *errors.MultipleErrors
	c.diagnostics.PhaseHeader("Analyzing")
	analyzed := c.analyzeFiles(a, files, config, &failures)

	c.diagnostics.PhaseHeader("Emitting")
	if config.Bundle != "" {
		errors.AddToMultiple(&failures, c.emitBundle(config, analyzed))
	} else {
		for _, file := range analyzed {
			errors.AddToMultiple(&failures, c.emitFile(config, file))
		}
	}

	if failures != nil {
		c.summary.Errors = failures.Count()
		c.reporter.ReportError(failures)
	}
	c.diagnostics.Verbose("Compilation took %s", time.Since(startTime).Round(time.Millisecond))
	return failures.ErrorOrNil()
}

func (c *Compiler) analyzeFiles(a *analyzer.Analyzer, files []string, config Config, failures **errors.MultipleErrors) []*analyzer.AnalyzedFile {
	var analyzed []*analyzer.AnalyzedFile

	for _, path := range files {
		parsed, err := c.reader.ParseFile(path)
		if err != nil {
			errors.AddToMultiple(failures, err)
			continue
		}
		if len(parsed.DecoratedClasses) == 0 {
			c.diagnostics.Debug("%s: no decorated classes", path)
			continue
		}

		result, err := a.AnalyzeFile(parsed)
		errors.AddToMultiple(failures, err)

		diagnostics := result.Diagnostics()
		for _, d := range diagnostics {
			if d.Category == annotations.DiagnosticWarning {
				c.summary.Warnings++
			}
		}
		if !config.Quiet {
			c.reporter.ReportDiagnostics(diagnostics)
		}

		if len(result.AnalyzedClasses) == 0 {
			continue
		}
		c.summary.ClassesCompiled += len(result.AnalyzedClasses)
		c.diagnostics.PhaseItem(fmt.Sprintf("%s (%s)", path, classNames(result)))
		analyzed = append(analyzed, result)
	}

	return analyzed
}

func classNames(file *analyzer.AnalyzedFile) string {
	names := make([]string, len(file.AnalyzedClasses))
	for i, class := range file.AnalyzedClasses {
		names[i] = class.Name
	}
	return strings.Join(names, ", ")
}

// ComposeFile builds the compiled form of a file: the import header, the
// original source and the rendered definitions of its classes
func ComposeFile(file *analyzer.AnalyzedFile) string {
	var b strings.Builder

	if header := translator.RenderImports(file.Imports, file.SourceFile); header != "" {
		b.WriteString(header)
	}
	b.WriteString(file.SourceFile.Text)
	if !strings.HasSuffix(file.SourceFile.Text, "\n") {
		b.WriteString("\n")
	}
	for _, class := range file.AnalyzedClasses {
		b.WriteString(class.RenderedText)
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Compiler) emitFile(config Config, file *analyzer.AnalyzedFile) error {
	out := utils.CompiledPath(file.SourceFile.FileName, config.OutDir)
	return c.write(config, out, ComposeFile(file))
}

// emitBundle writes every definition into one listing that shares a single
// import header. Module specifiers are rewritten relative to the bundle, but
// class names and same-file references stay bare: the bundle is meant for
// review and diffing and is not loadable on its own.
func (c *Compiler) emitBundle(config Config, files []*analyzer.AnalyzedFile) error {
	result, renderErr := renderer.NewBundleRenderer(c.host, config.Bundle).RenderFiles(files)

	sf := &host.SourceFile{FileName: config.Bundle}
	if len(files) > 0 {
		sf.SingleQuote = files[0].SourceFile.SingleQuote
	}

	var b strings.Builder
	b.WriteString(translator.RenderImports(result.Imports, sf))

	current := ""
	for _, rc := range result.RenderedClasses {
		if from := sourceOf(rc.AnalyzedClass); from != current {
			current = from
			fmt.Fprintf(&b, "\n// %s\n", from)
		}
		b.WriteString(rc.RenderedOutput)
		b.WriteString("\n")
	}

	var errs *errors.MultipleErrors
	errors.AddToMultiple(&errs, renderErr)
	errors.AddToMultiple(&errs, c.write(config, config.Bundle, b.String()))
	return errs.ErrorOrNil()
}

func sourceOf(class *analyzer.AnalyzedClass) string {
	if class.Declaration == nil || class.Declaration.SourceFile == nil {
		return ""
	}
	return class.Declaration.SourceFile.FileName
}

func (c *Compiler) write(config Config, path, content string) error {
	if config.DryRun {
		fmt.Fprintf(c.stdout, "// ---- %s ----\n%s", path, content)
		c.summary.FilesCompiled++
		c.summary.OutputFiles = append(c.summary.OutputFiles, path)
		return nil
	}

	c.diagnostics.PhaseProgress("Writing " + path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.WrapFileSystemError("create directory for", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}

	c.summary.FilesCompiled++
	c.summary.OutputFiles = append(c.summary.OutputFiles, path)
	return nil
}
