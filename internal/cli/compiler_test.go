package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/utils"
)

const loggerService = `import { Injectable } from '@angular/core';

@Injectable({ providedIn: 'root' })
export class Logger {}
`

const loggerDefinition = "function Logger_Factory(t) {\n    return new (t || Logger)();\n}\n" +
	"Logger.ɵprov = i0.ɵɵdefineInjectable({ token: Logger, factory: Logger_Factory, providedIn: 'root' });\n"

const highlightDirective = `import { Directive } from '@angular/core';
import { Logger } from './logger.service';

@Directive({ selector: '[appHighlight]' })
export class HighlightDirective {
  constructor(private logger: Logger) {}
}
`

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestCompiler() (*Compiler, *bytes.Buffer) {
	var log bytes.Buffer
	c := NewCompiler(utils.NewDiagnosticWriter(utils.DiagnosticDebug, &log), NewDiagnosticReporterTo(true, &log))
	return c, &log
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestCompiler_WritesCompiledFiles(t *testing.T) {
	root := writeSources(t, map[string]string{
		"src/logger.service.ts": loggerService,
		"src/plain.ts":          "export const answer = 42;\n",
	})

	c, _ := newTestCompiler()
	require.NoError(t, c.Run(Config{Paths: []string{root}}))

	compiled := readFile(t, filepath.Join(root, "src/logger.service.ivy.ts"))
	assert.Equal(t, "import * as i0 from '@angular/core';\n"+loggerService+loggerDefinition, compiled)
	assert.NoFileExists(t, filepath.Join(root, "src/plain.ivy.ts"))

	summary := c.Summary()
	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 1, summary.FilesCompiled)
	assert.Equal(t, 1, summary.ClassesCompiled)
	assert.Zero(t, summary.Errors)
}

func TestCompiler_WarnsWhenNothingToCompile(t *testing.T) {
	root := writeSources(t, map[string]string{"README.md": "# docs\n"})

	c, log := newTestCompiler()
	require.NoError(t, c.Run(Config{Paths: []string{root}}))

	assert.Contains(t, log.String(), "[WARN] no source files found in "+root)
	assert.Zero(t, c.Summary().FilesScanned)
}

func TestCompiler_SecondRunSkipsOutputs(t *testing.T) {
	root := writeSources(t, map[string]string{"logger.service.ts": loggerService})

	c, _ := newTestCompiler()
	require.NoError(t, c.Run(Config{Paths: []string{root}}))
	require.NoError(t, c.Run(Config{Paths: []string{root}}))

	assert.Equal(t, 1, c.Summary().FilesScanned, "compiled outputs are not inputs")
	assert.NoFileExists(t, filepath.Join(root, "logger.service.ivy.ivy.ts"))
}

func TestCompiler_OutDir(t *testing.T) {
	root := writeSources(t, map[string]string{"src/logger.service.ts": loggerService})
	out := filepath.Join(t.TempDir(), "out")

	c, _ := newTestCompiler()
	source := filepath.Join(root, "src/logger.service.ts")
	require.NoError(t, c.Run(Config{Paths: []string{source}, OutDir: out}))

	require.Len(t, c.Summary().OutputFiles, 1)
	assert.Equal(t, utils.CompiledPath(source, out), c.Summary().OutputFiles[0])
	assert.FileExists(t, c.Summary().OutputFiles[0])
}

func TestCompiler_PartialFailure(t *testing.T) {
	root := writeSources(t, map[string]string{
		"a.ts": loggerService,
		"b.ts": `import { Component, Injectable } from '@angular/core';

@Component({ selector: 'x-both', template: '' })
@Injectable()
export class Both {}
`,
		"c.ts": "@Injectable({ factory: () => 1 })\nexport class Broken {}\n",
	})

	c, log := newTestCompiler()
	err := c.Run(Config{Paths: []string{root}})

	var many *errors.MultipleErrors
	require.True(t, errors.As(err, &many))
	assert.Equal(t, 2, many.Count())
	assert.True(t, many.HasCode(errors.AmbiguousAnnotationErrorCode))
	assert.True(t, many.HasCode(errors.SyntaxErrorCode))

	assert.FileExists(t, filepath.Join(root, "a.ivy.ts"), "healthy files are still emitted")
	assert.NoFileExists(t, filepath.Join(root, "b.ivy.ts"))
	assert.Equal(t, 2, c.Summary().Errors)

	assert.Contains(t, log.String(), "ERROR: Ambiguous Decorators")
	assert.Contains(t, log.String(), "ERROR: Syntax Error")
}

func TestCompiler_ReportsDiagnostics(t *testing.T) {
	root := writeSources(t, map[string]string{
		"app.component.ts": `import { Component } from '@angular/core';

@Component({ template: '<p></p>', unknownKey: true })
export class AppComponent {}
`,
	})

	c, log := newTestCompiler()
	require.NoError(t, c.Run(Config{Paths: []string{root}}))

	assert.Equal(t, 2, c.Summary().Warnings)
	assert.Contains(t, log.String(), "warning NG1005")
	assert.Contains(t, log.String(), "warning NG1003")
}

func TestCompiler_DryRun(t *testing.T) {
	root := writeSources(t, map[string]string{"logger.service.ts": loggerService})

	c, _ := newTestCompiler()
	var out bytes.Buffer
	c.SetOutput(&out)
	require.NoError(t, c.Run(Config{Paths: []string{root}, DryRun: true}))

	assert.NoFileExists(t, filepath.Join(root, "logger.service.ivy.ts"))
	assert.Contains(t, out.String(), "logger.service.ivy.ts ----\n")
	assert.True(t, strings.HasSuffix(out.String(), loggerDefinition))
}

func TestCompiler_Bundle(t *testing.T) {
	root := writeSources(t, map[string]string{
		"logger.service.ts":      loggerService,
		"highlight.directive.ts": highlightDirective,
	})
	bundle := filepath.Join(root, "dist", "definitions.js")

	c, _ := newTestCompiler()
	require.NoError(t, c.Run(Config{Paths: []string{root}, Bundle: bundle}))

	content := readFile(t, bundle)
	assert.Equal(t, 1, strings.Count(content, "import * as i0 from '@angular/core';"))
	assert.Contains(t, content, "HighlightDirective.ɵdir = i0.ɵɵdefineDirective(")
	assert.Contains(t, content, "Logger.ɵprov = i0.ɵɵdefineInjectable(")
	assert.Contains(t, content, "i1.Logger", "the dependency is imported through the shared header")
	assert.Contains(t, content, "import * as i1 from '../logger.service';", "specifiers resolve from the bundle")
	assert.NoFileExists(t, filepath.Join(root, "logger.service.ivy.ts"))
	assert.Equal(t, []string{bundle}, c.Summary().OutputFiles)
}

func TestCompiler_BundleKeepsSameSpecifierFromDifferentDirectories(t *testing.T) {
	service := func(name string) string {
		return "import { Injectable } from '@angular/core';\n" +
			"import { Dep } from './dep';\n\n" +
			"@Injectable()\n" +
			"export class " + name + " {\n  constructor(dep: Dep) {}\n}\n"
	}
	root := writeSources(t, map[string]string{
		"a/service.ts": service("AService"),
		"b/service.ts": service("BService"),
	})

	c, _ := newTestCompiler()
	var out bytes.Buffer
	c.SetOutput(&out)
	require.NoError(t, c.Run(Config{
		Paths:  []string{root},
		Bundle: filepath.Join(root, "dist", "bundle.js"),
		DryRun: true,
	}))

	content := out.String()
	assert.Contains(t, content, "import * as i1 from '../a/dep';")
	assert.Contains(t, content, "import * as i2 from '../b/dep';")
	assert.Contains(t, content, "i0.ɵɵinject(i1.Dep)")
	assert.Contains(t, content, "i0.ɵɵinject(i2.Dep)")
	assert.NotContains(t, content, "'./dep'")
}

func TestCompiler_LegacyTarget(t *testing.T) {
	root := writeSources(t, map[string]string{"logger.service.ts": loggerService})

	c, _ := newTestCompiler()
	require.NoError(t, c.Run(Config{Paths: []string{root}, CoreVersion: "8.2.14"}))

	compiled := readFile(t, filepath.Join(root, "logger.service.ivy.ts"))
	assert.Contains(t, compiled, "Logger.ngInjectableDef = i0.defineInjectable(")
}

func TestCompiler_ConfigErrors(t *testing.T) {
	c, _ := newTestCompiler()

	tests := []struct {
		name   string
		config Config
	}{
		{"no paths", Config{}},
		{"empty path", Config{Paths: []string{""}}},
		{"bad version", Config{Paths: []string{"."}, CoreVersion: "latest"}},
		{"verbose and quiet", Config{Paths: []string{"."}, Verbose: true, Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Run(tt.config)
			var compilerErr errors.CompilerError
			require.True(t, errors.As(err, &compilerErr))
			assert.Equal(t, errors.ConfigurationErrorCode, compilerErr.ErrorCode())
		})
	}
}

func TestCompiler_MissingPath(t *testing.T) {
	c, _ := newTestCompiler()
	err := c.Run(Config{Paths: []string{filepath.Join(t.TempDir(), "missing")}})

	var compilerErr errors.CompilerError
	require.True(t, errors.As(err, &compilerErr))
	assert.Equal(t, errors.FileSystemErrorCode, compilerErr.ErrorCode())
}

func TestCleaner(t *testing.T) {
	root := writeSources(t, map[string]string{"logger.service.ts": loggerService})

	c, _ := newTestCompiler()
	require.NoError(t, c.Run(Config{Paths: []string{root}}))

	removed, err := NewCleaner().Clean([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "logger.service.ivy.ts")}, removed)
	assert.FileExists(t, filepath.Join(root, "logger.service.ts"))

	_, err = NewCleaner().Clean(nil)
	assert.Error(t, err)
}

func TestConfigDiagnosticLevel(t *testing.T) {
	assert.Equal(t, utils.DiagnosticError, Config{Quiet: true}.DiagnosticLevel())
	assert.Equal(t, utils.DiagnosticVerbose, Config{Verbose: true}.DiagnosticLevel())
	assert.Equal(t, utils.DiagnosticInfo, Config{}.DiagnosticLevel())
}
