package internal

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ngcc/internal/analyzer"
	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/renderer"
	"github.com/toyz/ngcc/internal/translator"
	"github.com/toyz/ngcc/internal/utils"
)

const heroApp = "../examples/hero-app"

func analyzeHeroApp(t *testing.T, coreVersion string) (host.ReflectionHost, []*analyzer.AnalyzedFile) {
	t.Helper()

	h := host.NewReflectionHost()
	reader := utils.NewFileReaderWithHost(h)
	files, err := utils.NewFileProcessorWithReader(reader).CollectSourceFiles([]string{heroApp})
	require.NoError(t, err)
	require.Len(t, files, 5)

	target, err := annotations.NewTarget(coreVersion)
	require.NoError(t, err)
	a := analyzer.NewDefaultAnalyzer(h, analyzer.Options{
		Target: target,
		Scope:  annotations.NewSelectorScopeRegistry(),
		Loader: reader,
	})

	var analyzed []*analyzer.AnalyzedFile
	for _, path := range files {
		parsed, err := reader.ParseFile(path)
		require.NoError(t, err, path)

		result, err := a.AnalyzeFile(parsed)
		require.NoError(t, err, path)
		require.Len(t, result.AnalyzedClasses, 1, path)
		for _, d := range result.Diagnostics() {
			assert.NotEqual(t, annotations.DiagnosticError, d.Category, d.String())
		}
		analyzed = append(analyzed, result)
	}
	return h, analyzed
}

func definitionOf(t *testing.T, files []*analyzer.AnalyzedFile, class string) (*analyzer.AnalyzedFile, string) {
	t.Helper()
	for _, f := range files {
		for _, c := range f.AnalyzedClasses {
			if c.Name == class {
				return f, c.RenderedText
			}
		}
	}
	t.Fatalf("class %s was not analyzed", class)
	return nil, ""
}

func TestHeroAppInline(t *testing.T) {
	_, files := analyzeHeroApp(t, "")

	file, service := definitionOf(t, files, "HeroService")
	assert.Contains(t, service, "i0.ɵɵinject(i1.Logger, 8)")
	assert.Contains(t, service, "HeroService.ɵprov = i0.ɵɵdefineInjectable(")
	assert.Equal(t, "import * as i0 from '@angular/core';\nimport * as i1 from './logger.service';\n",
		translator.RenderImports(file.Imports, file.SourceFile))

	_, component := definitionOf(t, files, "HeroListComponent")
	assert.Contains(t, component, "HeroListComponent.ɵcmp = i0.ɵɵdefineComponent(")
	assert.Contains(t, component, "selectors: [['app-hero-list']]")
	assert.Contains(t, component, "appHighlight=\"lightblue\"", "templateUrl is loaded relative to the component")
	assert.Contains(t, component, "cursor: pointer;")
	assert.Contains(t, component, "i0.ChangeDetectionStrategy.OnPush")

	_, directive := definitionOf(t, files, "HighlightDirective")
	assert.Contains(t, directive, "i0.ɵɵdirectiveInject(i0.ElementRef)")
	assert.Contains(t, directive, "selectors: [['', 'appHighlight', '']]")

	_, module := definitionOf(t, files, "AppModule")
	assert.Contains(t, module, "AppModule.ɵmod = i0.ɵɵdefineNgModule(")
	assert.Contains(t, module, "AppModule.ɵinj = i0.ɵɵdefineInjector(")
}

func TestHeroAppBatch(t *testing.T) {
	h, files := analyzeHeroApp(t, "9.1.0")

	result, err := renderer.NewRenderer(h).RenderFiles(files)
	require.NoError(t, err)
	require.Len(t, result.RenderedClasses, 5)

	specifiers := make([]string, len(result.Imports))
	for i, imp := range result.Imports {
		specifiers[i] = imp.ModuleSpecifier
		assert.Equal(t, "i"+string(rune('0'+i)), imp.LocalName)
	}
	assert.Equal(t, "@angular/core", specifiers[0])
	assert.Len(t, specifiers, len(uniqueStrings(specifiers)), "one alias per module across the batch")

	for _, rc := range result.RenderedClasses {
		assert.True(t, strings.HasPrefix(rc.RenderedOutput, "function "+rc.AnalyzedClass.Name+"_Factory(t)"),
			rc.AnalyzedClass.Name)
	}
}

func TestHeroAppLegacyTarget(t *testing.T) {
	_, files := analyzeHeroApp(t, "8.2.14")

	_, service := definitionOf(t, files, "HeroService")
	assert.Contains(t, service, "HeroService.ngInjectableDef = i0.defineInjectable(")
	assert.Contains(t, service, "i0.inject(i1.Logger, 8)")

	_, component := definitionOf(t, files, "HeroListComponent")
	assert.Contains(t, component, "HeroListComponent.ngComponentDef = i0.ɵdefineComponent(")
}

func TestHeroAppSourcesKeepTheirPaths(t *testing.T) {
	_, files := analyzeHeroApp(t, "")
	for _, f := range files {
		assert.Equal(t, filepath.Clean(f.SourceFile.FileName), f.SourceFile.FileName)
		assert.True(t, strings.HasPrefix(f.SourceFile.FileName, filepath.Clean(heroApp)))
	}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	return unique
}
