package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
	"github.com/toyz/ngcc/internal/translator"
)

func TestRenderDefinition(t *testing.T) {
	compilation := &annotations.CompileResult{
		Field:       "ɵprov",
		Initializer: output.Call(output.Import("@angular/core", "ɵɵdefineInjectable"), output.LiteralMap(output.Entry("providedIn", output.Literal("root")))),
		Statements: []output.Statement{
			output.DeclareFunction("Svc_Factory", []string{"t"}, output.Return(output.New(output.Variable("Svc")))),
		},
	}

	im := translator.NewImportManager()
	text := RenderDefinition(&host.SourceFile{SingleQuote: true}, "Svc", compilation, im)

	assert.Equal(t,
		"function Svc_Factory(t) {\n    return new Svc();\n}\n"+
			"Svc.ɵprov = i0.ɵɵdefineInjectable({ providedIn: 'root' });",
		text)
	assert.Equal(t, 1, im.Len())
}

func TestNameStrategies(t *testing.T) {
	decl := &host.ClassDeclaration{Name: "Real", SourceFile: &host.SourceFile{FileName: "x.ts"}}

	name, err := DirectName{}.Resolve(decl, "Display")
	require.NoError(t, err)
	assert.Equal(t, "Real", name)

	_, err = DirectName{}.Resolve(&host.ClassDeclaration{Pos: host.Position{Line: 3, Column: 1}}, "default")
	var direct *errors.NameResolutionError
	require.True(t, errors.As(err, &direct))
	assert.Equal(t, "default", direct.ClassName)
	assert.Equal(t, 3, direct.Location().Line)

	reflected := ReflectedName{Host: host.NewReflectionHost()}
	name, err = reflected.Resolve(decl, "Display")
	require.NoError(t, err)
	assert.Equal(t, "Real", name)

	_, err = reflected.Resolve(&host.ClassDeclaration{}, "")
	var failure *errors.NameResolutionError
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "<anonymous>", failure.ClassName)

	_, err = DirectName{}.Resolve(nil, "")
	assert.Error(t, err)
}
