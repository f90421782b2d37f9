package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toyz/ngcc/internal/analyzer"
	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/parser"
	"github.com/toyz/ngcc/internal/translator"
	"github.com/toyz/ngcc/internal/utils"
)

// CompileRequest is the body of POST /compile
type CompileRequest struct {
	FileName    string `json:"fileName"`
	Source      string `json:"source"`
	CoreVersion string `json:"coreVersion,omitempty"`
}

// CompileResponse lists the imports, compiled classes and failures of one file
type CompileResponse struct {
	Imports []translator.ImportAlias `json:"imports"`
	Classes []CompiledClass          `json:"classes"`
	Errors  []ErrorPayload           `json:"errors"`
}

// CompiledClass is the rendered definition of one class
type CompiledClass struct {
	Name        string                   `json:"name"`
	Field       string                   `json:"field"`
	Definition  string                   `json:"definition"`
	Diagnostics []annotations.Diagnostic `json:"diagnostics"`
}

// ErrorPayload is the JSON form of a compiler error
type ErrorPayload struct {
	Code        string                `json:"code"`
	Message     string                `json:"message"`
	Class       string                `json:"class,omitempty"`
	Location    errors.SourceLocation `json:"location"`
	Suggestions []string              `json:"suggestions,omitempty"`

	Diagnostics []annotations.Diagnostic `json:"diagnostics,omitempty"`
}

func newErrorPayloads(err error) []ErrorPayload {
	payloads := []ErrorPayload{}
	if err == nil {
		return payloads
	}

	var many *errors.MultipleErrors
	if !errors.As(err, &many) {
		many = errors.NewMultipleErrors()
		many.Add(errors.AsCompilerError(err))
	}
	for _, e := range many.Errors {
		payloads = append(payloads, ErrorPayload{
			Code:        e.ErrorCode().String(),
			Message:     e.Error(),
			Class:       errors.ClassOf(e),
			Location:    e.Location(),
			Suggestions: e.Suggestions(),
			Diagnostics: analyzer.FailureDiagnostics(e),
		})
	}
	return payloads
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// compile parses and analyzes one file. A file that does not parse is a bad
// request; failures of single classes are reported next to the classes that
// compiled.
func (s *Server) compile(c echo.Context) error {
	var req CompileRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest("invalid request body")
	}

	chain := utils.NewValidatorChain[string]().Add(utils.NotEmpty("fileName"))
	if err := chain.Validate(req.FileName); err != nil {
		return ErrBadRequest(err.Error())
	}
	if len(req.Source) > s.config.MaxSourceBytes {
		return ErrRequestTooLarge("source exceeds the configured size limit")
	}

	target := s.target
	if req.CoreVersion != "" {
		t, err := annotations.NewTarget(req.CoreVersion)
		if err != nil {
			return ErrBadRequest(err.Error())
		}
		target = t
	}

	parsed, err := parser.NewParser(s.host).ParseSource(req.FileName, req.Source)
	if err != nil {
		return ErrBadRequestWithDetails("failed to parse "+req.FileName, newErrorPayloads(err))
	}

	a := analyzer.NewDefaultAnalyzer(s.host, analyzer.Options{
		Target: target,
		Scope:  annotations.NewSelectorScopeRegistry(),
	})
	result, analyzeErr := a.AnalyzeFile(parsed)

	resp := CompileResponse{
		Imports: result.Imports,
		Classes: make([]CompiledClass, 0, len(result.AnalyzedClasses)),
		Errors:  newErrorPayloads(analyzeErr),
	}
	if resp.Imports == nil {
		resp.Imports = []translator.ImportAlias{}
	}
	for _, class := range result.AnalyzedClasses {
		diagnostics := class.Diagnostics
		if diagnostics == nil {
			diagnostics = []annotations.Diagnostic{}
		}
		resp.Classes = append(resp.Classes, CompiledClass{
			Name:        class.Name,
			Field:       class.Compilation.Field,
			Definition:  class.RenderedText,
			Diagnostics: diagnostics,
		})
	}

	s.diagnostics.Debug("%s %s: %d classes, %d errors", c.Response().Header().Get(echo.HeaderXRequestID),
		req.FileName, len(resp.Classes), len(resp.Errors))
	return c.JSON(http.StatusOK, resp)
}
