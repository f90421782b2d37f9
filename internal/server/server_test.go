package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ngcc/internal/annotations"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	config := DefaultConfig()
	config.EnableLogger = false
	s, err := New(config, nil)
	require.NoError(t, err)
	return s
}

func postCompile(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, CompileResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	var resp CompileResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func compileBody(t *testing.T, req CompileRequest) string {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return string(body)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestCompile_Injectable(t *testing.T) {
	s := newTestServer(t)
	rec, resp := postCompile(t, s, compileBody(t, CompileRequest{
		FileName: "logger.service.ts",
		Source: `import { Injectable } from '@angular/core';

@Injectable({ providedIn: 'root' })
export class Logger {}
`,
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Imports, 1)
	assert.Equal(t, "@angular/core", resp.Imports[0].ModuleSpecifier)
	assert.Equal(t, "i0", resp.Imports[0].LocalName)

	require.Len(t, resp.Classes, 1)
	assert.Equal(t, "Logger", resp.Classes[0].Name)
	assert.Equal(t, "ɵprov", resp.Classes[0].Field)
	assert.Contains(t, resp.Classes[0].Definition, "Logger.ɵprov = i0.ɵɵdefineInjectable(")
	assert.Empty(t, resp.Errors)
}

func TestCompile_PartialFailure(t *testing.T) {
	s := newTestServer(t)
	rec, resp := postCompile(t, s, compileBody(t, CompileRequest{
		FileName: "mixed.ts",
		Source: `import { Component, Injectable } from '@angular/core';

@Injectable()
export class Good {}

@Component({ selector: 'x-bad', template: '' })
@Injectable()
export class Bad {}
`,
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Classes, 1)
	assert.Equal(t, "Good", resp.Classes[0].Name)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Bad", resp.Errors[0].Class)
	assert.Equal(t, "mixed.ts", resp.Errors[0].Location.File)
	assert.Equal(t, 6, resp.Errors[0].Location.Line)
}

func TestCompile_FailureCarriesDiagnostics(t *testing.T) {
	s := newTestServer(t)
	rec, resp := postCompile(t, s, compileBody(t, CompileRequest{
		FileName: "a.ts",
		Source: `import { Component } from '@angular/core';

@Component({ selector: 5, bogus: 1 })
export class A {}
`,
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Classes)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "CompilationError", resp.Errors[0].Code)

	codes := make(map[int]annotations.DiagnosticCategory)
	for _, d := range resp.Errors[0].Diagnostics {
		codes[d.Code] = d.Category
		assert.Equal(t, "a.ts", d.Location.File)
	}
	assert.Equal(t, map[int]annotations.DiagnosticCategory{
		annotations.CodeValueHasWrongType:  annotations.DiagnosticError,
		annotations.CodeUnknownMetadataKey: annotations.DiagnosticWarning,
	}, codes)
}

func TestCompile_LegacyCoreVersion(t *testing.T) {
	s := newTestServer(t)
	rec, resp := postCompile(t, s, compileBody(t, CompileRequest{
		FileName:    "logger.service.ts",
		Source:      "import { Injectable } from '@angular/core';\n@Injectable()\nexport class Logger {}\n",
		CoreVersion: "8.2.0",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Classes, 1)
	assert.Equal(t, "ngInjectableDef", resp.Classes[0].Field)
}

func TestCompile_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"malformed json", `{"fileName":`, http.StatusBadRequest, "invalid request body"},
		{"missing file name", `{"source":"export class A {}"}`, http.StatusBadRequest, "fileName"},
		{"bad core version", `{"fileName":"a.ts","source":"","coreVersion":"next"}`, http.StatusBadRequest, "next"},
		{"syntax error", `{"fileName":"a.ts","source":"@Injectable(\nexport class A {}"}`, http.StatusBadRequest, "failed to parse a.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := postCompile(t, s, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var httpErr HttpError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
			assert.Contains(t, httpErr.Message, tt.message)
		})
	}
}

func TestCompile_SyntaxErrorDetails(t *testing.T) {
	s := newTestServer(t)
	rec, _ := postCompile(t, s, `{"fileName":"a.ts","source":"@Injectable(\nexport class A {}"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Details []ErrorPayload `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Details, 1)
	assert.Equal(t, "SyntaxError", body.Details[0].Code)
	assert.Equal(t, "a.ts", body.Details[0].Location.File)
}

func TestCompile_SourceTooLarge(t *testing.T) {
	config := DefaultConfig()
	config.EnableLogger = false
	config.MaxSourceBytes = 8
	s, err := New(config, nil)
	require.NoError(t, err)

	rec, _ := postCompile(t, s, compileBody(t, CompileRequest{FileName: "a.ts", Source: "export class Large {}"}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCompile_BodyLimitRejectsBeforeDecoding(t *testing.T) {
	config := DefaultConfig()
	config.EnableLogger = false
	config.MaxSourceBytes = 8
	s, err := New(config, nil)
	require.NoError(t, err)

	body := strings.Repeat("x", config.maxBodyBytes()+1)
	rec, _ := postCompile(t, s, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, "an invalid body over the limit is never bound")
}

func TestCompile_LocationKeysAreCamelCase(t *testing.T) {
	s := newTestServer(t)
	rec, _ := postCompile(t, s, compileBody(t, CompileRequest{
		FileName: "a.ts",
		Source:   "import { Component } from '@angular/core';\n@Component({ selector: 'x-a' })\nexport class A {}\n",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Errors []struct {
			Location map[string]any `json:"location"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Errors, 1)
	assert.Equal(t, map[string]any{"file": "a.ts", "line": float64(2), "column": float64(1)}, raw.Errors[0].Location)
}

func TestCompile_RequestsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	withModule := `import { Component, Directive, NgModule } from '@angular/core';

@Directive({ selector: '[appHighlight]' })
export class HighlightDirective {}

@NgModule({ declarations: [HighlightDirective, AppComponent] })
export class AppModule {}

@Component({ selector: 'app-root', template: '<p appHighlight></p>' })
export class AppComponent {}
`
	rec, resp := postCompile(t, s, compileBody(t, CompileRequest{FileName: "app.ts", Source: withModule}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Classes, 3)
	assert.Contains(t, resp.Classes[2].Definition, "directives: [HighlightDirective, AppComponent]")

	alone := `import { Component } from '@angular/core';

@Component({ selector: 'app-root', template: '<p appHighlight></p>' })
export class AppComponent {}
`
	rec, resp = postCompile(t, s, compileBody(t, CompileRequest{FileName: "app.ts", Source: alone}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Classes, 1)
	assert.NotContains(t, resp.Classes[0].Definition, "HighlightDirective", "scope does not leak between requests")
}

func TestNew_InvalidCoreVersion(t *testing.T) {
	_, err := New(Config{CoreVersion: "not-a-version"}, nil)
	assert.Error(t, err)
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	config := DefaultConfig()
	config.Addr = "127.0.0.1:0"
	config.EnableLogger = false
	s, err := New(config, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return s.Echo().ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
