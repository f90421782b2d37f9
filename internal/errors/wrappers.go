package errors

import (
	goerrors "errors"
	"fmt"
)

// WrapParseError wraps a parser failure as a syntax error
func WrapParseError(file string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", file), cause).
			WithLocation(SourceLocation{File: file}),
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// ConfigurationError creates a configuration error without an underlying cause
func ConfigurationError(configType, message string) *BaseError {
	return New(ConfigurationErrorCode, message).
		WithContext("config_type", configType)
}

// AsCompilerError converts any error into a CompilerError, keeping typed errors intact
func AsCompilerError(err error) CompilerError {
	if err == nil {
		return nil
	}
	var ce CompilerError
	if goerrors.As(err, &ce) {
		return ce
	}
	return Wrap(UnknownErrorCode, err.Error(), err)
}

// AddToMultiple appends err to *multiple, allocating the collection on first use
func AddToMultiple(multiple **MultipleErrors, err error) {
	if err == nil {
		return
	}
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	var many *MultipleErrors
	if goerrors.As(err, &many) {
		(*multiple).Merge(many)
		return
	}
	(*multiple).Add(AsCompilerError(err))
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return goerrors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return goerrors.As(err, target)
}
