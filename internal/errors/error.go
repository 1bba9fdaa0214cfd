package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Category groups errors by the subsystem that produced them.
type Category string

const (
	CategoryRouting Category = "routing"
	CategoryRender  Category = "render"
	CategoryBuild   Category = "build"
	CategoryTool    Category = "tool"
	CategoryWatch   Category = "watch"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Location is a source position attached to build errors.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// HashiraError is a structured error with a stable code, an optional
// source location, and a fix suggestion for terminal display.
type HashiraError struct {
	// Code is a unique error identifier (e.g., "H102").
	Code string

	// Category is the subsystem the error belongs to.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source position, when one is known.
	Location *Location

	// Context contains source lines surrounding Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL links to documentation for this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HashiraError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HashiraError) Unwrap() error {
	return e.Wrapped
}

// WithLocation attaches a source position and loads surrounding lines.
func (e *HashiraError) WithLocation(file string, line, column int) *HashiraError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithLocationFromError extracts a position from a Go compiler
// diagnostic of the form "file.go:line:column: message".
func (e *HashiraError) WithLocationFromError(err error) *HashiraError {
	if err == nil {
		return e
	}
	parts := strings.SplitN(err.Error(), ":", 4)
	if len(parts) >= 3 {
		var line, col int
		fmt.Sscanf(parts[1], "%d", &line)
		fmt.Sscanf(parts[2], "%d", &col)
		if line > 0 {
			e.Location = &Location{File: parts[0], Line: line, Column: col}
			e.Context = readContextLines(parts[0], line, 5)
		}
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HashiraError) WithSuggestion(s string) *HashiraError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *HashiraError) WithDetail(d string) *HashiraError {
	e.Detail = d
	return e
}

// Wrap records the underlying error.
func (e *HashiraError) Wrap(err error) *HashiraError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around targetLine from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a HashiraError from a registered error code.
func New(code string) *HashiraError {
	template, ok := registry[code]
	if !ok {
		return &HashiraError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HashiraError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new HashiraError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *HashiraError {
	return &HashiraError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error under a registered code. Errors that
// already are HashiraErrors pass through unchanged.
func FromError(err error, code string) *HashiraError {
	if err == nil {
		return nil
	}
	if he, ok := err.(*HashiraError); ok {
		return he
	}
	return New(code).Wrap(err)
}
