// Package errors provides structured, actionable error messages for Hashira.
//
// Each error carries a stable code, a category naming the subsystem that
// produced it, an optional source location with surrounding lines, a fix
// suggestion, and a documentation link.
//
// # Error Categories
//
//   - routing: route registration and matching errors
//   - render: page and error-page rendering errors
//   - build: server and WebAssembly build errors
//   - tool: external tool download and install errors
//   - watch: file watcher and dev process errors
//   - config: hashira.json errors
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("H200").
//	    WithLocationFromError(compilerErr).
//	    WithSuggestion("Check the compiler output above")
//
//	fmt.Println(err.Format())
package errors
