// Package build compiles and packages Hashira applications.
//
// This package handles:
//   - Server binary compilation
//   - Client library compilation for WebAssembly
//   - Copying the Go runtime's wasm_exec.js support file
//   - Static asset packaging through ordered pipelines
//   - Include-glob resolution with packaging safety checks
//
// # Usage
//
//	builder := build.New(cfg, build.Options{Release: true}, logger)
//	result, err := builder.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Built in %s\n", result.Duration)
//	fmt.Printf("Binary: %s\n", result.Binary)
//
// # Output Structure
//
//	dist/
//	├── server              # server binary
//	└── public/
//	    ├── app.wasm        # client library
//	    ├── wasm_exec.js    # Go wasm runtime support
//	    └── ...             # packaged static assets
//
// # Pipelines
//
// Discovered files are offered to each Pipeline in order; a pipeline
// claims the files its predicate accepts. The copy pipeline runs last
// and claims everything left. Files no pipeline claims are logged.
package build
