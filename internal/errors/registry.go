package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (H100-H119)
	// ============================================

	"H100": {
		Category: CategoryRouting,
		Message:  "Route not found",
		Detail:   "No registered route matches the requested path.",
		DocURL:   "https://hashira.dev/docs/errors/H100",
	},
	"H101": {
		Category: CategoryRouting,
		Message:  "Method not allowed",
		Detail:   "The path matched a route but the route does not accept this HTTP method.",
		DocURL:   "https://hashira.dev/docs/errors/H101",
	},
	"H102": {
		Category: CategoryRouting,
		Message:  "Duplicate route",
		Detail:   "Two routes with overlapping methods resolve to the same path pattern.",
		DocURL:   "https://hashira.dev/docs/errors/H102",
	},
	"H103": {
		Category: CategoryRouting,
		Message:  "Invalid route pattern",
		Detail:   "Route paths must start with '/' and may only use a trailing wildcard segment.",
		DocURL:   "https://hashira.dev/docs/errors/H103",
	},

	// ============================================
	// Render Errors (H120-H139)
	// ============================================

	"H120": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "The page component could not be rendered to HTML.",
		DocURL:   "https://hashira.dev/docs/errors/H120",
	},
	"H121": {
		Category: CategoryRender,
		Message:  "No renderer configured",
		Detail:   "The application was built without a renderer but a handler called Render.",
		DocURL:   "https://hashira.dev/docs/errors/H121",
	},
	"H122": {
		Category: CategoryRender,
		Message:  "Error page failed",
		Detail:   "An error handler returned an error of its own. The original error was served as plain text.",
		DocURL:   "https://hashira.dev/docs/errors/H122",
	},

	// ============================================
	// Build Errors (H200-H219)
	// ============================================

	"H200": {
		Category: CategoryBuild,
		Message:  "Server build failed",
		Detail:   "The Go build for the server binary failed. Check the output for compiler errors.",
		DocURL:   "https://hashira.dev/docs/errors/H200",
	},
	"H201": {
		Category: CategoryBuild,
		Message:  "WebAssembly build failed",
		Detail:   "The GOOS=js GOARCH=wasm build for the client library failed.",
		DocURL:   "https://hashira.dev/docs/errors/H201",
	},
	"H202": {
		Category: CategoryBuild,
		Message:  "Include file outside project",
		Detail:   "An include glob matched a file outside the project directory. Only files under the project root can be packaged.",
		DocURL:   "https://hashira.dev/docs/errors/H202",
	},
	"H203": {
		Category: CategoryBuild,
		Message:  "Include file inside source directory",
		Detail:   "An include glob matched a file inside the source directory. Source files are compiled, not copied.",
		DocURL:   "https://hashira.dev/docs/errors/H203",
	},
	"H204": {
		Category: CategoryBuild,
		Message:  "Public directory missing",
		Detail:   "The configured public directory does not exist.",
		DocURL:   "https://hashira.dev/docs/errors/H204",
	},

	// ============================================
	// Tool Errors (H220-H239)
	// ============================================

	"H220": {
		Category: CategoryTool,
		Message:  "Tool download failed",
		Detail:   "The external tool archive could not be downloaded.",
		DocURL:   "https://hashira.dev/docs/errors/H220",
	},
	"H221": {
		Category: CategoryTool,
		Message:  "Unsupported archive format",
		Detail:   "The downloaded file is not a .tar.gz, .zip, or raw binary.",
		DocURL:   "https://hashira.dev/docs/errors/H221",
	},
	"H222": {
		Category: CategoryTool,
		Message:  "Tool version mismatch",
		Detail:   "An installed binary reported a version different from the one requested.",
		DocURL:   "https://hashira.dev/docs/errors/H222",
	},
	"H223": {
		Category: CategoryTool,
		Message:  "Install directory missing",
		Detail:   "Tools can only be extracted into a directory that already exists.",
		DocURL:   "https://hashira.dev/docs/errors/H223",
	},

	// ============================================
	// Watch Errors (H240-H259)
	// ============================================

	"H240": {
		Category: CategoryWatch,
		Message:  "Watch path unreadable",
		Detail:   "A watched directory could not be scanned.",
		DocURL:   "https://hashira.dev/docs/errors/H240",
	},
	"H241": {
		Category: CategoryWatch,
		Message:  "Application process failed",
		Detail:   "The development server process exited with an error.",
		DocURL:   "https://hashira.dev/docs/errors/H241",
	},

	// ============================================
	// Configuration Errors (H260-H279)
	// ============================================

	"H260": {
		Category: CategoryConfig,
		Message:  "Invalid hashira.json",
		Detail:   "The hashira.json configuration file is malformed.",
		DocURL:   "https://hashira.dev/docs/errors/H260",
	},
	"H261": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://hashira.dev/docs/errors/H261",
	},
	"H262": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is invalid or already in use.",
		DocURL:   "https://hashira.dev/docs/errors/H262",
	},

	// ============================================
	// CLI Errors (H280-H299)
	// ============================================

	"H280": {
		Category: CategoryCLI,
		Message:  "Not a Hashira project",
		Detail:   "The current directory is not a Hashira project. Run this command from a directory with hashira.json.",
		DocURL:   "https://hashira.dev/docs/errors/H280",
	},
	"H281": {
		Category: CategoryCLI,
		Message:  "Go not found",
		Detail:   "Go is not installed or not in PATH.",
		DocURL:   "https://hashira.dev/docs/errors/H281",
	},
	"H282": {
		Category: CategoryCLI,
		Message:  "Deploy failed",
		Detail:   "Uploading the build output to the configured bucket failed.",
		DocURL:   "https://hashira.dev/docs/errors/H282",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
