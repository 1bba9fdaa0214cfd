package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hashira-dev/hashira/internal/config"
	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

func newCmd() *cobra.Command {
	var skipTidy bool

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new Hashira project",
		Long: `Create a new Hashira project with the specified name.

The generated project contains hashira.json, a server entry
point, and a public/ directory with a starter page.

Examples:
  hashira new my-app
  hashira new my-app --skip-tidy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(args[0], skipTidy)
		},
	}

	cmd.Flags().BoolVar(&skipTidy, "skip-tidy", false, "Do not run 'go mod tidy' after scaffolding")

	return cmd
}

func runNew(name string, skipTidy bool) error {
	printBanner()
	fmt.Println("  Creating a new Hashira project...")
	fmt.Println()

	if !isValidProjectName(name) {
		return hashiraerrors.Newf(hashiraerrors.CategoryCLI, "invalid project name %q", name).
			WithSuggestion("Use lowercase letters, numbers, and hyphens")
	}

	projectDir, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(projectDir); !os.IsNotExist(err) {
		return hashiraerrors.Newf(hashiraerrors.CategoryCLI, "directory %q already exists", name).
			WithSuggestion("Choose a different name or remove the existing directory")
	}

	info("Creating project directory...")
	if err := scaffold(projectDir, name); err != nil {
		os.RemoveAll(projectDir)
		return err
	}

	if !skipTidy {
		info("Installing dependencies...")
		tidy := exec.Command("go", "mod", "tidy")
		tidy.Dir = projectDir
		if err := tidy.Run(); err != nil {
			warn("Could not run 'go mod tidy': %v", err)
		}
	}

	fmt.Println()
	success("Created %s/", name)
	fmt.Println()
	fmt.Println("  To get started:")
	fmt.Println()
	fmt.Printf("    cd %s\n", name)
	fmt.Println("    hashira dev")
	fmt.Println()
	fmt.Printf("  Your app will be running at http://%s:%d\n",
		config.DefaultHost, config.DefaultPort)
	fmt.Println()

	return nil
}

func scaffold(dir, name string) error {
	for _, sub := range []string{"public"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return err
		}
	}

	cfg := config.New()
	cfg.Name = name
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}

	files := map[string]string{
		"go.mod":            fmt.Sprintf(goModTemplate, name),
		"main.go":           fmt.Sprintf(mainTemplate, name),
		"public/index.html": fmt.Sprintf(indexTemplate, name),
		".gitignore":        gitignoreTemplate,
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(dir, rel), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func isValidProjectName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == ' ' || r == '/' || r == '\\' {
			return false
		}
		if i == 0 && r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}

const goModTemplate = `module %s

go 1.23

require github.com/hashira-dev/hashira v0.1.0
`

const mainTemplate = `package main

import (
	"log"
	"net/http"
	"os"

	"github.com/hashira-dev/hashira"
	"github.com/hashira-dev/hashira/adapters/nethttp"
)

func main() {
	app := hashira.NewApp()

	app.Get("/", func(ctx *hashira.RequestContext) (*hashira.Response, error) {
		return hashira.HTML("<h1>Welcome to %s</h1>"), nil
	})

	app.Get("/api/hello/:name", func(ctx *hashira.RequestContext) (*hashira.Response, error) {
		return hashira.JSON(map[string]string{"hello": ctx.Param("name")}), nil
	})

	svc, err := app.Build()
	if err != nil {
		log.Fatal(err)
	}

	mux := http.NewServeMux()
	staticDir := os.Getenv("HASHIRA_STATIC_DIR")
	if staticDir == "" {
		staticDir = "public"
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	mux.Handle("/", nethttp.NewHandler(svc))

	host := os.Getenv("HASHIRA_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("HASHIRA_PORT")
	if port == "" {
		port = "5000"
	}

	addr := host + ":" + port
	log.Printf("listening on http://%%s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
`

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%s</title>
</head>
<body>
  <h1>It works</h1>
</body>
</html>
`

const gitignoreTemplate = `dist/
.hashira/
.env
`
