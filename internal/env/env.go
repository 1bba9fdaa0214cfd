// Package env defines the environment variables the CLI uses to hand
// runtime settings to the application process, and the typed view the
// application reads them back through.
package env

import (
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Variable names injected into the application process by the dev and
// run commands.
const (
	Host           = "HASHIRA_HOST"
	Port           = "HASHIRA_PORT"
	StaticDir      = "HASHIRA_STATIC_DIR"
	LiveReload     = "HASHIRA_LIVE_RELOAD"
	LiveReloadHost = "HASHIRA_LIVE_RELOAD_HOST"
	LiveReloadPort = "HASHIRA_LIVE_RELOAD_PORT"
	AppLib         = "HASHIRA_APP_LIB"
)

// ServerEnv is the typed view of the variables an application process
// receives from the CLI.
type ServerEnv struct {
	Host           string `env:"HASHIRA_HOST" envDefault:"127.0.0.1"`
	Port           int    `env:"HASHIRA_PORT" envDefault:"5000"`
	StaticDir      string `env:"HASHIRA_STATIC_DIR" envDefault:"public"`
	LiveReload     bool   `env:"HASHIRA_LIVE_RELOAD"`
	LiveReloadHost string `env:"HASHIRA_LIVE_RELOAD_HOST"`
	LiveReloadPort int    `env:"HASHIRA_LIVE_RELOAD_PORT"`
	AppLib         string `env:"HASHIRA_APP_LIB"`
}

// Parse reads the server environment from the process environment.
func Parse() (ServerEnv, error) {
	var se ServerEnv
	err := env.Parse(&se)
	return se, err
}

// Address returns the host:port the application should bind to.
func (se ServerEnv) Address() string {
	return se.Host + ":" + strconv.Itoa(se.Port)
}

// Vars builds the variable assignments the CLI injects into a spawned
// application process. Returned as KEY=VALUE pairs ready to append to
// exec.Cmd Env.
func Vars(host string, port int, staticDir string, liveReload bool, reloadHost string, reloadPort int, appLib string) []string {
	vars := []string{
		Host + "=" + host,
		Port + "=" + strconv.Itoa(port),
		StaticDir + "=" + staticDir,
	}
	if liveReload {
		vars = append(vars,
			LiveReload+"=1",
			LiveReloadHost+"="+reloadHost,
			LiveReloadPort+"="+strconv.Itoa(reloadPort),
		)
	}
	if appLib != "" {
		vars = append(vars, AppLib+"="+appLib)
	}
	return vars
}

// LoadDotEnv loads a .env file from dir if one exists. Variables already
// set in the environment win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := dir + string(os.PathSeparator) + ".env"
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
