package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const defaultAppEnv = "dev"

// Result reports which dotenv files were applied.
type Result struct {
	AppEnv string
	Files  []string
}

// Load reads <dir>/.env and then <dir>/.env.<APP_ENV> on top of it.
// Variables already set in the process win over .env; the per-environment
// file overrides both. Missing files are skipped.
func Load(dir string) (Result, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = defaultAppEnv
	}
	res := Result{AppEnv: appEnv}

	base := filepath.Join(dir, ".env")
	if exists(base) {
		if err := godotenv.Load(base); err != nil {
			return res, fmt.Errorf("load %s: %w", base, err)
		}
		res.Files = append(res.Files, base)
	}

	envFile := filepath.Join(dir, fmt.Sprintf(".env.%s", appEnv))
	if exists(envFile) {
		if err := godotenv.Overload(envFile); err != nil {
			return res, fmt.Errorf("load %s: %w", envFile, err)
		}
		res.Files = append(res.Files, envFile)
	}

	return res, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
