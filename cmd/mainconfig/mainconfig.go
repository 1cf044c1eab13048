package mainconfig

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	appconfig "github.com/wolfman30/parley/internal/config"
	"github.com/wolfman30/parley/pkg/logging"
)

// Setup loads an optional .env file, reads configuration and builds the
// logger every binary shares. A non-empty format overrides LOG_FORMAT.
func Setup(format string, out io.Writer) (*appconfig.Config, *logging.Logger) {
	envErr := LoadDotEnv(".env")

	cfg := appconfig.Load()
	if format != "" {
		cfg.LogFormat = format
	}
	if out == nil {
		out = os.Stdout
	}
	logger := logging.New(cfg.LogLevel, logging.WithFormat(cfg.LogFormat), logging.WithOutput(out))
	if envErr != nil {
		logger.Warn("failed to read .env file", "error", envErr)
	}
	return cfg, logger
}

// LoadDotEnv applies variables from the named files without overriding ones
// already set. Missing files are not an error.
func LoadDotEnv(filenames ...string) error {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
