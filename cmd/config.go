package cmd

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/honganh1206/guideme/api"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const requestTimeout = 30 * time.Second

// config is the state shared by every command of one CLI instance.
type config struct {
	v       *viper.Viper
	cfgFile string
	envPath string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
}

func newConfig() *config {
	v := viper.New()
	v.SetEnvPrefix("GUIDEME")
	v.AutomaticEnv()

	return &config{
		v:      v,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// load reads the .env file and the config file. Both are optional.
func (c *config) load() {
	logger := c.logger()

	if err := godotenv.Load(c.envPath); err != nil {
		logger.Debug().Err(err).Str("path", c.envPath).Msg("no .env file loaded")
	}

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to find home directory")
			return
		}
		c.v.AddConfigPath(home)
		c.v.SetConfigType("yaml")
		c.v.SetConfigName(".guideme")
	}

	if err := c.v.ReadInConfig(); err == nil {
		logger.Debug().Str("path", c.v.ConfigFileUsed()).Msg("using config file")
	}
}

func (c *config) logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if c.verbose || c.v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: c.stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func (c *config) host() string {
	if host := c.v.GetString("host"); host != "" {
		return host
	}
	return api.CurrentHost()
}

func (c *config) apiClient() *api.Client {
	opts := []api.Option{
		api.WithLogger(c.logger()),
		api.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
	}
	if baseURL := c.v.GetString("base_url"); baseURL != "" {
		opts = append(opts, api.WithBaseURL(baseURL))
	}

	return api.NewClient(c.host(), opts...)
}

func (c *config) dataDir() string {
	if dir := c.v.GetString("data_dir"); dir != "" {
		if expanded, err := homedir.Expand(dir); err == nil {
			return expanded
		}
		return dir
	}

	home, err := homedir.Dir()
	if err != nil {
		return ".guideme"
	}
	return filepath.Join(home, ".guideme")
}
