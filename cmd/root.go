package cmd

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/ats-scorer/internal/resume/extract"
)

const (
	app = "ats-scorer"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server" validate:"required"`
	AI     *AIConfig     `mapstructure:"ai" validate:"required"`
}

type ServerConfig struct {
	Host              string   `mapstructure:"host"`
	Port              int      `mapstructure:"port" validate:"gte=1,lte=65535"`
	MaxFileSize       int64    `mapstructure:"max-file-size" validate:"gt=0"`
	AllowedExtensions []string `mapstructure:"allowed-extensions" validate:"min=1,dive,oneof=pdf docx"`
	UploadDir         string   `mapstructure:"upload-dir" validate:"required"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Gemini   *GeminiConfig `mapstructure:"gemini" validate:"required"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model" validate:"required"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

// Listen returns the address the HTTP server binds to.
func (c *ServerConfig) Listen() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Kinds converts the allowed extensions into document kinds.
func (c *ServerConfig) Kinds() ([]extract.Kind, error) {
	kinds := make([]extract.Kind, 0, len(c.AllowedExtensions))
	for _, ext := range c.AllowedExtensions {
		kind, err := extract.ParseKind(ext)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-scorer scores résumés for ATS compatibility and suggests improvements",
	}

	envBindings = map[string]string{
		"server.port":               "PORT",
		"server.max-file-size":      "MAX_FILE_SIZE",
		"server.allowed-extensions": "ALLOWED_EXTENSIONS",
		"server.upload-dir":         "UPLOAD_DIR",
		"ai.gemini.api-key-file":    "GEMINI_API_KEY_FILE",
		"ai.gemini.model":           "GEMINI_MODEL",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.max-file-size", 5<<20)
	v.SetDefault("server.allowed-extensions", []string{string(extract.KindPDF), string(extract.KindDOCX)})
	v.SetDefault("server.upload-dir", "uploads")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.gemini.model", "gemini-1.5-flash")
	v.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	// Only the pipeline commands need a config.
	if serveCmd.CalledAs() == "" && analyzeCmd.CalledAs() == "" {
		return
	}

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig loads the config file. Without an explicit path the file is
// optional and defaults plus environment are used.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if path == "" && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("reading config: %w", err)
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	if config.Server != nil {
		exts := config.Server.AllowedExtensions[:0]
		for _, ext := range config.Server.AllowedExtensions {
			ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
			if ext != "" {
				exts = append(exts, ext)
			}
		}
		config.Server.AllowedExtensions = exts
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return config, nil
}
