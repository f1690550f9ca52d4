package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/babarot/kuzukago/internal/env"
	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/indent"
	"gopkg.in/yaml.v2"
)

var validate *validator.Validate

type Config struct {
	Core    Core          `yaml:"core"`
	History History       `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

type Core struct {
	TrashDir   string  `yaml:"trash_dir" validate:"omitempty,validDirPath"`
	Collision  string  `yaml:"collision" validate:"required,oneof=reject rename"`
	BufferSize string  `yaml:"buffer_size" validate:"omitempty,validSize"`
	Restore    Restore `yaml:"restore"`
}

type Restore struct {
	Verbose bool `yaml:"verbose"`
}

type History struct {
	Include IncludeConfig `yaml:"include"`
	Exclude ExcludeConfig `yaml:"exclude"`
}

type IncludeConfig struct {
	Period int `yaml:"within_days" validate:"gte=0"`
}

type ExcludeConfig struct {
	Files    []string   `yaml:"files"`
	Patterns []string   `yaml:"patterns"`
	Globs    []string   `yaml:"globs"`
	Size     SizeConfig `yaml:"size"`
}

type SizeConfig struct {
	Min string `yaml:"min" validate:"omitempty,validSize"`
	Max string `yaml:"max" validate:"omitempty,validSize"`
}

type LoggingConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Level    string   `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Rotation Rotation `yaml:"rotation"`
}

type Rotation struct {
	MaxSize  string `yaml:"max_size" validate:"omitempty,validSize"`
	MaxFiles int    `yaml:"max_files" validate:"gte=0"`
}

// TrashDirPath returns the absolute trash root, expanding "~" and
// environment variables. Empty means the default location.
func (c Core) TrashDirPath() (string, error) {
	if c.TrashDir == "" {
		return env.KUZUKAGO_TRASH_DIR, nil
	}
	return expandPath(c.TrashDir)
}

// BufferBytes returns the copy buffer size in bytes
func (c Core) BufferBytes() (int, error) {
	if c.BufferSize == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(c.BufferSize)
	if err != nil {
		return 0, fmt.Errorf("invalid buffer size %q: %w", c.BufferSize, err)
	}
	return int(n), nil
}

type configError struct {
	configPath string
	parser     parser
	err        error
}

type parser struct{}

func (p parser) getDefaultConfig() Config {
	return Config{
		Core: Core{
			TrashDir:   "",
			Collision:  "rename",
			BufferSize: "32KB",
			Restore: Restore{
				Verbose: true,
			},
		},
		History: History{
			Include: IncludeConfig{
				Period: 0,
			},
			Exclude: ExcludeConfig{
				Files: []string{
					// In macOS, .DS_Store is a file that stores custom attributes of its
					// containing folder
					".DS_Store",
				},
				Patterns: []string{},
				Globs:    []string{},
				Size:     SizeConfig{},
			},
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Rotation: Rotation{
				MaxSize:  "10MB",
				MaxFiles: 3,
			},
		},
	}
}

func (p parser) getDefaultConfigContents() string {
	content, _ := yaml.Marshal(p.getDefaultConfig())
	return string(content)
}

func (e configError) Error() string {
	return heredoc.Docf(`
		Couldn't read the "%s" config file.
		Please try again after creating it or specifying a valid config path.
		The recommended config path is %s (default).
		Example YAML file contents:
		---
		%s
		---
		Original error:
		%s
		`,
		e.configPath,
		env.KUZUKAGO_CONFIG_PATH,
		e.parser.getDefaultConfigContents(),
		indent.String(e.err.Error(), 2),
	)
}

func (p parser) createConfigFile(path string) error {
	if err := p.ensureDirExists(filepath.Dir(path)); err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("creating config file as it does not exist", "config-file", path)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := f.WriteString(p.getDefaultConfigContents()); err != nil {
			return err
		}
	}

	return nil
}

func (p parser) ensureDirExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		slog.Warn("creating directory as it does not exist", "dir", dirPath)
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (p parser) ensureConfigFile() (string, error) {
	path := env.KUZUKAGO_CONFIG_PATH
	if err := p.createConfigFile(path); err != nil {
		return "", configError{
			configPath: path,
			parser:     p,
			err:        err,
		}
	}
	return path, nil
}

type parsingError struct {
	err error
}

func (e parsingError) Error() string {
	return fmt.Sprintf("failed to parse config: %v", e.err)
}

func (e parsingError) Unwrap() error {
	return e.err
}

func (p parser) readConfigFile(path string) (Config, error) {
	cfg := p.getDefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError{
			configPath: path,
			parser:     p,
			err:        err,
		}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return cfg, fmt.Errorf("validation error: field %s, %q is invalid", verrs[0].Namespace(), verrs[0].Value())
		}
		return cfg, err
	}
	return cfg, nil
}

func initParser() parser {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("validSize", validateSize)
	_ = validate.RegisterValidation("validDirPath", validateDirPath)

	return parser{}
}

// Default returns the built-in configuration
func Default() Config {
	return parser{}.getDefaultConfig()
}

// Parse reads the config at path. An empty path means the default location,
// which is created with default contents if missing.
func Parse(path string) (Config, error) {
	parser := initParser()

	var (
		configPath string
		err        error
	)

	if path == "" {
		configPath, err = parser.ensureConfigFile()
		if err != nil {
			return parser.getDefaultConfig(), parsingError{err: err}
		}
	} else {
		configPath = path
	}
	slog.Debug("config file found", "config-file", configPath)

	cfg, err := parser.readConfigFile(configPath)
	if err != nil {
		return cfg, parsingError{err: err}
	}

	return cfg, nil
}
