package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/thatsimonsguy/hvac-idf/internal/energyplus"
)

type Config struct {
	ConfigFile string        `json:"-" yaml:"-"`
	LogLevel   zerolog.Level `json:"-" yaml:"-"`

	InputFile  string `json:"input_file" yaml:"input_file" validate:"required"`
	OutputFile string `json:"output_file" yaml:"output_file" validate:"required"`
	ReportDB   string `json:"report_db" yaml:"report_db"`
	LogFile    string `json:"log_file" yaml:"log_file"`

	// ServePort keeps the process alive serving the inspector API after the
	// translation run. Zero disables the server.
	ServePort int `json:"serve_port" yaml:"serve_port" validate:"gte=0,lte=65535"`

	Translator energyplus.Options `json:"translator" yaml:"translator"`

	EnableDatadog bool     `json:"enable_datadog" yaml:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr" yaml:"dd_agent_addr" validate:"required_if=EnableDatadog true"`
	DDNamespace   string   `json:"dd_namespace" yaml:"dd_namespace"`
	DDTags        []string `json:"dd_tags" yaml:"dd_tags"`
}

func Default() Config {
	return Config{
		LogLevel:    zerolog.InfoLevel,
		OutputFile:  "out.idf",
		ReportDB:    "data/idf-translate.db",
		Translator:  energyplus.DefaultOptions(),
		DDNamespace: "idf_translate.",
	}
}

func Load() Config {
	cfg := Default()
	var (
		logLevel string
		input    string
		output   string
		reportDB string
		logFile  string
		port     int
	)

	flag.StringVar(&cfg.ConfigFile, "config-file", "", "Path to translator config file (.json, .yaml or .yml)")
	flag.StringVar(&input, "input", "", "IDF file to translate")
	flag.StringVar(&output, "output", "", "Where to write the translated IDF file")
	flag.StringVar(&reportDB, "report-db", "", "Path to the translation report database")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr")
	flag.IntVar(&port, "serve-port", -1, "Serve the inspector API on this port after translating")
	flag.Parse()

	cfg.LogLevel = parseLogLevel(logLevel)

	if cfg.ConfigFile != "" {
		cfg.decodeFile(cfg.ConfigFile)
	}

	// flags win over the file
	if input != "" {
		cfg.InputFile = input
	}
	if output != "" {
		cfg.OutputFile = output
	}
	if reportDB != "" {
		cfg.ReportDB = reportDB
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if port >= 0 {
		cfg.ServePort = port
	}

	cfg.validate()
	return cfg
}

// FromFile loads a config file on top of the defaults, without reading flags.
func FromFile(path string) Config {
	cfg := Default()
	cfg.ConfigFile = path
	cfg.decodeFile(path)
	cfg.validate()
	return cfg
}

func (cfg *Config) decodeFile(path string) {
	file, err := os.Open(path)
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(file).Decode(cfg)
	default:
		err = json.NewDecoder(file).Decode(cfg)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		panic("Failed to parse config file: " + err.Error())
	}
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (cfg *Config) validate() {
	err := validate.Struct(cfg)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		panic("Invalid config: " + err.Error())
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag()))
		}
	}
	panic("Invalid config: " + strings.Join(problems, ", "))
}
