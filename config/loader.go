package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/reducekit/logger"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config.yml and .env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts, or the first existing
// candidate in searchDirs. Env files named .env.<service> win over .env.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	dirs := searchDirs(serviceName)
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.first(dirs, "config.yml")
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.first(dirs, ".env."+serviceName, ".env")
	}
	return resolved
}

func (cr *Resolver) first(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			if p := dir + "/" + name; cr.FileSystem.Exists(p) {
				return p
			}
		}
	}
	return ""
}

// searchDirs lists where a service keeps its files: its cmd directory
// (under the full name and the part after the last dash), a shared config
// directory and the working directory, each tried from up to two levels below
// the module root.
func searchDirs(serviceName string) []string {
	shortName := serviceName
	if idx := strings.LastIndex(serviceName, "-"); idx != -1 {
		shortName = serviceName[idx+1:]
	}
	var dirs []string
	for _, root := range []string{".", "..", "../.."} {
		dirs = append(dirs, root+"/cmd/"+serviceName)
		if shortName != serviceName {
			dirs = append(dirs, root+"/cmd/"+shortName)
		}
	}
	return append(dirs, "./config", "../config", ".")
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load loads configuration for a service into the provided cfg struct.
// It searches for config.yml and .env files in standard locations, binds
// environment variables, and unmarshals the result into cfg. Values already
// set in cfg survive when neither source provides them.
func Load(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc.FileSystem)
}

// loadFromResolvedFiles reads the YAML file, binds one environment variable
// per key of cfg, loads the .env file and unmarshals. Environment values win
// over the file; a .env value never replaces a variable already set.
func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, fs FileSystem) error {
	log := logger.Get(logger.ComponentConfig)
	v := viper.New()

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("failed to load config file", map[string]interface{}{
				"file":            files.ConfigFile,
				logger.FieldError: err.Error(),
			})
		}
	}

	for _, key := range configKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load .env file", map[string]interface{}{
				"file":            files.EnvFile,
				logger.FieldError: err.Error(),
			})
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// configKeys lists the dotted viper keys of the mapstructure-tagged fields
// of t, descending into nested sections: redis.addr, kafka.batch_size.
func configKeys(t reflect.Type, prefix string) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		key := prefix
		if opts != "squash" {
			if name == "" {
				name = strings.ToLower(f.Name)
			}
			if key != "" {
				key += "."
			}
			key += name
		}
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, configKeys(f.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// envName maps a viper key to its environment variable: kafka.batch_size
// is KAFKA_BATCH_SIZE.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
