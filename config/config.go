// Package config holds the settings of a javafront process. A Config is
// loaded once at startup and passed down to the components that need it;
// nothing reads settings from globals.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".javafront.yaml"

const envPrefix = "JAVAFRONT_"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// ExpandTabs makes reported columns account for tab stops.
	ExpandTabs bool `yaml:"expand_tabs"`
	// Checks enables internal invariant checks in line maps and tree scans.
	Checks bool `yaml:"checks"`
	// Workers bounds how many files are processed at once. 0 means one per CPU.
	Workers  int    `yaml:"workers"`
	Color    *bool  `yaml:"color"`
	LogLevel string `yaml:"log_level"`
	// StarImports lists the members of packages that on-demand imports can
	// bring into scope, keyed by package name.
	StarImports map[string][]string `yaml:"star_imports"`
}

var logLevels = map[string]int{
	"none":     -4,
	"critical": -3,
	"error":    -2,
	"warning":  -1,
	"notice":   0,
	"info":     1,
	"debug":    2,
}

func Default() *Config {
	return &Config{
		LogLevel:    "warning",
		StarImports: defaultStarImports(),
	}
}

// defaultStarImports covers the packages every unit imports implicitly
// and the ones most commonly imported on demand.
func defaultStarImports() map[string][]string {
	return map[string][]string{
		"java.lang": {
			"Object", "String", "StringBuilder", "System", "Math", "Integer", "Long",
			"Double", "Float", "Boolean", "Character", "Byte", "Short", "Number",
			"Iterable", "Runnable", "Thread", "Exception", "RuntimeException", "Error",
			"Throwable", "IllegalArgumentException", "IllegalStateException",
			"NullPointerException", "Override", "Deprecated", "SuppressWarnings",
			"FunctionalInterface", "Record", "Enum", "Class", "Comparable", "CharSequence",
			"AutoCloseable", "Void",
		},
		"java.util": {
			"List", "ArrayList", "LinkedList", "Map", "HashMap", "TreeMap", "LinkedHashMap",
			"Set", "HashSet", "TreeSet", "Collection", "Collections", "Arrays", "Iterator",
			"Optional", "Objects", "Deque", "ArrayDeque", "Queue", "Comparator",
		},
		"java.util.function": {
			"Function", "BiFunction", "Supplier", "Consumer", "BiConsumer", "Predicate",
			"UnaryOperator", "BinaryOperator",
		},
		"java.io": {
			"File", "IOException", "InputStream", "OutputStream", "Reader", "Writer",
			"PrintStream", "Serializable", "UncheckedIOException",
		},
	}
}

// Load reads the configuration from path, then applies environment
// overrides. A ".env" file in the working directory is loaded into the
// environment first. A missing config file yields the defaults.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.StarImports = nil
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.StarImports == nil {
		cfg.StarImports = defaultStarImports()
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	boolVar := func(name string, dst *bool) error {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s=%q: %w", envPrefix, name, v, ErrInvalidConfig)
		}
		*dst = b
		return nil
	}

	if err := boolVar("EXPAND_TABS", &c.ExpandTabs); err != nil {
		return err
	}
	if err := boolVar("CHECKS", &c.Checks); err != nil {
		return err
	}
	if v, ok := lookup(envPrefix + "COLOR"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCOLOR=%q: %w", envPrefix, v, ErrInvalidConfig)
		}
		c.Color = &b
	}
	if v, ok := lookup(envPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS=%q: %w", envPrefix, v, ErrInvalidConfig)
		}
		c.Workers = n
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d: %w", c.Workers, ErrInvalidConfig)
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("unknown log level %q: %w", c.LogLevel, ErrInvalidConfig)
	}
	return nil
}

// Verbosity maps LogLevel to a commonlog verbosity, raised by extra
// (the count of -v flags).
func (c *Config) Verbosity(extra int) int {
	return logLevels[strings.ToLower(c.LogLevel)] + extra
}

// WorkerCount resolves Workers to a positive number.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// UseColor reports whether output should be colored; unset means yes.
func (c *Config) UseColor() bool {
	return c.Color == nil || *c.Color
}

// Packages returns the names of the packages in StarImports, sorted.
func (c *Config) Packages() []string {
	names := make([]string, 0, len(c.StarImports))
	for name := range c.StarImports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
