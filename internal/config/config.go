package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sushant12/vdisk/internal/firecracker"
	"github.com/sushant12/vdisk/pkg/manifest"
	"github.com/sushant12/vdisk/pkg/script"
)

const (
	EnvPrefix  = "VDISK"
	DotEnvFile = ".env"

	KeyConfig            = "config"
	KeyLibPath           = "lib-path"
	KeyScript            = "script"
	KeyManifest          = "manifest"
	KeyFirecrackerConfig = "firecracker-config"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
	KeyListen            = "listen"

	KeyFcKernelImage = "firecracker.kernel-image"
	KeyFcBootArgs    = "firecracker.boot-args"
	KeyFcImageDir    = "firecracker.image-dir"
	KeyFcRootDrive   = "firecracker.root-drive"
	KeyFcCPUCount    = "firecracker.vcpu-count"
	KeyFcMemSize     = "firecracker.mem-size-mib"
	KeyFcSmt         = "firecracker.smt"

	LogFormatText = "text"
	LogFormatJSON = "json"

	DefaultLogLevel = "warn"
	DefaultListen   = ":8080"
)

type FirecrackerConfig struct {
	KernelImage string `mapstructure:"kernel-image"`
	BootArgs    string `mapstructure:"boot-args"`
	ImageDir    string `mapstructure:"image-dir"`
	RootDrive   string `mapstructure:"root-drive"`
	CPUCount    int64  `mapstructure:"vcpu-count"`
	MemSizeMib  int64  `mapstructure:"mem-size-mib"`
	Smt         bool   `mapstructure:"smt"`
}

// Options turns the section into firecracker config options.
func (c FirecrackerConfig) Options() []firecracker.Option {
	return []firecracker.Option{
		firecracker.WithKernelImage(c.KernelImage),
		firecracker.WithKernelCmdLine(c.BootArgs),
		firecracker.WithImageDir(c.ImageDir),
		firecracker.WithRootDrive(c.RootDrive),
		firecracker.WithCPUCount(c.CPUCount),
		firecracker.WithMemSize(c.MemSizeMib),
		firecracker.WithSmt(c.Smt),
	}
}

type Config struct {
	LibPath           string            `mapstructure:"lib-path"`
	ScriptPath        string            `mapstructure:"script"`
	ManifestPath      string            `mapstructure:"manifest"`
	FirecrackerConfig string            `mapstructure:"firecracker-config"`
	LogLevel          string            `mapstructure:"log-level"`
	LogFormat         string            `mapstructure:"log-format"`
	Listen            string            `mapstructure:"listen"`
	Firecracker       FirecrackerConfig `mapstructure:"firecracker"`
}

// AddFlags registers the persistent flags shared by every command and binds
// them to v.
func AddFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String(KeyConfig, "", "Path to config file (YAML)")
	flags.String(KeyLibPath, "", "Absolute path to SCRIPTS/lib.sh to source for logging")
	flags.String(KeyScript, script.DefaultPath, "Output path of the generated script")
	flags.String(KeyManifest, manifest.DefaultPath, "Output path of the drive directory mapping")
	flags.String(KeyFirecrackerConfig, "", "Also write a firecracker VM config file to this path")
	flags.String(KeyLogLevel, DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String(KeyLogFormat, LogFormatText, "Log format (text, json)")

	for _, key := range []string{KeyConfig, KeyLibPath, KeyScript, KeyManifest, KeyFirecrackerConfig, KeyLogLevel, KeyLogFormat} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so every key needs a
	// default for env-only values to be picked up.
	v.SetDefault(KeyLibPath, "")
	v.SetDefault(KeyScript, script.DefaultPath)
	v.SetDefault(KeyManifest, manifest.DefaultPath)
	v.SetDefault(KeyFirecrackerConfig, "")
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, LogFormatText)
	v.SetDefault(KeyListen, DefaultListen)
	v.SetDefault(KeyFcKernelImage, firecracker.DefaultKernelImage)
	v.SetDefault(KeyFcBootArgs, firecracker.DefaultKernelCmdLine)
	v.SetDefault(KeyFcImageDir, "")
	v.SetDefault(KeyFcRootDrive, "")
	v.SetDefault(KeyFcCPUCount, firecracker.DefaultCPUCount)
	v.SetDefault(KeyFcMemSize, firecracker.DefaultMemSz)
	v.SetDefault(KeyFcSmt, false)

	return v
}

// LoadDotEnv loads .env from the working directory of fs when it exists.
// Variables already present in the environment win.
func LoadDotEnv(fs afero.Fs) error {
	f, err := fs.Open(DotEnvFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "cannot open %s", DotEnvFile)
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return errors.Wrapf(err, "cannot load %s", DotEnvFile)
	}

	for key, value := range env {
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return errors.Wrapf(err, "cannot set %s", key)
		}
	}

	return nil
}

// Load reads the optional config file and merges it with flags and env.
func Load(v *viper.Viper) (*Config, error) {
	if cfgFile := v.GetString(KeyConfig); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", cfgFile)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	if cfg.ScriptPath == "" || cfg.ManifestPath == "" {
		return nil, errors.New("output paths must not be empty")
	}

	return cfg, nil
}

// NewLogger builds the logrus logger described by the config.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)

	switch c.LogFormat {
	case LogFormatJSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	case LogFormatText, "":
		log.SetFormatter(&logrus.TextFormatter{})
	default:
		return nil, errors.Errorf("unknown log format %q", c.LogFormat)
	}

	return log, nil
}
