// Package config loads the node client configuration from defaults, an
// optional config file, RGB_* environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
	"github.com/ArkLabsHQ/rgbnode/pkg/stash"
	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Environment variables use the RGB_ prefix with dashes
// turned into underscores, e.g. RGB_STASH_ENDPOINT.
const (
	ConfigFile       = "config"
	Datadir          = "datadir"
	StashEndpoint    = "stash-endpoint"
	FungibleEndpoint = "fungible-endpoint"
	StashBackend     = "stash-backend"
	Network          = "network"
	LogLevel         = "log-level"
)

const (
	envPrefix = "RGB"

	defaultDatadir          = "~/.rgb"
	defaultStashEndpoint    = "ws://127.0.0.1:63965"
	defaultFungibleEndpoint = "ws://127.0.0.1:63966"
	defaultStashBackend     = string(stash.BackendDisk)
	defaultNetwork          = "testnet"
	defaultLogLevel         = "info"
)

var networks = map[string]*chaincfg.Params{
	"mainnet":  &chaincfg.MainNetParams,
	"bitcoin":  &chaincfg.MainNetParams,
	"testnet":  &chaincfg.TestNet3Params,
	"testnet3": &chaincfg.TestNet3Params,
	"signet":   &chaincfg.SigNetParams,
	"regtest":  &chaincfg.RegressionNetParams,
}

// Config is the validated client configuration.
type Config struct {
	Datadir          string
	StashEndpoint    string
	FungibleEndpoint string
	StashBackend     stash.Backend
	NetworkName      string
	LogLevel         log.Level

	// Network is resolved from NetworkName by Validate.
	Network *chaincfg.Params
}

// RegisterFlags adds the configuration flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP(ConfigFile, "c", "", "config file (yaml or toml)")
	flags.StringP(Datadir, "d", defaultDatadir, "data directory")
	flags.String(StashEndpoint, defaultStashEndpoint, "stash service endpoint")
	flags.String(FungibleEndpoint, defaultFungibleEndpoint, "fungible service endpoint")
	flags.String(StashBackend, defaultStashBackend, "stash storage: disk, badger or memory")
	flags.StringP(Network, "n", defaultNetwork, "bitcoin network")
	flags.String(LogLevel, defaultLogLevel, "log level")
}

// LoadConfig reads the configuration. flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(Datadir, defaultDatadir)
	v.SetDefault(StashEndpoint, defaultStashEndpoint)
	v.SetDefault(FungibleEndpoint, defaultFungibleEndpoint)
	v.SetDefault(StashBackend, defaultStashBackend)
	v.SetDefault(Network, defaultNetwork)
	v.SetDefault(LogLevel, defaultLogLevel)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, rgb.WrapError(rgb.ErrParse, err, "bind flags")
		}
	}

	datadir, err := expandHome(v.GetString(Datadir))
	if err != nil {
		return nil, err
	}

	if file := v.GetString(ConfigFile); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(datadir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, rgb.WrapError(rgb.ErrParse, err, "read config file")
		}
	} else {
		log.Debugf("loaded config file %s", v.ConfigFileUsed())
	}

	// The config file may relocate the data directory.
	if datadir, err = expandHome(v.GetString(Datadir)); err != nil {
		return nil, err
	}

	cfg := &Config{
		Datadir:          datadir,
		StashEndpoint:    v.GetString(StashEndpoint),
		FungibleEndpoint: v.GetString(FungibleEndpoint),
		StashBackend:     stash.Backend(v.GetString(StashBackend)),
		NetworkName:      strings.ToLower(v.GetString(Network)),
	}

	level, err := log.ParseLevel(v.GetString(LogLevel))
	if err != nil {
		return nil, rgb.WrapError(rgb.ErrParse, err, "invalid "+LogLevel)
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and resolves the network parameters.
func (c *Config) Validate() error {
	if c.Datadir == "" {
		return rgb.Errorf(rgb.ErrParse, "missing %s", Datadir)
	}

	for key, endpoint := range map[string]string{
		StashEndpoint:    c.StashEndpoint,
		FungibleEndpoint: c.FungibleEndpoint,
	} {
		if endpoint == "" {
			return rgb.Errorf(rgb.ErrParse, "missing %s", key)
		}
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return rgb.Errorf(rgb.ErrParse, "invalid %s %q", key, endpoint)
		}
	}

	switch c.StashBackend {
	case stash.BackendDisk, stash.BackendBadger, stash.BackendMemory:
	default:
		return rgb.Errorf(rgb.ErrParse, "invalid %s %q", StashBackend, c.StashBackend)
	}

	params, ok := networks[c.NetworkName]
	if !ok {
		return rgb.Errorf(rgb.ErrParse, "unknown %s %q", Network, c.NetworkName)
	}
	c.Network = params
	return nil
}

// StashDir is the directory holding the local stash.
func (c *Config) StashDir() string {
	return filepath.Join(c.Datadir, c.Network.Name)
}

// OpenStash opens the local stash configured by c.
func (c *Config) OpenStash() (stash.ClosableStore, error) {
	return stash.Open(c.StashBackend, c.StashDir())
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", rgb.WrapError(rgb.ErrIO, err, "resolve home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
