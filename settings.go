package ygggo_mongo

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by LoadSettings,
// e.g. YGGGO_MONGO_HOST.
const EnvPrefix = "YGGGO_MONGO"

// Settings are the bootstrap inputs for one aliased connection. The registry
// never reads them itself; the composition root turns them into an Endpoint
// and a Configuration.
type Settings struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	Alias         string `mapstructure:"alias"`
	DriverVersion int    `mapstructure:"driver_version"`
	// URI, when set, is used as-is instead of host/port/credentials.
	URI string `mapstructure:"uri"`
	// Options are client options in query form, e.g. "appName=x&maxPoolSize=10".
	Options string `mapstructure:"options"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Host:          "127.0.0.1",
		Port:          "27017",
		Database:      "test",
		Alias:         "default",
		DriverVersion: int(DriverV2),
	}
}

// LoadSettings reads settings from the environment and, when path is not
// empty, from a YAML, JSON or TOML file. Environment variables win.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	def := DefaultSettings()
	v.SetDefault("host", def.Host)
	v.SetDefault("port", def.Port)
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("database", def.Database)
	v.SetDefault("alias", def.Alias)
	v.SetDefault("driver_version", def.DriverVersion)
	v.SetDefault("uri", "")
	v.SetDefault("options", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Endpoint builds the endpoint described by the host, port and credentials.
func (s Settings) Endpoint() (*Endpoint, error) {
	b := NewEndpointBuilder().SetHost(s.Host).SetPortString(s.Port)
	if s.Username != "" || s.Password != "" {
		b.WithCredentials(s.Username, s.Password)
	}
	return b.Build()
}

// Configuration builds the configuration for s.Alias, from URI when set and
// from Endpoint otherwise.
func (s Settings) Configuration() (*Configuration, error) {
	opts, err := parseOptions(s.Options)
	if err != nil {
		return nil, err
	}
	b := NewConfigurationBuilder().SetAlias(s.Alias).WithOptions(opts)
	if s.URI != "" {
		b.SetURI(s.URI)
	} else {
		ep, err := s.Endpoint()
		if err != nil {
			return nil, err
		}
		b.FromEndpoint(ep)
	}
	return b.Build()
}

func parseOptions(raw string) (Options, error) {
	opts := Options{}
	if strings.TrimSpace(raw) == "" {
		return opts, nil
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, validationErrorf("Settings", "invalid options %q: %v", raw, err)
	}
	for k, vs := range values {
		if len(vs) > 0 {
			opts[k] = vs[len(vs)-1]
		}
	}
	return opts, nil
}
