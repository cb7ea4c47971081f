package ygggo_mongo

import (
	"maps"
	"strings"
)

// Options holds driver-specific client options. They are opaque to the registry
// and rendered into the connection string query by the version adapters.
type Options map[string]any

// Clone returns a shallow copy of o; nil stays nil.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	return maps.Clone(o)
}

// Configuration names one connection: alias, connection string and client options.
type Configuration struct {
	alias   string
	uri     string
	options Options
}

// Alias returns the registry key of this configuration.
func (c *Configuration) Alias() string { return c.alias }

// URI returns the connection string.
func (c *Configuration) URI() string { return c.uri }

// Options returns a copy of the client options.
func (c *Configuration) Options() Options { return c.options.Clone() }

// ConfigurationBuilder assembles a Configuration.
type ConfigurationBuilder struct {
	alias   string
	uri     string
	options Options
}

// NewConfigurationBuilder creates an empty builder with no options.
func NewConfigurationBuilder() *ConfigurationBuilder {
	return &ConfigurationBuilder{options: Options{}}
}

// SetURI sets a hand-built connection string.
func (b *ConfigurationBuilder) SetURI(uri string) *ConfigurationBuilder {
	b.uri = uri
	return b
}

// FromEndpoint uses the connection string rendered by ep.
func (b *ConfigurationBuilder) FromEndpoint(ep *Endpoint) *ConfigurationBuilder {
	if ep != nil {
		b.uri = ep.URI()
	}
	return b
}

// SetAlias sets the alias.
func (b *ConfigurationBuilder) SetAlias(alias string) *ConfigurationBuilder {
	b.alias = alias
	return b
}

// WithOptions replaces the client options.
func (b *ConfigurationBuilder) WithOptions(options Options) *ConfigurationBuilder {
	b.options = options.Clone()
	return b
}

// Build returns the Configuration, or a validation error when the connection
// string or alias is empty.
func (b *ConfigurationBuilder) Build() (*Configuration, error) {
	if strings.TrimSpace(b.uri) == "" {
		return nil, validationErrorf("Build", "uri required to build mongodb configuration")
	}
	if strings.TrimSpace(b.alias) == "" {
		return nil, validationErrorf("Build", "alias required to build mongodb configuration")
	}
	opts := b.options.Clone()
	if opts == nil {
		opts = Options{}
	}
	return &Configuration{alias: b.alias, uri: b.uri, options: opts}, nil
}
