package ygggo_mongo

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// LoopbackHost is accepted by SetHost without further validation.
	LoopbackHost = "localhost"

	uriScheme = "mongodb://"
)

// Dots in both patterns are escaped on purpose so they match only '.'.
var (
	validIPv4Regex     = regexp.MustCompile(`^(([0-9]|[1-9][0-9]|1[0-9]{2}|2[0-4][0-9]|25[0-5])\.){3}([0-9]|[1-9][0-9]|1[0-9]{2}|2[0-4][0-9]|25[0-5])$`)
	validHostnameRegex = regexp.MustCompile(`^(([a-zA-Z0-9]|[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9])\.)*([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9-]*[A-Za-z0-9])$`)
)

// passwordReserved lists the characters that force percent-encoding of a password.
const passwordReserved = "$:/?#[]@"

// Endpoint is an immutable, validated MongoDB server address with optional credentials.
type Endpoint struct {
	host     string
	port     int
	username string
	password string // already encoded when it contained reserved characters
	hasCreds bool
	uri      string
}

// Host returns the validated host.
func (e *Endpoint) Host() string { return e.host }

// Port returns the validated port.
func (e *Endpoint) Port() int { return e.port }

// Username returns the username, or "" when no credentials were supplied.
func (e *Endpoint) Username() string { return e.username }

// HasCredentials reports whether the connection string carries credentials.
func (e *Endpoint) HasCredentials() bool { return e.hasCreds }

// URI returns the canonical connection string.
func (e *Endpoint) URI() string { return e.uri }

// String returns the connection string with the password masked.
func (e *Endpoint) String() string { return RedactURI(e.uri) }

// EndpointBuilder provides a fluent interface for building an Endpoint.
// The first failing setter is remembered; Err and Build report it.
type EndpointBuilder struct {
	host     string
	port     int
	portSet  bool
	username string
	password string
	hasCreds bool
	err      error
}

// NewEndpointBuilder creates an empty builder.
func NewEndpointBuilder() *EndpointBuilder {
	return &EndpointBuilder{}
}

// SetHost sets the server host. Accepted values are the loopback name or a dotted
// IPv4 address that also satisfies the hostname grammar.
func (b *EndpointBuilder) SetHost(host string) *EndpointBuilder {
	if host != LoopbackHost && (!validIPv4Regex.MatchString(host) || !validHostnameRegex.MatchString(host)) {
		b.fail(validationErrorf("SetHost", "host %q must be a valid ip address or hostname", host))
		return b
	}
	b.host = host
	return b
}

// SetPort sets the server port, which must be within [0, 65535].
func (b *EndpointBuilder) SetPort(port int) *EndpointBuilder {
	if port < 0 || port > 65535 {
		b.fail(validationErrorf("SetPort", "port must be between 0 and 65535, got %d", port))
		return b
	}
	b.port = port
	b.portSet = true
	return b
}

// SetPortString parses a decimal port, as read from flags or the environment.
func (b *EndpointBuilder) SetPortString(port string) *EndpointBuilder {
	n, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		b.fail(validationErrorf("SetPort", "port must be a number, got %q", port))
		return b
	}
	return b.SetPort(n)
}

// WithCredentials sets the username and password. The password is
// percent-encoded when it contains any of $ : / ? # [ ] @.
func (b *EndpointBuilder) WithCredentials(username, password string) *EndpointBuilder {
	if strings.ContainsAny(password, passwordReserved) {
		password = encodeURIComponent(password)
	}
	b.hasCreds = true
	b.username = username
	b.password = password
	return b
}

// Err returns the first validation error recorded by a setter.
func (b *EndpointBuilder) Err() error { return b.err }

// Build validates the accumulated settings and returns the Endpoint.
func (b *EndpointBuilder) Build() (*Endpoint, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.host == "" {
		return nil, validationErrorf("Build", "host required to build mongodb uri")
	}
	if !b.portSet {
		return nil, validationErrorf("Build", "port required to build mongodb uri")
	}
	if b.hasCreds {
		if b.username == "" {
			return nil, validationErrorf("Build", "username required to build mongodb uri")
		}
		if b.password == "" {
			return nil, validationErrorf("Build", "password required to build mongodb uri")
		}
	}

	var uri strings.Builder
	uri.WriteString(uriScheme)
	if b.hasCreds {
		uri.WriteString(b.username)
		uri.WriteString(":")
		uri.WriteString(b.password)
		uri.WriteString("@")
	}
	uri.WriteString(b.host)
	uri.WriteString(":")
	uri.WriteString(strconv.Itoa(b.port))

	return &Endpoint{
		host:     b.host,
		port:     b.port,
		username: b.username,
		password: b.password,
		hasCreds: b.hasCreds,
		uri:      uri.String(),
	}, nil
}

// Clone creates a copy of the builder, including any recorded error.
func (b *EndpointBuilder) Clone() *EndpointBuilder {
	c := *b
	return &c
}

func (b *EndpointBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponent(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isUnreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// RedactURI masks the password of a mongodb:// or mongodb+srv:// connection string.
func RedactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	authority := rest
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		authority = rest[:i]
	}
	at := strings.LastIndex(authority, "@")
	if at < 0 {
		return uri
	}
	user, _, hasPass := strings.Cut(rest[:at], ":")
	if !hasPass {
		return uri
	}
	return scheme + "://" + user + ":xxxxx" + rest[at:]
}
