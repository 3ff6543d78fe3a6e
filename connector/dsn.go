package connector

import (
	"net"
	"net/url"
	"strconv"
)

// DSNBuilder builds URL-style connection strings for a shard.
type DSNBuilder struct {
	u      url.URL
	params url.Values
}

// NewDSNBuilder creates a builder for the given URL scheme.
func NewDSNBuilder(scheme string) *DSNBuilder {
	return &DSNBuilder{
		u:      url.URL{Scheme: scheme},
		params: url.Values{},
	}
}

// Auth sets the user. An empty password is left out.
func (b *DSNBuilder) Auth(username, password string) *DSNBuilder {
	switch {
	case username == "":
		b.u.User = nil
	case password == "":
		b.u.User = url.User(username)
	default:
		b.u.User = url.UserPassword(username, password)
	}
	return b
}

// Host sets the host and port. A non-positive port is omitted.
func (b *DSNBuilder) Host(host string, port int) *DSNBuilder {
	if port > 0 {
		b.u.Host = net.JoinHostPort(host, strconv.Itoa(port))
	} else {
		b.u.Host = host
	}
	return b
}

func (b *DSNBuilder) Database(name string) *DSNBuilder {
	b.u.Path = ""
	if name != "" {
		b.u.Path = "/" + name
	}
	return b
}

// Param sets a query parameter. Empty values are ignored.
func (b *DSNBuilder) Param(key, value string) *DSNBuilder {
	if value != "" {
		b.params.Set(key, value)
	}
	return b
}

func (b *DSNBuilder) Params(params map[string]string) *DSNBuilder {
	for k, v := range params {
		b.Param(k, v)
	}
	return b
}

// WithPostgresDefaults sets sslmode and connect_timeout. Later Param calls
// override them.
func (b *DSNBuilder) WithPostgresDefaults() *DSNBuilder {
	return b.Param("sslmode", "prefer").
		Param("connect_timeout", "10")
}

// Build returns the DSN. Parameters are sorted by key.
func (b *DSNBuilder) Build() string {
	u := b.u
	u.RawQuery = b.params.Encode()
	return u.String()
}
