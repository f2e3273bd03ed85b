package config

import (
	"net"
	"net/url"
	"strings"

	"github.com/goliatone/go-txcache/store"
)

// DSN returns URL when set, otherwise a connection string assembled from the
// discrete fields. For SQLite the database name is the file path.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == store.DriverSQLite {
		return d.Name
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// NormalizeRedisURL prefixes a bare host:port with redis://.
func NormalizeRedisURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "redis://" + raw
}
