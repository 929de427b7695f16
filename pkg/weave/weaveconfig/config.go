// Package weaveconfig is the "optional collaborator" spec §6 describes:
// it is not part of the router/DI core, but the core's typed config
// structs (ServerConfig, TLSConfig, RateLimitConfig) are produced here.
// Sources are merged with later sources winning: a config file first,
// then process environment variables on top, matching the original's
// file-then-env precedence.
package weaveconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Loader wraps a *viper.Viper instance configured the way this
// framework expects: environment variables take precedence over an
// optional .env-style file.
type Loader struct {
	v *viper.Viper
}

// New builds a Loader. If file is non-empty, it is read as a .env-style
// key=value file (viper's "env" config type, backed by
// github.com/subosito/gotenv — already a transitive dependency of
// viper in this module). When required is false, a missing file is not
// an error; when true, a missing file is returned as an error from
// Load.
func New(file string, required bool) (*Loader, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if file != "" {
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("weaveconfig: reading %s: %w", file, err)
			}
			if required {
				return nil, fmt.Errorf("weaveconfig: required config file %s not found", file)
			}
		}
	}

	return &Loader{v: v}, nil
}

// String returns a string value, or def if unset.
func (l *Loader) String(key, def string) string {
	if !l.v.IsSet(key) {
		return def
	}
	return l.v.GetString(key)
}

// Bool returns a bool value, or def if unset.
func (l *Loader) Bool(key string, def bool) bool {
	if !l.v.IsSet(key) {
		return def
	}
	return l.v.GetBool(key)
}

// Int returns an int value, or def if unset.
func (l *Loader) Int(key string, def int) int {
	if !l.v.IsSet(key) {
		return def
	}
	return l.v.GetInt(key)
}

// Duration parses key's raw string value with the spec §6 duration
// grammar, falling back to def when unset.
func (l *Loader) Duration(key string, def time.Duration) (time.Duration, error) {
	if !l.v.IsSet(key) {
		return def, nil
	}
	d, err := ParseDuration(l.v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("weaveconfig: %s: %w", key, err)
	}
	return d, nil
}

// ByteSize parses key's raw string value with the spec §6 byte-size
// grammar, falling back to def when unset.
func (l *Loader) ByteSize(key string, def int64) (int64, error) {
	if !l.v.IsSet(key) {
		return def, nil
	}
	n, err := ParseByteSize(l.v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("weaveconfig: %s: %w", key, err)
	}
	return n, nil
}

// TLSConfig is the PEM certificate-chain/key pair plus the negotiable
// TLS version range and ALPN protocol list from spec §6.
type TLSConfig struct {
	CertFile      string
	KeyFile       string
	MinVersion    uint16 // tls.VersionTLS12, tls.VersionTLS13, ...
	MaxVersion    uint16
	ALPNProtocols []string
}

// RateLimitConfig mirrors middleware/ratelimit.Config's tunables as
// loadable values, kept separate from that package so weaveconfig
// doesn't need to import every middleware it can configure.
type RateLimitConfig struct {
	MaxRequests uint64
	Window      time.Duration
}

// ServerConfig is the runner's typed configuration: bind address,
// timeouts, body-size limit, optional TLS.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	BodyLimit       int64
	TLS             *TLSConfig
}

// LoadServerConfig builds a ServerConfig from the loader, applying the
// same defaults the teacher's main.go hardcodes (8080, no TLS) and the
// runner's own defaults for timeouts (spec §4.9: shutdown timeout caps
// graceful drain).
func (l *Loader) LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Addr: l.String("SERVER_ADDR", ":8080"),
	}

	var err error
	if cfg.ReadTimeout, err = l.Duration("SERVER_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = l.Duration("SERVER_WRITE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = l.Duration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.BodyLimit, err = l.ByteSize("SERVER_BODY_LIMIT", 10*1024*1024); err != nil {
		return nil, err
	}

	if certFile := l.String("SERVER_TLS_CERT_FILE", ""); certFile != "" {
		cfg.TLS = &TLSConfig{
			CertFile:      certFile,
			KeyFile:       l.String("SERVER_TLS_KEY_FILE", ""),
			ALPNProtocols: []string{"h2", "http/1.1"},
		}
	}

	return cfg, nil
}

// LoadRateLimitConfig builds a RateLimitConfig, defaulting to the same
// 100-requests-per-minute baseline as
// middleware/ratelimit.DefaultConfig.
func (l *Loader) LoadRateLimitConfig() (*RateLimitConfig, error) {
	cfg := &RateLimitConfig{
		MaxRequests: uint64(l.Int("RATE_LIMIT_MAX_REQUESTS", 100)),
	}
	var err error
	if cfg.Window, err = l.Duration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	return cfg, nil
}
