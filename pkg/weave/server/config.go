package server

import "time"

// TLSConfig is the runner's TLS contract (spec §4.9/§6): a PEM
// certificate chain and PKCS#8 private key file, a negotiable
// min/max protocol version range, and an ALPN protocol list. The core
// depends only on this shape; weaveconfig.TLSConfig is one way to
// produce it from the environment, not the only way.
type TLSConfig struct {
	CertFile      string
	KeyFile       string
	MinVersion    uint16 // tls.VersionTLS12 if zero
	MaxVersion    uint16 // tls.VersionTLS13 if zero
	ALPNProtocols []string
}

// Config is the runner's bind configuration: address, timeouts, body
// limit, and optional TLS. It is the contract weaveconfig.ServerConfig
// is translated into at the application's composition root.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	BodyLimit       int64
	TLS             *TLSConfig
}

// DefaultConfig matches the teacher's hardcoded defaults (port 8080, no
// TLS) plus the spec's shutdown-timeout cap.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		BodyLimit:       10 << 20,
	}
}
