package securityheaders

import "strconv"

// XFrameOptions controls the X-Frame-Options response header.
type XFrameOptions string

const (
	FrameDeny       XFrameOptions = "DENY"
	FrameSameOrigin XFrameOptions = "SAMEORIGIN"
)

// XSSProtection controls the (legacy, but still widely checked)
// X-XSS-Protection header.
type XSSProtection string

const (
	XSSDisabled     XSSProtection = "0"
	XSSEnabled      XSSProtection = "1"
	XSSEnabledBlock XSSProtection = "1; mode=block"
)

// ReferrerPolicy controls the Referrer-Policy header.
type ReferrerPolicy string

const (
	ReferrerNoReferrer                 ReferrerPolicy = "no-referrer"
	ReferrerNoReferrerWhenDowngrade     ReferrerPolicy = "no-referrer-when-downgrade"
	ReferrerOrigin                      ReferrerPolicy = "origin"
	ReferrerOriginWhenCrossOrigin       ReferrerPolicy = "origin-when-cross-origin"
	ReferrerSameOrigin                  ReferrerPolicy = "same-origin"
	ReferrerStrictOrigin                ReferrerPolicy = "strict-origin"
	ReferrerStrictOriginWhenCrossOrigin ReferrerPolicy = "strict-origin-when-cross-origin"
	ReferrerUnsafeURL                   ReferrerPolicy = "unsafe-url"
)

// CrossDomainPolicy controls X-Permitted-Cross-Domain-Policies.
type CrossDomainPolicy string

const (
	CrossDomainNone          CrossDomainPolicy = "none"
	CrossDomainMasterOnly    CrossDomainPolicy = "master-only"
	CrossDomainByContentType CrossDomainPolicy = "by-content-type"
	CrossDomainByFtpFilename CrossDomainPolicy = "by-ftp-filename"
	CrossDomainAll           CrossDomainPolicy = "all"
)

// CrossOriginEmbedderPolicy controls Cross-Origin-Embedder-Policy.
type CrossOriginEmbedderPolicy string

const (
	COEPUnsafeNone      CrossOriginEmbedderPolicy = "unsafe-none"
	COEPRequireCorp     CrossOriginEmbedderPolicy = "require-corp"
	COEPCredentialLess  CrossOriginEmbedderPolicy = "credentialless"
)

// CrossOriginOpenerPolicy controls Cross-Origin-Opener-Policy.
type CrossOriginOpenerPolicy string

const (
	COOPUnsafeNone             CrossOriginOpenerPolicy = "unsafe-none"
	COOPSameOrigin             CrossOriginOpenerPolicy = "same-origin"
	COOPSameOriginAllowPopups  CrossOriginOpenerPolicy = "same-origin-allow-popups"
)

// CrossOriginResourcePolicy controls Cross-Origin-Resource-Policy.
type CrossOriginResourcePolicy string

const (
	CORPCrossOrigin CrossOriginResourcePolicy = "cross-origin"
	CORPSameSite    CrossOriginResourcePolicy = "same-site"
	CORPSameOrigin  CrossOriginResourcePolicy = "same-origin"
)

// HSTSConfig builds the Strict-Transport-Security header value.
type HSTSConfig struct {
	MaxAgeSeconds      uint64
	IncludeSubdomains  bool
	Preload            bool
}

// DefaultHSTSConfig matches the original's 180-day default.
func DefaultHSTSConfig() HSTSConfig {
	return HSTSConfig{MaxAgeSeconds: 15552000}
}

func (h HSTSConfig) headerValue() string {
	value := "max-age=" + strconv.FormatUint(h.MaxAgeSeconds, 10)
	if h.IncludeSubdomains {
		value += "; includeSubDomains"
	}
	if h.Preload {
		value += "; preload"
	}
	return value
}
