package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/pg-sharding/mongoshard/pkg/mslog"
)

// TLSConfig follows the libpq sslmode vocabulary operators already know.
type TLSConfig struct {
	SslMode      string `json:"sslmode" toml:"sslmode" yaml:"sslmode"`
	KeyFile      string `json:"key_file" toml:"key_file" yaml:"key_file"`
	CertFile     string `json:"cert_file" toml:"cert_file" yaml:"cert_file"`
	RootCertFile string `json:"root_cert_file" toml:"root_cert_file" yaml:"root_cert_file"`
}

func (c *TLSConfig) mode() string {
	if c == nil || c.SslMode == "" {
		return "disable"
	}
	return c.SslMode
}

func (c *TLSConfig) Validate() error {
	switch c.mode() {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("sslmode %q is invalid", c.SslMode)
	}
	if c != nil && ((c.CertFile != "" && c.KeyFile == "") || (c.CertFile == "" && c.KeyFile != "")) {
		return fmt.Errorf(`both "cert_file" and "key_file" are required`)
	}
	return nil
}

// Init builds the client tls.Config. A nil result means TLS is disabled.
// Server name is left empty: the driver sets it per dialed host.
func (c *TLSConfig) Init() (*tls.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{}

	switch c.mode() {
	case "disable":
		return nil, nil
	case "require":
		if c.RootCertFile != "" {
			goto nextCase
		}
		// codeql[go/disabled-certificate-verification]
		tlsConfig.InsecureSkipVerify = true
		break
	nextCase:
		fallthrough
	case "verify-ca":
		// Verify the chain ourselves and ignore the server name, like libpq verify-ca.
		// codeql[go/disabled-certificate-verification]
		tlsConfig.InsecureSkipVerify = true
		tlsConfig.VerifyPeerCertificate = func(certificates [][]byte, _ [][]*x509.Certificate) error {
			if len(certificates) == 0 {
				return fmt.Errorf("server presented no certificates")
			}
			certs := make([]*x509.Certificate, len(certificates))
			for i, asn1Data := range certificates {
				cert, err := x509.ParseCertificate(asn1Data)
				if err != nil {
					return fmt.Errorf("failed to parse certificate from server: %s", err.Error())
				}
				certs[i] = cert
			}

			opts := x509.VerifyOptions{
				Roots:         tlsConfig.RootCAs,
				Intermediates: x509.NewCertPool(),
			}
			for _, cert := range certs[1:] {
				opts.Intermediates.AddCert(cert)
			}
			_, err := certs[0].Verify(opts)
			return err
		}
	case "verify-full":
	}

	if c.RootCertFile != "" {
		caCertPool := x509.NewCertPool()

		caCert, err := os.ReadFile(c.RootCertFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read CA file: %w", err)
		}

		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("unable to add CA to cert pool")
		}

		tlsConfig.RootCAs = caCertPool
	}

	if c.CertFile != "" && c.KeyFile != "" {
		mslog.Zero.Debug().
			Str("cert_file", c.CertFile).
			Str("key_file", c.KeyFile).
			Msg("loading tls")
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("unable to load X509 key pair: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
