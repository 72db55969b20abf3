// Package keystore loads the TLS identity named by ssl_keystore.
//
// Two formats are understood: PKCS#12 bundles (.p12, .pfx) protected by
// ssl_password, and PEM files holding a certificate chain and an
// unencrypted private key.
package keystore

import (
	"bytes"
	"crypto/tls"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// Format identifies a keystore encoding.
type Format string

// Supported formats.
const (
	FormatPKCS12 Format = "pkcs12"
	FormatPEM    Format = "pem"
)

var pemPrefix = []byte("-----BEGIN ")

// Detect guesses the format from the file extension, falling back to
// sniffing for PEM armor.
func Detect(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		return FormatPKCS12
	case ".pem", ".crt", ".key":
		return FormatPEM
	}
	if bytes.Contains(data, pemPrefix) {
		return FormatPEM
	}
	return FormatPKCS12
}

// Load reads the keystore at path.
func Load(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("read keystore: %w", err)
	}

	var cert tls.Certificate
	switch Detect(path, data) {
	case FormatPEM:
		cert, err = tls.X509KeyPair(data, data)
	default:
		cert, err = decodePKCS12(data, password)
	}
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load keystore %s: %w", path, err)
	}
	return cert, nil
}

func decodePKCS12(data []byte, password string) (tls.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, err
	}

	var certPEM, keyPEM []byte
	for _, b := range blocks {
		encoded := pem.EncodeToMemory(b)
		if b.Type == "CERTIFICATE" {
			certPEM = append(certPEM, encoded...)
		} else {
			keyPEM = append(keyPEM, encoded...)
		}
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}
