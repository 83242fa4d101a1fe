// Package certs loads extra trust roots for backends served with a private CA.
package certs

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CertManager reads PEM certificates from a directory.
type CertManager struct {
	certDir string
}

func NewCertManager(certDir string) *CertManager {
	return &CertManager{certDir: certDir}
}

// LoadCertificates loads every .crt and .pem file in the directory. A file may
// hold several certificates.
func (cm *CertManager) LoadCertificates() ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	err := filepath.WalkDir(cm.certDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".crt") && !strings.HasSuffix(name, ".pem") {
			return nil
		}
		loaded, err := loadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		certs = append(certs, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}

// Pool returns the system roots plus every certificate in the directory.
// Expired certificates are skipped.
func (cm *CertManager) Pool(now time.Time) (*x509.CertPool, error) {
	certs, err := cm.LoadCertificates()
	if err != nil {
		return nil, err
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	added := 0
	for _, c := range certs {
		if IsExpired(c, now) {
			continue
		}
		pool.AddCert(c)
		added++
	}
	if added == 0 {
		return nil, fmt.Errorf("no usable certificates in %s", cm.certDir)
	}
	return pool, nil
}

func IsExpired(cert *x509.Certificate, now time.Time) bool {
	return cert.NotAfter.Before(now)
}

func loadFile(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		c, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	if len(certs) == 0 {
		return nil, errors.New("failed to parse certificate PEM")
	}
	return certs, nil
}
