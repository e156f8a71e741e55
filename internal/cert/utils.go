package cert

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// EnsureServerCertificate writes a self-signed certificate and key to the
// given paths unless both files already exist.
func EnsureServerCertificate(certPath, keyPath string, hosts []string) error {
	if fileExists(certPath) && fileExists(keyPath) {
		slog.Info("Using existing server certificate", "cert", certPath)
		return nil
	}

	slog.Info("Generating self-signed server certificate", "cert", certPath, "hosts", hosts)
	cert, key, err := GenerateSelfSigned(hosts)
	if err != nil {
		return err
	}

	for _, path := range []string{certPath, keyPath} {
		if err := ensureDirectory(path); err != nil {
			return err
		}
	}
	if err := writeCertToFile(cert, certPath); err != nil {
		return err
	}
	return writeKeyToFile(key, keyPath)
}

func encodePEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

func ensureDirectory(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func writeCertToFile(cert *x509.Certificate, path string) error {
	if err := os.WriteFile(path, encodePEM(cert), 0o644); err != nil {
		return fmt.Errorf("failed to write certificate file: %w", err)
	}
	return nil
}

func writeKeyToFile(key *rsa.PrivateKey, path string) error {
	keyFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create key file: %w", err)
	}
	defer keyFile.Close()

	keyBytes, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	if err := pem.Encode(keyFile, &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}); err != nil {
		return fmt.Errorf("failed to encode key: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
