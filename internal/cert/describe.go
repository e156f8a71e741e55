package cert

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

var ErrNotPEM = errors.New("certificate not understood as PEM data")

const timeLayout = "2006-01-02 15:04:05-07:00"

var attributeNames = map[string]string{
	"2.5.4.3":                    "CN",
	"2.5.4.5":                    "serialNumber",
	"2.5.4.6":                    "C",
	"2.5.4.7":                    "L",
	"2.5.4.8":                    "ST",
	"2.5.4.9":                    "street",
	"2.5.4.10":                   "O",
	"2.5.4.11":                   "OU",
	"2.5.4.17":                   "postalCode",
	"0.9.2342.19200300.100.1.1":  "UID",
	"0.9.2342.19200300.100.1.25": "DC",
	"1.2.840.113549.1.9.1":       "emailAddress",
}

// ParsePEM decodes the first CERTIFICATE block of data.
func ParsePEM(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, ErrNotPEM
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotPEM, err)
	}
	return cert, nil
}

// Describe renders a PEM certificate as indented "Key = value" lines.
func Describe(data []byte, indent int) (string, error) {
	cert, err := ParsePEM(data)
	if err != nil {
		return "", err
	}

	prefix := strings.Repeat(" ", indent)
	var b strings.Builder
	fmt.Fprintf(&b, "%sSerial = %s\n", prefix, cert.SerialNumber.String())
	fmt.Fprintf(&b, "%sNot before = %s\n", prefix, cert.NotBefore.UTC().Format(timeLayout))
	fmt.Fprintf(&b, "%sNot after = %s\n", prefix, cert.NotAfter.UTC().Format(timeLayout))
	fmt.Fprintf(&b, "%sSubject = %s\n", prefix, formatName(cert.Subject.Names))
	if len(cert.SubjectKeyId) > 0 {
		fmt.Fprintf(&b, "%s          key=%s\n", prefix, hexID(cert.SubjectKeyId))
	}
	fmt.Fprintf(&b, "%sIssuer = %s", prefix, formatName(cert.Issuer.Names))
	if len(cert.AuthorityKeyId) > 0 {
		fmt.Fprintf(&b, "\n%s         key=%s", prefix, hexID(cert.AuthorityKeyId))
	}

	if sans := subjectAltNames(cert); len(sans) > 0 {
		fmt.Fprintf(&b, "\n%sSubject Alternative Names:", prefix)
		for _, san := range sans {
			fmt.Fprintf(&b, "\n%s  %s", prefix, san)
		}
	}
	return b.String(), nil
}

func formatName(names []pkix.AttributeTypeAndValue) string {
	parts := make([]string, 0, len(names))
	for _, atv := range names {
		key, ok := attributeNames[atv.Type.String()]
		if !ok {
			key = atv.Type.String()
		}
		parts = append(parts, fmt.Sprintf("%s=%v", key, atv.Value))
	}
	return strings.Join(parts, ",")
}

func hexID(id []byte) string {
	parts := make([]string, len(id))
	for i, v := range id {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, ":")
}

func subjectAltNames(cert *x509.Certificate) []string {
	var sans []string
	for _, name := range cert.DNSNames {
		sans = append(sans, "DNS:"+name)
	}
	for _, ip := range cert.IPAddresses {
		sans = append(sans, "IP Address:"+ip.String())
	}
	for _, email := range cert.EmailAddresses {
		sans = append(sans, "email:"+email)
	}
	for _, uri := range cert.URIs {
		sans = append(sans, "URI:"+uri.String())
	}
	return sans
}
