package certgen

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func mustCA(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()
	certPEM, keyPEM, err := GenerateCA("Test CA", 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateCA: %v", err)
	}
	return certPEM, keyPEM
}

func TestGenerateCA(t *testing.T) {
	certPEM, keyPEM := mustCA(t)

	caCert, _, err := ParseCA(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("ParseCA: %v", err)
	}
	if !caCert.IsCA || !caCert.BasicConstraintsValid {
		t.Error("CA certificate should be a valid CA")
	}
	if caCert.KeyUsage&x509.KeyUsageCertSign == 0 {
		t.Errorf("CA KeyUsage = %v; want CertSign", caCert.KeyUsage)
	}
	if caCert.Subject.CommonName != "Test CA" {
		t.Errorf("CommonName = %q", caCert.Subject.CommonName)
	}
}

func TestLoadCACredentials(t *testing.T) {
	certPEM, keyPEM := mustCA(t)
	dir := t.TempDir()
	certPath := filepath.Join(dir, "ca.crt")
	keyPath := filepath.Join(dir, "ca.key")
	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadCACredentials(certPath, keyPath); err != nil {
		t.Fatalf("LoadCACredentials: %v", err)
	}
	if _, _, err := LoadCACredentials(filepath.Join(dir, "missing.crt"), keyPath); err == nil {
		t.Error("expected error for missing cert")
	}
	if _, _, err := LoadCACredentials(certPath, filepath.Join(dir, "missing.key")); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestParseCA_Errors(t *testing.T) {
	certPEM, keyPEM := mustCA(t)
	caCert, caKey, err := ParseCA(certPEM, keyPEM)
	if err != nil {
		t.Fatal(err)
	}
	leafPEM, _, err := GenerateServerCertificate([]string{"localhost"}, caCert, caKey, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cert    []byte
		key     []byte
		wantErr string
	}{
		{name: "garbage cert", cert: []byte("nope"), key: keyPEM, wantErr: "invalid CA cert PEM"},
		{name: "leaf cert", cert: leafPEM, key: keyPEM, wantErr: "not a CA"},
		{name: "garbage key", cert: certPEM, key: []byte("nope"), wantErr: "invalid CA key PEM"},
		{
			name:    "unsupported key type",
			cert:    certPEM,
			key:     pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1}}),
			wantErr: "unsupported key type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseCA(tt.cert, tt.key)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseCA error = %v; want %q", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateServerCertificate(t *testing.T) {
	certPEM, keyPEM := mustCA(t)
	caCert, caKey, err := ParseCA(certPEM, keyPEM)
	if err != nil {
		t.Fatal(err)
	}

	srvCertPEM, srvKeyPEM, err := GenerateServerCertificate([]string{"localhost", "127.0.0.1"}, caCert, caKey, time.Hour)
	if err != nil {
		t.Fatalf("GenerateServerCertificate: %v", err)
	}
	if _, err := tls.X509KeyPair(srvCertPEM, srvKeyPEM); err != nil {
		t.Fatalf("certificate and key do not match: %v", err)
	}

	block, _ := pem.Decode(srvCertPEM)
	leaf, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if leaf.Subject.CommonName != "localhost" {
		t.Errorf("CommonName = %q; want localhost", leaf.Subject.CommonName)
	}
	if len(leaf.DNSNames) != 1 || leaf.DNSNames[0] != "localhost" {
		t.Errorf("DNSNames = %v", leaf.DNSNames)
	}
	if len(leaf.IPAddresses) != 1 || !leaf.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")) {
		t.Errorf("IPAddresses = %v", leaf.IPAddresses)
	}

	roots := x509.NewCertPool()
	roots.AddCert(caCert)
	if _, err := leaf.Verify(x509.VerifyOptions{DNSName: "localhost", Roots: roots}); err != nil {
		t.Errorf("leaf does not verify against CA: %v", err)
	}
}

func TestGenerateServerCertificate_NoHosts(t *testing.T) {
	certPEM, keyPEM := mustCA(t)
	caCert, caKey, err := ParseCA(certPEM, keyPEM)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := GenerateServerCertificate(nil, caCert, caKey, time.Hour); err == nil {
		t.Error("expected error without hosts")
	}
}
