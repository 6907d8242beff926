// Package main generates a development Certificate Authority (CA) and a server
// certificate, writing them to files under the "certs" directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/restofinder/internal/certgen"
)

const (
	caValidity     = 10 * 365 * 24 * time.Hour
	serverValidity = 365 * 24 * time.Hour
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, splitHosts(*hosts)); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("✅ Certificates generated into ./%s\n", *dir)
}

// run writes server.crt and server.key into dir, signed by the CA in dir.
// The CA (ca.crt, ca.key) is created first when it does not exist yet.
func run(dir string, hosts []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	caCertPath := filepath.Join(dir, "ca.crt")
	caKeyPath := filepath.Join(dir, "ca.key")

	if _, err := os.Stat(caCertPath); errors.Is(err, os.ErrNotExist) {
		certPEM, keyPEM, err := certgen.GenerateCA("Restofinder Dev CA", caValidity)
		if err != nil {
			return err
		}
		if err := writePair(caCertPath, caKeyPath, certPEM, keyPEM); err != nil {
			return err
		}
	}

	caCert, caKey, err := certgen.LoadCACredentials(caCertPath, caKeyPath)
	if err != nil {
		return err
	}

	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, caCert, caKey, serverValidity)
	if err != nil {
		return err
	}
	return writePair(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"), certPEM, keyPEM)
}

func writePair(certPath, keyPath string, certPEM, keyPEM []byte) error {
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", certPath, err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", keyPath, err)
	}
	return nil
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
