// Command loanctl is a local development helper for the loan decision
// service. It issues signing keys, test tokens and TLS certificates and can
// roll back the database schema.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/loan-decision-service/internal/infrastructure/config"
	pgRepo "github.com/bibbank/loan-decision-service/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/loan-decision-service/pkg/auth"
	pkgpostgres "github.com/bibbank/loan-decision-service/pkg/postgres"
	"github.com/bibbank/loan-decision-service/pkg/tlsutil"
)

const usage = `usage: loanctl <command> [flags]

commands:
  keygen        write an RSA key pair for signing tokens
  token         issue a JWT for local testing
  certs         write a self-signed CA and server certificate
  migrate-down  roll back every database migration
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "loanctl:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return nil
	}
	switch args[0] {
	case "keygen":
		return keygen(args[1:], out)
	case "token":
		return token(args[1:], out)
	case "certs":
		return certs(args[1:], out)
	case "migrate-down":
		return migrateDown()
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func keygen(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	dir := fs.String("out", ".", "directory to write jwt.key and jwt.pub into")
	if err := fs.Parse(args); err != nil {
		return err
	}

	privPEM, pubPEM, err := auth.GenerateKeyPair()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(*dir, "jwt.key"), privPEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	if err := os.WriteFile(filepath.Join(*dir, "jwt.pub"), pubPEM, 0o644); err != nil { //nolint:gosec // public key
		return fmt.Errorf("write public key: %w", err)
	}
	fmt.Fprintf(out, "wrote %s and %s\n", filepath.Join(*dir, "jwt.key"), filepath.Join(*dir, "jwt.pub"))
	return nil
}

func token(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	keyFile := fs.String("key", "", "PEM private key file (RS256)")
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "shared HMAC secret (HS256), used when -key is empty")
	issuer := fs.String("issuer", "", "token issuer")
	subject := fs.String("sub", "", "user id, random when empty")
	roles := fs.String("roles", auth.RoleCustomer, "comma-separated roles")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := auth.JWTConfig{Secret: *secret, Issuer: *issuer, Expiration: *ttl}
	if *keyFile != "" {
		pem, err := auth.LoadKeyFromFile(*keyFile)
		if err != nil {
			return err
		}
		cfg = auth.JWTConfig{PrivateKeyPEM: string(pem), Issuer: *issuer, Expiration: *ttl}
	}
	svc, err := auth.NewJWTService(cfg)
	if err != nil {
		return err
	}
	if !svc.CanIssue() {
		return fmt.Errorf("no signing material: pass -key or -secret")
	}

	userID := uuid.New()
	if *subject != "" {
		if userID, err = uuid.Parse(*subject); err != nil {
			return fmt.Errorf("invalid -sub: %w", err)
		}
	}
	signed, err := svc.GenerateToken(userID, strings.Split(*roles, ","))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, signed)
	return nil
}

func certs(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certs", flag.ContinueOnError)
	dir := fs.String("out", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated SAN hosts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := tlsutil.GenerateSelfSignedCert(strings.Split(*hosts, ","), *dir); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote certificates to %s\n", *dir)
	return nil
}

func migrateDown() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.DB.Enabled() {
		return fmt.Errorf("no database configured")
	}
	dsn := pkgpostgres.Config{
		URL:      cfg.DB.URL,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}.DSN()
	return pkgpostgres.RunMigrationsDown(dsn, pgRepo.Migrations, pgRepo.MigrationsDir)
}
