package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken wraps every token validation failure.
var ErrInvalidToken = errors.New("invalid token")

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	// Secret is the HMAC-SHA256 symmetric key. Prefer the RSA keys outside
	// local development.
	Secret string

	// PrivateKeyPEM is a PEM-encoded RSA private key for signing tokens (issuer mode).
	PrivateKeyPEM string

	// PublicKeyPEM is a PEM-encoded RSA public key for validating tokens (validator mode).
	PublicKeyPEM string

	Issuer     string
	Expiration time.Duration
}

// ErrCannotIssue is returned by GenerateToken on a validation-only service.
var ErrCannotIssue = errors.New("jwt service holds no signing key")

// JWTService signs and validates tokens with a single algorithm: RS256 when
// RSA key material is configured, HS256 otherwise.
type JWTService struct {
	config    JWTConfig
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

// NewJWTService picks the key mode from cfg. A private key enables issuing
// and validation, a public key alone validation only, and a Secret HMAC for
// both. The first one present wins in that order.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{config: cfg}

	switch {
	case cfg.PrivateKeyPEM != "":
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
		svc.method, svc.signKey, svc.verifyKey = jwt.SigningMethodRS256, key, &key.PublicKey
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		svc.method, svc.verifyKey = jwt.SigningMethodRS256, key
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		svc.method, svc.signKey, svc.verifyKey = jwt.SigningMethodHS256, secret, secret
	default:
		return nil, errors.New("jwt configuration requires a private key, a public key or a secret")
	}

	return svc, nil
}

// CanIssue reports whether the service holds signing material.
func (s *JWTService) CanIssue() bool {
	return s.signKey != nil
}

// GenerateToken issues a token for userID carrying roles. It expires after
// JWTConfig.Expiration.
func (s *JWTService) GenerateToken(userID uuid.UUID, roles []string) (string, error) {
	if !s.CanIssue() {
		return "", ErrCannotIssue
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.config.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
		UserID: userID,
		Roles:  roles,
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with %s: %w", s.method.Alg(), err)
	}
	return signed, nil
}

// ValidateToken verifies the signature, expiry and, when configured, the
// issuer. Every failure wraps ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.verifyKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// LoadKeyFromFile reads a PEM-encoded key from a file path.
func LoadKeyFromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %q: %w", path, err)
	}
	return data, nil
}

// GenerateKeyPair returns a fresh 2048-bit RSA key pair as PEM: PKCS#1 for
// the private key and PKIX for the public key.
func GenerateKeyPair() (privateKeyPEM, publicKeyPEM []byte, err error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	privateKeyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	publicKeyPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub})
	return privateKeyPEM, publicKeyPEM, nil
}
