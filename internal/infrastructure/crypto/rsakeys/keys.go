// Package rsakeys loads the service RSA key pair and uses it to encrypt and
// decrypt short strings (tokens and stored passwords).
//
// Ciphertexts are RSA PKCS#1 v1.5 encrypted and standard base64 encoded.
package rsakeys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrKeyMismatch is returned when the public key does not belong to the
// private key.
var ErrKeyMismatch = errors.New("rsakeys: public key does not match private key")

// KeyPair is immutable after construction and safe for concurrent use.
type KeyPair struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// New wraps an existing private key; the public half is taken from it.
func New(private *rsa.PrivateKey) *KeyPair {
	return &KeyPair{private: private, public: &private.PublicKey}
}

// Parse builds a KeyPair from a PKCS#8 private key and an X.509 (PKIX)
// public key. Each may be PEM armoured or bare base64 DER.
func Parse(privateKey, publicKey string) (*KeyPair, error) {
	privDER, err := decodeKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	priv, err := parsePrivate(privDER)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}

	pub, err := parsePublic(publicKey)
	if err != nil {
		return nil, err
	}
	if !priv.PublicKey.Equal(pub) {
		return nil, ErrKeyMismatch
	}
	return &KeyPair{private: priv, public: pub}, nil
}

// LoadFiles reads both keys from disk and calls Parse.
func LoadFiles(privatePath, publicPath string) (*KeyPair, error) {
	priv, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	pub, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return Parse(string(priv), string(pub))
}

// Encrypt encrypts plaintext with the public key.
func (k *KeyPair) Encrypt(plaintext string) (string, error) {
	return encrypt(k.public, plaintext)
}

// Decrypt reverses Encrypt with the private key.
func (k *KeyPair) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	out, err := rsa.DecryptPKCS1v15(nil, k.private, raw)
	if err != nil {
		return "", fmt.Errorf("rsa decrypt: %w", err)
	}
	return string(out), nil
}

// PrivatePEM returns the private key as a PKCS#8 PEM block.
func (k *KeyPair) PrivatePEM() (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(k.private)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}

// PublicPEM returns the public key as a PKIX PEM block.
func (k *KeyPair) PublicPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(k.public)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// PublicKey can only encrypt. Provisioning tools use it to produce stored
// passwords without access to the private key.
type PublicKey struct {
	key *rsa.PublicKey
}

// ParsePublic reads an X.509 (PKIX) public key, PEM armoured or bare base64.
func ParsePublic(publicKey string) (*PublicKey, error) {
	pub, err := parsePublic(publicKey)
	if err != nil {
		return nil, err
	}
	return &PublicKey{key: pub}, nil
}

// Encrypt produces the same ciphertext format as KeyPair.Encrypt.
func (p *PublicKey) Encrypt(plaintext string) (string, error) {
	return encrypt(p.key, plaintext)
}

func encrypt(pub *rsa.PublicKey, plaintext string) (string, error) {
	out, err := rsa.EncryptPKCS1v15(rand.Reader, pub, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("rsa encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

func parsePublic(s string) (*rsa.PublicKey, error) {
	der, err := decodeKey(s)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key: expected RSA, got %T", parsed)
	}
	return pub, nil
}

func parsePrivate(der []byte) (*rsa.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		// PKCS#1 keys produced by older openssl versions.
		if rsaKey, pkcs1Err := x509.ParsePKCS1PrivateKey(der); pkcs1Err == nil {
			return rsaKey, nil
		}
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("expected RSA, got %T", key)
	}
	return rsaKey, nil
}

func decodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty key")
	}
	if strings.HasPrefix(s, "-----BEGIN") {
		block, _ := pem.Decode([]byte(s))
		if block == nil {
			return nil, errors.New("invalid PEM block")
		}
		return block.Bytes, nil
	}
	compact := strings.Join(strings.Fields(s), "")
	der, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return der, nil
}
