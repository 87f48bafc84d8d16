// Package crypto: session-key derivation for the channel-encrypt handshake.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the plaintext session key size (32 bytes).
	KeySize = 32
	// NonceSize is the server challenge size (16 bytes).
	NonceSize = 16
)

// SessionKey pairs the retained plaintext key with the ciphertext sent to
// the server. Only Encrypted ever crosses the wire.
type SessionKey struct {
	Plain     [KeySize]byte
	Encrypted []byte
}

// KeyGenerator derives a session key from the server's 16-byte nonce.
type KeyGenerator interface {
	GenerateSessionKey(nonce []byte) (*SessionKey, error)
}

// Generator derives keys via HKDF-SHA256 and encrypts key+nonce with
// RSA-OAEP-SHA1 under the server's universe public key.
type Generator struct {
	pub  *rsa.PublicKey
	rand io.Reader
}

// NewGenerator creates a Generator for pub.
func NewGenerator(pub *rsa.PublicKey) *Generator {
	return &Generator{pub: pub, rand: rand.Reader}
}

// GenerateSessionKey implements KeyGenerator. The 32-byte key is HKDF
// output keyed on fresh random material with the nonce as salt, binding
// the key to the server's challenge; the ciphertext is
// RSA-OAEP-SHA1(key || nonce).
func (g *Generator) GenerateSessionKey(nonce []byte) (*SessionKey, error) {
	if len(nonce) != NonceSize {
		return nil, errors.New("nonce size must be 16")
	}
	seed := make([]byte, KeySize)
	if _, err := io.ReadFull(g.rand, seed); err != nil {
		return nil, err
	}

	var key SessionKey
	kdf := hkdf.New(sha256.New, seed, nonce, nil)
	if _, err := io.ReadFull(kdf, key.Plain[:]); err != nil {
		return nil, err
	}

	msg := make([]byte, 0, KeySize+NonceSize)
	msg = append(msg, key.Plain[:]...)
	msg = append(msg, nonce...)
	enc, err := rsa.EncryptOAEP(sha1.New(), g.rand, g.pub, msg, nil)
	if err != nil {
		return nil, err
	}
	key.Encrypted = enc
	return &key, nil
}

// Well-known public-universe RSA key, DER/PKIX.
const universePublicKeyPEM = `-----BEGIN PUBLIC KEY-----
MIGdMA0GCSqGSIb3DQEBAQUAA4GLADCBhwKBgQDf7BrWLBBmLBc1OhSwfFkRf53T
2Ct64+AVzRkeRuh7h3SiGEYxqQMUeYKO6UWiSRKpI2hzic9pobFhRr3Bvr/WARvY
gdTckPv+T1JzZsuVcNfFjrocejN1oWI0Rrtgt4Bo+hOneoo3S57G9F1fOpn5nsQ6
6WOiu4gZKODnFMBCiQIBEQ==
-----END PUBLIC KEY-----`

// UniversePublicKey parses the embedded public-universe key.
func UniversePublicKey() (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(universePublicKeyPEM))
	if block == nil {
		return nil, errors.New("bad universe key pem")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("universe key is not rsa")
	}
	return rsaPub, nil
}
