// Package crypto provides crypto related utility functions.
//
// It supports ed25519 for the signature scheme and the sha3-256 / ripemd160
// hash suite used by catapult entity hashing and address derivation.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	ed "golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // address digest is fixed by the chain
	"golang.org/x/crypto/sha3"
)

const (
	HashLength         = 32
	Ripemd160Length    = 20
	EdPublicKeyLength  = 32
	EdPrivateKeyLength = 64
	EdSignatureLength  = 64
)

func RandomBytes(size int) []byte {
	r := make([]byte, size)
	if _, err := rand.Read(r); err != nil {
		panic(err)
	}
	return r
}

// GetKeys derives an ed25519 key pair from a passphrase. The passphrase hash
// seeds the key deterministically so the same phrase always yields the same
// account.
func GetKeys(passphrase string) ([]byte, []byte, error) {
	seed := Sha3256([]byte(passphrase))
	privateKey := ed.NewKeyFromSeed(seed)
	publicKey := privateKey.Public().(ed.PublicKey)
	return publicKey[:], privateKey[:], nil
}

// GetEdPublicKey returns the public key of a 32 byte seed or 64 byte private key.
func GetEdPublicKey(privateKey []byte) []byte {
	if len(privateKey) == EdPrivateKeyLength {
		return privateKey[32:]
	}
	pk := ed.NewKeyFromSeed(privateKey)
	return pk.Public().(ed.PublicKey)
}

// Sha3256 returns the sha3-256 digest over the concatenation of the inputs.
func Sha3256(data ...[]byte) []byte {
	hasher := sha3.New256()
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

// Keccak256 returns the legacy keccak digest over the concatenation of the inputs.
func Keccak256(data ...[]byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

// Hash256 returns sha256(sha256(data)), the bitcoin style double hash.
func Hash256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Hash160 returns ripemd160(sha256(data)).
func Hash160(data []byte) []byte {
	first := sha256.Sum256(data)
	hasher := ripemd160.New()
	hasher.Write(first[:])
	return hasher.Sum(nil)
}

// AddressHash returns ripemd160(sha3-256(publicKey)), the 20 byte account
// identifier embedded in every address.
func AddressHash(publicKey []byte) []byte {
	hasher := ripemd160.New()
	hasher.Write(Sha3256(publicKey))
	return hasher.Sum(nil)
}

// Sign signs the message with a 64 byte ed25519 private key.
func Sign(privateKey []byte, message []byte) ([]byte, error) {
	if len(privateKey) != EdPrivateKeyLength {
		return nil, fmt.Errorf("private key must have length of %d but received %d", EdPrivateKeyLength, len(privateKey))
	}
	return ed.Sign(privateKey, message), nil
}

// VerifySignature verifies an ed25519 signature over the message.
func VerifySignature(publicKey, signature, message []byte) error {
	if len(publicKey) != EdPublicKeyLength {
		return fmt.Errorf("public key must have length of %d but received %d", EdPublicKeyLength, len(publicKey))
	}
	if valid := ed.Verify(ed.PublicKey(publicKey), message, signature); !valid {
		return fmt.Errorf("invalid signature %x by %x", signature, publicKey)
	}
	return nil
}
