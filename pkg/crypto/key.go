package crypto

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip39"
	ed "golang.org/x/crypto/ed25519"
)

const (
	hardendOffset = 0x80000000

	// DefaultDerivationPath is the SLIP-10 path wallets use for the chain's
	// first account. 4343 is the registered coin type.
	DefaultDerivationPath = "m/44'/4343'/0'/0'/0'"
)

// GenerateRecoveryPhrase returns a fresh 24 word bip39 mnemonic.
func GenerateRecoveryPhrase() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func parseDerivationPath(path string) ([]int, error) {
	if string(path[0]) != "m" {
		return nil, errors.New("derivation path must start from `m`")
	}
	segments := strings.Split(path, "/")
	result := make([]int, len(segments)-1)
	keyPathRegex := regexp.MustCompile("^[0-9]+'?$")
	for i, segment := range segments {
		// first segment is m
		if i == 0 {
			continue
		}
		if segment == "" {
			return nil, errors.New("each segment cannot be empty")
		}
		if !keyPathRegex.MatchString(segment) {
			return nil, fmt.Errorf("invalid segment format for %s", segment)
		}
		if string(segment[len(segment)-1]) == "'" {
			val, err := strconv.Atoi(segment[:len(segment)-1])
			if err != nil {
				return nil, err
			}
			if val > math.MaxUint32/2 {
				return nil, fmt.Errorf("segment %s exceeds max uint32 / 2", segment)
			}
			result[i-1] = val + hardendOffset
			continue
		}
		val, err := strconv.Atoi(segment)
		if err != nil {
			return nil, err
		}
		result[i-1] = val
	}
	return result, nil
}

// DeriveEd25519Key derives a 64 byte ed25519 private key from a recovery
// phrase and a SLIP-10 hardened derivation path.
func DeriveEd25519Key(recoveryPhrase, path string) ([]byte, error) {
	derivationPath, err := parseDerivationPath(path)
	if err != nil {
		return nil, err
	}
	seed := bip39.NewSeed(recoveryPhrase, "")
	key, chainCode, err := getEd25519MasterKey(seed)
	if err != nil {
		return nil, err
	}
	for _, segment := range derivationPath {
		var err error
		key, chainCode, err = getEd25519ChildKey(key, chainCode, segment)
		if err != nil {
			return nil, err
		}
	}
	_, sk, err := ed.GenerateKey(bytes.NewReader(key))
	if err != nil {
		return nil, err
	}
	return sk, nil
}

func getEd25519MasterKey(seed []byte) ([]byte, []byte, error) {
	hmacer := hmac.New(sha512.New, []byte("ed25519 seed"))
	if _, err := hmacer.Write(seed); err != nil {
		return nil, nil, err
	}
	result := hmacer.Sum(nil)
	return result[:32], result[32:], nil
}

func getEd25519ChildKey(key, chainCode []byte, index int) ([]byte, []byte, error) {
	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, uint32(index))

	hmacer := hmac.New(sha512.New, chainCode)
	if _, err := hmacer.Write(append(append([]byte{0}, key...), indexBytes...)); err != nil {
		return nil, nil, err
	}
	result := hmacer.Sum(nil)
	return result[:32], result[32:], nil
}
