package model

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
)

// PublicAccount pairs a public key with the address it owns on a network.
type PublicAccount struct {
	PublicKey codec.Hex `json:"publicKey"`
	Address   Address   `json:"address"`
}

// NewPublicAccount derives the account owned by a public key.
func NewPublicAccount(publicKey []byte, network NetworkType) (*PublicAccount, error) {
	address, err := NewAddressFromPublicKey(publicKey, network)
	if err != nil {
		return nil, err
	}
	return &PublicAccount{PublicKey: codec.Copy(publicKey), Address: address}, nil
}

// Equal compares by public key and address.
func (p *PublicAccount) Equal(other *PublicAccount) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.PublicKey.Equal(other.PublicKey) && p.Address.Equal(other.Address)
}

// Account is a PublicAccount together with its signing key.
type Account struct {
	PublicAccount
	privateKey []byte
}

// NewAccountFromPrivateKey accepts a 32 byte seed or 64 byte ed25519 private key.
func NewAccountFromPrivateKey(privateKey []byte, network NetworkType) (*Account, error) {
	if len(privateKey) != 32 && len(privateKey) != crypto.EdPrivateKeyLength {
		return nil, fmt.Errorf("%w: private key must have length of 32 or 64 but received %d", codec.ErrInvalidArgument, len(privateKey))
	}
	publicKey := crypto.GetEdPublicKey(privateKey)
	public, err := NewPublicAccount(publicKey, network)
	if err != nil {
		return nil, err
	}
	full := privateKey
	if len(privateKey) == 32 {
		full = append(codec.Copy(privateKey), publicKey...)
	}
	return &Account{PublicAccount: *public, privateKey: codec.Copy(full)}, nil
}

// NewAccountFromPassphrase derives a deterministic account from a passphrase.
func NewAccountFromPassphrase(passphrase string, network NetworkType) (*Account, error) {
	_, privateKey, err := crypto.GetKeys(passphrase)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(privateKey, network)
}

// NewAccountFromRecoveryPhrase derives an account from a bip39 mnemonic and
// a SLIP-10 derivation path.
func NewAccountFromRecoveryPhrase(recoveryPhrase, path string, network NetworkType) (*Account, error) {
	privateKey, err := crypto.DeriveEd25519Key(recoveryPhrase, path)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(privateKey, network)
}

// NewRandomAccount generates a fresh account.
func NewRandomAccount(network NetworkType) (*Account, error) {
	return NewAccountFromPrivateKey(crypto.RandomBytes(32), network)
}

// Sign signs arbitrary bytes with the account's key.
func (a *Account) Sign(message []byte) (codec.Hex, error) {
	return crypto.Sign(a.privateKey, message)
}
