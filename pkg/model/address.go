package model

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
)

const (
	// AddressSize is the raw address width: network byte, 20 byte account
	// hash and 4 byte checksum.
	AddressSize = 25
	// AddressPlainSize is the base32 textual width of a raw address.
	AddressPlainSize = 40
	// AddressEncodedSize is the hex textual width of a raw address.
	AddressEncodedSize = 50

	addressChecksumSize = 4
)

// Address is an immutable 25 byte account address. The zero value is not a
// valid address; construct through one of the NewAddress functions.
type Address struct {
	raw [AddressSize]byte
}

// NewAddressFromPublicKey derives the address owned by a public key on the
// given network.
func NewAddressFromPublicKey(publicKey []byte, network NetworkType) (Address, error) {
	if len(publicKey) != crypto.EdPublicKeyLength {
		return Address{}, fmt.Errorf("%w: public key must have length of %d but received %d", codec.ErrInvalidArgument, crypto.EdPublicKeyLength, len(publicKey))
	}
	var raw [AddressSize]byte
	raw[0] = byte(network)
	copy(raw[1:21], crypto.AddressHash(publicKey))
	copy(raw[21:], addressChecksum(raw[:21]))
	return Address{raw: raw}, nil
}

// NewAddressFromRaw validates raw address bytes including the checksum.
func NewAddressFromRaw(data []byte) (Address, error) {
	if len(data) != AddressSize {
		return Address{}, fmt.Errorf("%w: address must have length of %d but received %d", codec.ErrInvalidArgument, AddressSize, len(data))
	}
	if _, err := NetworkTypeFromValue(data[0]); err != nil {
		return Address{}, fmt.Errorf("%w: %v", codec.ErrInvalidArgument, err)
	}
	if !bytes.Equal(data[21:], addressChecksum(data[:21])) {
		return Address{}, fmt.Errorf("%w: address checksum mismatch", codec.ErrInvalidArgument)
	}
	var raw [AddressSize]byte
	copy(raw[:], data)
	return Address{raw: raw}, nil
}

// NewAddressFromPlain parses the base32 human readable form.
func NewAddressFromPlain(plain string) (Address, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(plain, "-", ""))
	if len(normalized) != AddressPlainSize {
		return Address{}, fmt.Errorf("%w: plain address must have length of %d but received %d", codec.ErrInvalidArgument, AddressPlainSize, len(normalized))
	}
	raw, err := codec.Base32ToBytes(normalized)
	if err != nil {
		return Address{}, err
	}
	return NewAddressFromRaw(raw)
}

// NewAddressFromEncoded parses the hex form.
func NewAddressFromEncoded(encoded string) (Address, error) {
	if len(encoded) != AddressEncodedSize {
		return Address{}, fmt.Errorf("%w: encoded address must have length of %d but received %d", codec.ErrInvalidArgument, AddressEncodedSize, len(encoded))
	}
	raw, err := codec.FromHex(encoded)
	if err != nil {
		return Address{}, err
	}
	return NewAddressFromRaw(raw)
}

func addressChecksum(body []byte) []byte {
	return crypto.Sha3256(body)[:addressChecksumSize]
}

// Bytes returns a detached copy of the raw address bytes.
func (a Address) Bytes() []byte {
	return codec.Copy(a.raw[:])
}

// Plain returns the base32 human readable form.
func (a Address) Plain() string {
	return codec.BytesToBase32(a.raw[:])
}

// Encoded returns the hex form. NewAddressFromEncoded(a.Encoded()) round
// trips exactly.
func (a Address) Encoded() string {
	return strings.ToUpper(codec.Hex(a.raw[:]).String())
}

// Network returns the network the address belongs to.
func (a Address) Network() NetworkType {
	return NetworkType(a.raw[0])
}

// Equal compares addresses structurally.
func (a Address) Equal(other Address) bool {
	return a.raw == other.raw
}

func (a Address) String() string {
	return a.Plain()
}

// MarshalJSON renders the plain form.
func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.Plain() + `"`), nil
}

// UnmarshalJSON accepts either the plain or the encoded form.
func (a *Address) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%w: address must be a JSON string", codec.ErrInvalidArgument)
	}
	str := string(b[1 : len(b)-1])
	var (
		addr Address
		err  error
	)
	if len(str) == AddressEncodedSize {
		addr, err = NewAddressFromEncoded(str)
	} else {
		addr, err = NewAddressFromPlain(str)
	}
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
