package codec

import (
	"bytes"
	"encoding/base32"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// base32Codec is RFC 4648 without padding. A 25 byte address is exactly 200
// bits and therefore maps to 40 characters without a remainder.
var base32Codec = base32.StdEncoding.WithPadding(base32.NoPadding)

// Hex is a byte slice which marshals to and from a JSON hex string.
type Hex []byte

func (h *Hex) UnmarshalJSON(b []byte) error {
	str := ""
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	res, err := hex.DecodeString(str)
	if err != nil {
		return err
	}
	*h = res
	return nil
}

func (h Hex) String() string {
	return hex.EncodeToString(h)
}

func (h Hex) MarshalJSON() ([]byte, error) {
	str := hex.EncodeToString(h)
	return json.Marshal(str)
}

// Equal returns true if both slices hold the same bytes.
func (h Hex) Equal(other Hex) bool {
	return bytes.Equal(h, other)
}

// HexArrayToBytesArray converts []Hex to [][]byte for crypto helpers.
func HexArrayToBytesArray(val []Hex) [][]byte {
	converted := make([][]byte, len(val))
	for i, v := range val {
		converted[i] = v
	}
	return converted
}

// FromHex decodes a hex string, failing on odd length or invalid characters.
func FromHex(val string) ([]byte, error) {
	res, err := hex.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return res, nil
}

// MustFromHex decodes a hex literal and panics on failure. Only for constants.
func MustFromHex(val string) []byte {
	res, err := FromHex(val)
	if err != nil {
		panic(err)
	}
	return res
}

// BytesToBase32 converts raw address bytes to the plain base32 form.
func BytesToBase32(val []byte) string {
	return base32Codec.EncodeToString(val)
}

// Base32ToBytes converts a plain base32 string back to raw address bytes.
func Base32ToBytes(val string) ([]byte, error) {
	res, err := base32Codec.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return res, nil
}

// Copy returns a detached copy of the given bytes.
func Copy(val []byte) []byte {
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied
}
