package model

import (
	"encoding/binary"
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
)

// UnresolvedAddress is either a concrete Address or a NamespaceID alias
// standing in for one until resolved against block receipts. The set of
// implementations is closed.
type UnresolvedAddress interface {
	isUnresolvedAddress()
}

// UnresolvedMosaicID is either a concrete MosaicID or a NamespaceID alias.
// The set of implementations is closed.
type UnresolvedMosaicID interface {
	ID() uint64
	isUnresolvedMosaicID()
}

func (a Address) isUnresolvedAddress() {}

// EncodeUnresolvedAddress produces the 25 byte wire form. A concrete address
// encodes as itself; an alias encodes as the network byte with the low bit
// set, the 8 byte namespace id and zero padding.
func EncodeUnresolvedAddress(unresolved UnresolvedAddress, network NetworkType) ([]byte, error) {
	switch v := unresolved.(type) {
	case Address:
		return v.Bytes(), nil
	case NamespaceID:
		encoded := make([]byte, AddressSize)
		encoded[0] = byte(network) | 0x01
		binary.LittleEndian.PutUint64(encoded[1:9], uint64(v))
		return encoded, nil
	}
	return nil, fmt.Errorf("%w: unsupported unresolved address %T", codec.ErrInvalidArgument, unresolved)
}

// DecodeUnresolvedAddress is the inverse of EncodeUnresolvedAddress. It
// dispatches on the alias tag bit of the leading byte.
func DecodeUnresolvedAddress(data []byte) (UnresolvedAddress, error) {
	if len(data) != AddressSize {
		return nil, fmt.Errorf("%w: unresolved address must have length of %d but received %d", codec.ErrInvalidArgument, AddressSize, len(data))
	}
	if data[0]&0x01 == 0x01 {
		return NamespaceID(binary.LittleEndian.Uint64(data[1:9])), nil
	}
	return NewAddressFromRaw(data)
}

// DecodeUnresolvedMosaicID interprets an 8 byte wire id. A set high bit tags
// a namespace alias.
func DecodeUnresolvedMosaicID(value uint64) UnresolvedMosaicID {
	if value&namespaceFlag != 0 {
		return NamespaceID(value)
	}
	return MosaicID(value)
}
