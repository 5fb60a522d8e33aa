package model

import (
	"encoding/binary"
	"sort"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
)

// MosaicID is an 8 byte mosaic identifier. The high bit is always clear,
// distinguishing it from a namespace alias in the shared encoded form.
type MosaicID uint64

// NewMosaicIDFromNonce derives the mosaic id a definition transaction with
// the given nonce and owner will claim.
func NewMosaicIDFromNonce(nonce uint32, owner Address) MosaicID {
	nonceBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(nonceBytes, nonce)
	digest := crypto.Sha3256(nonceBytes, owner.raw[:])
	return MosaicID(binary.LittleEndian.Uint64(digest[:8]) &^ namespaceFlag)
}

// NewMosaicIDFromHex parses the 16 digit hex form.
func NewMosaicIDFromHex(hexID string) (MosaicID, error) {
	val, err := codec.Uint64FromHex(hexID)
	if err != nil {
		return 0, err
	}
	return MosaicID(val), nil
}

// ID returns the raw 8 byte value used on the wire.
func (m MosaicID) ID() uint64 {
	return uint64(m)
}

// Hex returns the 16 digit hex form.
func (m MosaicID) Hex() string {
	return codec.Uint64ToHex(uint64(m))
}

func (m MosaicID) String() string {
	return m.Hex()
}

func (m MosaicID) isUnresolvedMosaicID() {}

// Mosaic is a quantity of a fungible asset. The id may be a concrete
// MosaicID or a NamespaceID alias until resolved.
type Mosaic struct {
	ID     UnresolvedMosaicID
	Amount uint64
}

// NewMosaic pairs an id with an amount.
func NewMosaic(id UnresolvedMosaicID, amount uint64) Mosaic {
	return Mosaic{ID: id, Amount: amount}
}

// MosaicEntrySize is the wire width of one mosaic: 8 byte id + 8 byte amount.
const MosaicEntrySize = 16

// SortMosaics returns a copy ordered by raw id ascending, the canonical wire
// order the chain validates.
func SortMosaics(mosaics []Mosaic) []Mosaic {
	sorted := make([]Mosaic, len(mosaics))
	copy(sorted, mosaics)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID.ID() < sorted[j].ID.ID()
	})
	return sorted
}
