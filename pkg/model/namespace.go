package model

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
)

// namespaceFlag is the tagging bit distinguishing a namespace id from a
// mosaic id in the shared 8 byte encoded form.
const namespaceFlag = uint64(1) << 63

const maxNamespaceNameSize = 64

var namespaceNameRegex = regexp.MustCompile("^[a-z0-9][a-z0-9_-]*$")

// NamespaceID is an 8 byte namespace identifier. The high bit is always set.
type NamespaceID uint64

// NewNamespaceIDFromName derives the id of a dotted namespace path. The
// derivation must match the chain's claiming rules bit for bit: each level
// hashes the parent id (8 bytes little-endian) concatenated with the UTF-8
// name and keeps the low 8 digest bytes as a little-endian integer with the
// namespace bit forced on.
func NewNamespaceIDFromName(name string) (NamespaceID, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: namespace name must not be empty", codec.ErrInvalidArgument)
	}
	parent := uint64(0)
	for _, part := range strings.Split(name, ".") {
		if err := validateNamespaceName(part); err != nil {
			return 0, err
		}
		parent = deriveNamespaceID(parent, part)
	}
	return NamespaceID(parent), nil
}

// NewNamespaceIDFromHex parses the 16 digit hex form.
func NewNamespaceIDFromHex(hexID string) (NamespaceID, error) {
	val, err := codec.Uint64FromHex(hexID)
	if err != nil {
		return 0, err
	}
	return NamespaceID(val), nil
}

// DeriveChildNamespaceID derives a direct sub namespace id.
func DeriveChildNamespaceID(parent NamespaceID, name string) (NamespaceID, error) {
	if err := validateNamespaceName(name); err != nil {
		return 0, err
	}
	return NamespaceID(deriveNamespaceID(uint64(parent), name)), nil
}

func validateNamespaceName(name string) error {
	if len(name) == 0 || len(name) > maxNamespaceNameSize {
		return fmt.Errorf("%w: namespace name part must have byte length 1..%d but received %d", codec.ErrInvalidArgument, maxNamespaceNameSize, len(name))
	}
	if !namespaceNameRegex.MatchString(name) {
		return fmt.Errorf("%w: namespace name part %q contains invalid characters", codec.ErrInvalidArgument, name)
	}
	return nil
}

func deriveNamespaceID(parent uint64, name string) uint64 {
	parentBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(parentBytes, parent)
	digest := crypto.Sha3256(parentBytes, []byte(name))
	return binary.LittleEndian.Uint64(digest[:8]) | namespaceFlag
}

// ID returns the raw 8 byte value used on the wire.
func (n NamespaceID) ID() uint64 {
	return uint64(n)
}

// Hex returns the 16 digit hex form.
func (n NamespaceID) Hex() string {
	return codec.Uint64ToHex(uint64(n))
}

func (n NamespaceID) String() string {
	return n.Hex()
}

func (n NamespaceID) isUnresolvedAddress() {}

func (n NamespaceID) isUnresolvedMosaicID() {}
