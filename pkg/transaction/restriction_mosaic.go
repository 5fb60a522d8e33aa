package transaction

import (
	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// MosaicRestrictionType is the comparison applied by a global mosaic
// restriction rule.
type MosaicRestrictionType uint8

const (
	MosaicRestrictionNone MosaicRestrictionType = 0
	MosaicRestrictionEq   MosaicRestrictionType = 1
	MosaicRestrictionNe   MosaicRestrictionType = 2
	MosaicRestrictionLt   MosaicRestrictionType = 3
	MosaicRestrictionLe   MosaicRestrictionType = 4
	MosaicRestrictionGt   MosaicRestrictionType = 5
	MosaicRestrictionGe   MosaicRestrictionType = 6
)

// MosaicAddressRestrictionTransaction sets the restriction value one account
// holds for a restriction key of a mosaic.
type MosaicAddressRestrictionTransaction struct {
	TransactionHeader
	MosaicID       model.UnresolvedMosaicID
	RestrictionKey uint64
	PreviousValue  uint64
	NewValue       uint64
	TargetAddress  model.UnresolvedAddress
}

// NewMosaicAddressRestrictionTransaction creates a per-account restriction
// value update. Use the sentinel previous value of max uint64 when the key
// has not been set for the target before.
func NewMosaicAddressRestrictionTransaction(
	mosaicID model.UnresolvedMosaicID,
	restrictionKey uint64,
	previousValue uint64,
	newValue uint64,
	target model.UnresolvedAddress,
	deadline model.Deadline,
	network model.NetworkType,
) *MosaicAddressRestrictionTransaction {
	return &MosaicAddressRestrictionTransaction{
		TransactionHeader: TransactionHeader{Type: TypeMosaicAddressRestriction, Version: 1, Network: network, Deadline: deadline},
		MosaicID:          mosaicID,
		RestrictionKey:    restrictionKey,
		PreviousValue:     previousValue,
		NewValue:          newValue,
		TargetAddress:     target,
	}
}

func (tx *MosaicAddressRestrictionTransaction) bodySize() int {
	return 8 + 8 + 8 + 8 + model.AddressSize
}

func (tx *MosaicAddressRestrictionTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *MosaicAddressRestrictionTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt64(tx.MosaicID.ID())
	writer.WriteUInt64(tx.RestrictionKey)
	writer.WriteUInt64(tx.PreviousValue)
	writer.WriteUInt64(tx.NewValue)
	target, err := model.EncodeUnresolvedAddress(tx.TargetAddress, tx.Network)
	if err != nil {
		return err
	}
	writer.WriteBytes(target)
	return nil
}

func parseMosaicAddressRestrictionBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	key, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	previous, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	next, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	targetBytes, err := reader.ReadBytes(model.AddressSize)
	if err != nil {
		return nil, err
	}
	target, err := model.DecodeUnresolvedAddress(targetBytes)
	if err != nil {
		return nil, err
	}
	return &MosaicAddressRestrictionTransaction{
		TransactionHeader: header,
		MosaicID:          model.DecodeUnresolvedMosaicID(id),
		RestrictionKey:    key,
		PreviousValue:     previous,
		NewValue:          next,
		TargetAddress:     target,
	}, nil
}

func (tx *MosaicAddressRestrictionTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *MosaicAddressRestrictionTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *MosaicAddressRestrictionTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *MosaicAddressRestrictionTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	id, err := statement.ResolveMosaicID(tx.MosaicID, height, source)
	if err != nil {
		return nil, err
	}
	target, err := statement.ResolveAddress(tx.TargetAddress, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.MosaicID = id
	copied.TargetAddress = target
	return &copied, nil
}

func (tx *MosaicAddressRestrictionTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	switch target := tx.TargetAddress.(type) {
	case model.Address:
		return target.Equal(address)
	case model.NamespaceID:
		for _, alias := range aliases {
			if alias == target {
				return true
			}
		}
	}
	return false
}

// MosaicGlobalRestrictionTransaction sets a network-wide restriction rule for
// a restriction key of a mosaic, optionally delegating the check to another
// mosaic's restriction value.
type MosaicGlobalRestrictionTransaction struct {
	TransactionHeader
	MosaicID                model.UnresolvedMosaicID
	ReferenceMosaicID       model.UnresolvedMosaicID
	RestrictionKey          uint64
	PreviousValue           uint64
	NewValue                uint64
	PreviousRestrictionType MosaicRestrictionType
	NewRestrictionType      MosaicRestrictionType
}

// NewMosaicGlobalRestrictionTransaction creates a global restriction rule
// update. Pass a zero reference mosaic id when the rule checks the restricted
// mosaic itself.
func NewMosaicGlobalRestrictionTransaction(
	mosaicID model.UnresolvedMosaicID,
	referenceMosaicID model.UnresolvedMosaicID,
	restrictionKey uint64,
	previousValue uint64,
	newValue uint64,
	previousType MosaicRestrictionType,
	newType MosaicRestrictionType,
	deadline model.Deadline,
	network model.NetworkType,
) *MosaicGlobalRestrictionTransaction {
	return &MosaicGlobalRestrictionTransaction{
		TransactionHeader:       TransactionHeader{Type: TypeMosaicGlobalRestriction, Version: 1, Network: network, Deadline: deadline},
		MosaicID:                mosaicID,
		ReferenceMosaicID:       referenceMosaicID,
		RestrictionKey:          restrictionKey,
		PreviousValue:           previousValue,
		NewValue:                newValue,
		PreviousRestrictionType: previousType,
		NewRestrictionType:      newType,
	}
}

func (tx *MosaicGlobalRestrictionTransaction) bodySize() int {
	return 8 + 8 + 8 + 8 + 8 + 1 + 1
}

func (tx *MosaicGlobalRestrictionTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *MosaicGlobalRestrictionTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt64(tx.MosaicID.ID())
	referenceID := uint64(0)
	if tx.ReferenceMosaicID != nil {
		referenceID = tx.ReferenceMosaicID.ID()
	}
	writer.WriteUInt64(referenceID)
	writer.WriteUInt64(tx.RestrictionKey)
	writer.WriteUInt64(tx.PreviousValue)
	writer.WriteUInt64(tx.NewValue)
	writer.WriteUInt8(uint8(tx.PreviousRestrictionType))
	writer.WriteUInt8(uint8(tx.NewRestrictionType))
	return nil
}

func parseMosaicGlobalRestrictionBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	referenceID, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	key, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	previous, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	next, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	previousType, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	nextType, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	return &MosaicGlobalRestrictionTransaction{
		TransactionHeader:       header,
		MosaicID:                model.DecodeUnresolvedMosaicID(id),
		ReferenceMosaicID:       model.DecodeUnresolvedMosaicID(referenceID),
		RestrictionKey:          key,
		PreviousValue:           previous,
		NewValue:                next,
		PreviousRestrictionType: MosaicRestrictionType(previousType),
		NewRestrictionType:      MosaicRestrictionType(nextType),
	}, nil
}

func (tx *MosaicGlobalRestrictionTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *MosaicGlobalRestrictionTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *MosaicGlobalRestrictionTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *MosaicGlobalRestrictionTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	id, err := statement.ResolveMosaicID(tx.MosaicID, height, source)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.MosaicID = id
	if tx.ReferenceMosaicID != nil && tx.ReferenceMosaicID.ID() != 0 {
		referenceID, err := statement.ResolveMosaicID(tx.ReferenceMosaicID, height, source)
		if err != nil {
			return nil, err
		}
		copied.ReferenceMosaicID = referenceID
	}
	return &copied, nil
}

func (tx *MosaicGlobalRestrictionTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}
