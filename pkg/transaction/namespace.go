package transaction

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// NamespaceRegistrationType selects root rental or child claiming.
type NamespaceRegistrationType uint8

const (
	NamespaceRegistrationRoot  NamespaceRegistrationType = 0
	NamespaceRegistrationChild NamespaceRegistrationType = 1
)

// AliasAction links or unlinks an alias.
type AliasAction uint8

const (
	AliasUnlink AliasAction = 0
	AliasLink   AliasAction = 1
)

// NamespaceRegistrationTransaction rents a root namespace or claims a child
// under an existing parent.
type NamespaceRegistrationTransaction struct {
	TransactionHeader
	RegistrationType NamespaceRegistrationType
	// Duration is the rental block count; root registrations only.
	Duration uint64
	// ParentID is set for child registrations only.
	ParentID model.NamespaceID
	ID       model.NamespaceID
	Name     string
}

// NewRootNamespaceRegistrationTransaction rents a root namespace.
func NewRootNamespaceRegistrationTransaction(
	name string,
	duration uint64,
	deadline model.Deadline,
	network model.NetworkType,
) (*NamespaceRegistrationTransaction, error) {
	id, err := model.NewNamespaceIDFromName(name)
	if err != nil {
		return nil, err
	}
	return &NamespaceRegistrationTransaction{
		TransactionHeader: TransactionHeader{Type: TypeNamespaceRegistration, Version: 1, Network: network, Deadline: deadline},
		RegistrationType:  NamespaceRegistrationRoot,
		Duration:          duration,
		ID:                id,
		Name:              name,
	}, nil
}

// NewChildNamespaceRegistrationTransaction claims a sub namespace.
func NewChildNamespaceRegistrationTransaction(
	parent model.NamespaceID,
	name string,
	deadline model.Deadline,
	network model.NetworkType,
) (*NamespaceRegistrationTransaction, error) {
	id, err := model.DeriveChildNamespaceID(parent, name)
	if err != nil {
		return nil, err
	}
	return &NamespaceRegistrationTransaction{
		TransactionHeader: TransactionHeader{Type: TypeNamespaceRegistration, Version: 1, Network: network, Deadline: deadline},
		RegistrationType:  NamespaceRegistrationChild,
		ParentID:          parent,
		ID:                id,
		Name:              name,
	}, nil
}

func (tx *NamespaceRegistrationTransaction) bodySize() int {
	// duration or parent id share one 8 byte slot; the name length is
	// measured in bytes, not characters
	return 8 + 8 + 1 + 1 + len(tx.Name)
}

func (tx *NamespaceRegistrationTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *NamespaceRegistrationTransaction) writeBody(writer *codec.Writer) error {
	if tx.RegistrationType == NamespaceRegistrationRoot {
		writer.WriteUInt64(tx.Duration)
	} else {
		writer.WriteUInt64(uint64(tx.ParentID))
	}
	writer.WriteUInt64(uint64(tx.ID))
	writer.WriteUInt8(uint8(tx.RegistrationType))
	writer.WriteUInt8(uint8(len(tx.Name)))
	writer.WriteBytes([]byte(tx.Name))
	return nil
}

func parseNamespaceRegistrationBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	durationOrParent, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	id, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	registrationType, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	if registrationType > uint8(NamespaceRegistrationChild) {
		return nil, fmt.Errorf("%w: unknown namespace registration type %d", codec.ErrInvalidData, registrationType)
	}
	nameSize, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	name, err := reader.ReadBytes(int(nameSize))
	if err != nil {
		return nil, err
	}
	tx := &NamespaceRegistrationTransaction{
		TransactionHeader: header,
		RegistrationType:  NamespaceRegistrationType(registrationType),
		ID:                model.NamespaceID(id),
		Name:              string(name),
	}
	if tx.RegistrationType == NamespaceRegistrationRoot {
		tx.Duration = durationOrParent
	} else {
		tx.ParentID = model.NamespaceID(durationOrParent)
	}
	return tx, nil
}

func (tx *NamespaceRegistrationTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *NamespaceRegistrationTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *NamespaceRegistrationTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

// ResolveAliases is an identity transform; registrations carry no alias
// capable field.
func (tx *NamespaceRegistrationTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *NamespaceRegistrationTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}

// AddressAliasTransaction links or unlinks a namespace to an address.
type AddressAliasTransaction struct {
	TransactionHeader
	NamespaceID model.NamespaceID
	Address     model.Address
	Action      AliasAction
}

// NewAddressAliasTransaction creates an address alias link or unlink.
func NewAddressAliasTransaction(
	action AliasAction,
	namespaceID model.NamespaceID,
	address model.Address,
	deadline model.Deadline,
	network model.NetworkType,
) *AddressAliasTransaction {
	return &AddressAliasTransaction{
		TransactionHeader: TransactionHeader{Type: TypeAddressAlias, Version: 1, Network: network, Deadline: deadline},
		NamespaceID:       namespaceID,
		Address:           address,
		Action:            action,
	}
}

func (tx *AddressAliasTransaction) bodySize() int {
	return 8 + model.AddressSize + 1
}

func (tx *AddressAliasTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *AddressAliasTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt64(uint64(tx.NamespaceID))
	writer.WriteBytes(tx.Address.Bytes())
	writer.WriteUInt8(uint8(tx.Action))
	return nil
}

func parseAddressAliasBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	namespaceID, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	addressBytes, err := reader.ReadBytes(model.AddressSize)
	if err != nil {
		return nil, err
	}
	address, err := model.NewAddressFromRaw(addressBytes)
	if err != nil {
		return nil, err
	}
	action, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	return &AddressAliasTransaction{
		TransactionHeader: header,
		NamespaceID:       model.NamespaceID(namespaceID),
		Address:           address,
		Action:            AliasAction(action),
	}, nil
}

func (tx *AddressAliasTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *AddressAliasTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *AddressAliasTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *AddressAliasTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *AddressAliasTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address) || tx.Address.Equal(address)
}

// MosaicAliasTransaction links or unlinks a namespace to a mosaic id.
type MosaicAliasTransaction struct {
	TransactionHeader
	NamespaceID model.NamespaceID
	MosaicID    model.MosaicID
	Action      AliasAction
}

// NewMosaicAliasTransaction creates a mosaic alias link or unlink.
func NewMosaicAliasTransaction(
	action AliasAction,
	namespaceID model.NamespaceID,
	mosaicID model.MosaicID,
	deadline model.Deadline,
	network model.NetworkType,
) *MosaicAliasTransaction {
	return &MosaicAliasTransaction{
		TransactionHeader: TransactionHeader{Type: TypeMosaicAlias, Version: 1, Network: network, Deadline: deadline},
		NamespaceID:       namespaceID,
		MosaicID:          mosaicID,
		Action:            action,
	}
}

func (tx *MosaicAliasTransaction) bodySize() int {
	return 8 + 8 + 1
}

func (tx *MosaicAliasTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *MosaicAliasTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt64(uint64(tx.NamespaceID))
	writer.WriteUInt64(uint64(tx.MosaicID))
	writer.WriteUInt8(uint8(tx.Action))
	return nil
}

func parseMosaicAliasBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	namespaceID, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	mosaicID, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	action, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	return &MosaicAliasTransaction{
		TransactionHeader: header,
		NamespaceID:       model.NamespaceID(namespaceID),
		MosaicID:          model.MosaicID(mosaicID),
		Action:            AliasAction(action),
	}, nil
}

func (tx *MosaicAliasTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *MosaicAliasTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *MosaicAliasTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

func (tx *MosaicAliasTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *MosaicAliasTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}
