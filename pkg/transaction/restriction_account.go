package transaction

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// AccountRestrictionFlags combines the restricted value kind with the
// direction and block modifiers.
type AccountRestrictionFlags uint16

const (
	AccountRestrictionAddress         AccountRestrictionFlags = 0x0001
	AccountRestrictionMosaic          AccountRestrictionFlags = 0x0002
	AccountRestrictionTransactionType AccountRestrictionFlags = 0x0004
	AccountRestrictionOutgoing        AccountRestrictionFlags = 0x4000
	AccountRestrictionBlock           AccountRestrictionFlags = 0x8000
)

// valueKind strips the direction and block modifiers.
func (f AccountRestrictionFlags) valueKind() AccountRestrictionFlags {
	return f &^ (AccountRestrictionOutgoing | AccountRestrictionBlock)
}

// AccountAddressRestrictionTransaction allows or blocks incoming and outgoing
// transactions involving the listed addresses.
type AccountAddressRestrictionTransaction struct {
	TransactionHeader
	RestrictionFlags AccountRestrictionFlags
	Additions        []model.UnresolvedAddress
	Deletions        []model.UnresolvedAddress
}

// NewAccountAddressRestrictionTransaction creates an account address
// restriction modification.
func NewAccountAddressRestrictionTransaction(
	flags AccountRestrictionFlags,
	additions []model.UnresolvedAddress,
	deletions []model.UnresolvedAddress,
	deadline model.Deadline,
	network model.NetworkType,
) (*AccountAddressRestrictionTransaction, error) {
	if flags.valueKind() != AccountRestrictionAddress {
		return nil, fmt.Errorf("%w: flags %#04x do not restrict addresses", codec.ErrInvalidArgument, uint16(flags))
	}
	return &AccountAddressRestrictionTransaction{
		TransactionHeader: TransactionHeader{Type: TypeAccountAddressRestriction, Version: 1, Network: network, Deadline: deadline},
		RestrictionFlags:  flags,
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func (tx *AccountAddressRestrictionTransaction) bodySize() int {
	return 2 + 1 + 1 + model.AddressSize*(len(tx.Additions)+len(tx.Deletions))
}

func (tx *AccountAddressRestrictionTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *AccountAddressRestrictionTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt16(uint16(tx.RestrictionFlags))
	writer.WriteUInt8(uint8(len(tx.Additions)))
	writer.WriteUInt8(uint8(len(tx.Deletions)))
	for _, address := range append(append([]model.UnresolvedAddress{}, tx.Additions...), tx.Deletions...) {
		encoded, err := model.EncodeUnresolvedAddress(address, tx.Network)
		if err != nil {
			return err
		}
		writer.WriteBytes(encoded)
	}
	return nil
}

func parseAccountAddressRestrictionBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	flags, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	additionsCount, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	deletionsCount, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	readAddresses := func(count uint8) ([]model.UnresolvedAddress, error) {
		addresses := make([]model.UnresolvedAddress, 0, count)
		for i := 0; i < int(count); i++ {
			raw, err := reader.ReadBytes(model.AddressSize)
			if err != nil {
				return nil, err
			}
			address, err := model.DecodeUnresolvedAddress(raw)
			if err != nil {
				return nil, err
			}
			addresses = append(addresses, address)
		}
		return addresses, nil
	}
	additions, err := readAddresses(additionsCount)
	if err != nil {
		return nil, err
	}
	deletions, err := readAddresses(deletionsCount)
	if err != nil {
		return nil, err
	}
	return &AccountAddressRestrictionTransaction{
		TransactionHeader: header,
		RestrictionFlags:  AccountRestrictionFlags(flags),
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func (tx *AccountAddressRestrictionTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *AccountAddressRestrictionTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *AccountAddressRestrictionTransaction) clone() Transaction {
	copied := *tx
	copied.Additions = append([]model.UnresolvedAddress{}, tx.Additions...)
	copied.Deletions = append([]model.UnresolvedAddress{}, tx.Deletions...)
	return &copied
}

func (tx *AccountAddressRestrictionTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	resolveAll := func(addresses []model.UnresolvedAddress) ([]model.UnresolvedAddress, error) {
		resolved := make([]model.UnresolvedAddress, 0, len(addresses))
		for _, address := range addresses {
			concrete, err := statement.ResolveAddress(address, height, source)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, concrete)
		}
		return resolved, nil
	}
	additions, err := resolveAll(tx.Additions)
	if err != nil {
		return nil, err
	}
	deletions, err := resolveAll(tx.Deletions)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.Additions = additions
	copied.Deletions = deletions
	return &copied, nil
}

func (tx *AccountAddressRestrictionTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	for _, candidate := range append(append([]model.UnresolvedAddress{}, tx.Additions...), tx.Deletions...) {
		switch value := candidate.(type) {
		case model.Address:
			if value.Equal(address) {
				return true
			}
		case model.NamespaceID:
			for _, alias := range aliases {
				if alias == value {
					return true
				}
			}
		}
	}
	return false
}

// AccountMosaicRestrictionTransaction allows or blocks incoming transfers of
// the listed mosaics.
type AccountMosaicRestrictionTransaction struct {
	TransactionHeader
	RestrictionFlags AccountRestrictionFlags
	Additions        []model.UnresolvedMosaicID
	Deletions        []model.UnresolvedMosaicID
}

// NewAccountMosaicRestrictionTransaction creates an account mosaic
// restriction modification.
func NewAccountMosaicRestrictionTransaction(
	flags AccountRestrictionFlags,
	additions []model.UnresolvedMosaicID,
	deletions []model.UnresolvedMosaicID,
	deadline model.Deadline,
	network model.NetworkType,
) (*AccountMosaicRestrictionTransaction, error) {
	if flags.valueKind() != AccountRestrictionMosaic {
		return nil, fmt.Errorf("%w: flags %#04x do not restrict mosaics", codec.ErrInvalidArgument, uint16(flags))
	}
	return &AccountMosaicRestrictionTransaction{
		TransactionHeader: TransactionHeader{Type: TypeAccountMosaicRestriction, Version: 1, Network: network, Deadline: deadline},
		RestrictionFlags:  flags,
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func (tx *AccountMosaicRestrictionTransaction) bodySize() int {
	return 2 + 1 + 1 + 8*(len(tx.Additions)+len(tx.Deletions))
}

func (tx *AccountMosaicRestrictionTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *AccountMosaicRestrictionTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt16(uint16(tx.RestrictionFlags))
	writer.WriteUInt8(uint8(len(tx.Additions)))
	writer.WriteUInt8(uint8(len(tx.Deletions)))
	for _, id := range tx.Additions {
		writer.WriteUInt64(id.ID())
	}
	for _, id := range tx.Deletions {
		writer.WriteUInt64(id.ID())
	}
	return nil
}

func parseAccountMosaicRestrictionBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	flags, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	additionsCount, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	deletionsCount, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	readIDs := func(count uint8) ([]model.UnresolvedMosaicID, error) {
		ids := make([]model.UnresolvedMosaicID, 0, count)
		for i := 0; i < int(count); i++ {
			id, err := reader.ReadUInt64()
			if err != nil {
				return nil, err
			}
			ids = append(ids, model.DecodeUnresolvedMosaicID(id))
		}
		return ids, nil
	}
	additions, err := readIDs(additionsCount)
	if err != nil {
		return nil, err
	}
	deletions, err := readIDs(deletionsCount)
	if err != nil {
		return nil, err
	}
	return &AccountMosaicRestrictionTransaction{
		TransactionHeader: header,
		RestrictionFlags:  AccountRestrictionFlags(flags),
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func (tx *AccountMosaicRestrictionTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *AccountMosaicRestrictionTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *AccountMosaicRestrictionTransaction) clone() Transaction {
	copied := *tx
	copied.Additions = append([]model.UnresolvedMosaicID{}, tx.Additions...)
	copied.Deletions = append([]model.UnresolvedMosaicID{}, tx.Deletions...)
	return &copied
}

func (tx *AccountMosaicRestrictionTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	resolveAll := func(ids []model.UnresolvedMosaicID) ([]model.UnresolvedMosaicID, error) {
		resolved := make([]model.UnresolvedMosaicID, 0, len(ids))
		for _, id := range ids {
			concrete, err := statement.ResolveMosaicID(id, height, source)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, concrete)
		}
		return resolved, nil
	}
	additions, err := resolveAll(tx.Additions)
	if err != nil {
		return nil, err
	}
	deletions, err := resolveAll(tx.Deletions)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.Additions = additions
	copied.Deletions = deletions
	return &copied, nil
}

func (tx *AccountMosaicRestrictionTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}

// AccountOperationRestrictionTransaction allows or blocks announcing
// transactions of the listed types.
type AccountOperationRestrictionTransaction struct {
	TransactionHeader
	RestrictionFlags AccountRestrictionFlags
	Additions        []TransactionType
	Deletions        []TransactionType
}

// NewAccountOperationRestrictionTransaction creates an account operation
// restriction modification.
func NewAccountOperationRestrictionTransaction(
	flags AccountRestrictionFlags,
	additions []TransactionType,
	deletions []TransactionType,
	deadline model.Deadline,
	network model.NetworkType,
) (*AccountOperationRestrictionTransaction, error) {
	if flags.valueKind() != AccountRestrictionTransactionType {
		return nil, fmt.Errorf("%w: flags %#04x do not restrict transaction types", codec.ErrInvalidArgument, uint16(flags))
	}
	return &AccountOperationRestrictionTransaction{
		TransactionHeader: TransactionHeader{Type: TypeAccountOperationRestriction, Version: 1, Network: network, Deadline: deadline},
		RestrictionFlags:  flags,
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func (tx *AccountOperationRestrictionTransaction) bodySize() int {
	return 2 + 1 + 1 + 2*(len(tx.Additions)+len(tx.Deletions))
}

func (tx *AccountOperationRestrictionTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *AccountOperationRestrictionTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt16(uint16(tx.RestrictionFlags))
	writer.WriteUInt8(uint8(len(tx.Additions)))
	writer.WriteUInt8(uint8(len(tx.Deletions)))
	for _, txType := range tx.Additions {
		writer.WriteUInt16(uint16(txType))
	}
	for _, txType := range tx.Deletions {
		writer.WriteUInt16(uint16(txType))
	}
	return nil
}

func parseAccountOperationRestrictionBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	flags, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	additionsCount, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	deletionsCount, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	readTypes := func(count uint8) ([]TransactionType, error) {
		types := make([]TransactionType, 0, count)
		for i := 0; i < int(count); i++ {
			value, err := reader.ReadUInt16()
			if err != nil {
				return nil, err
			}
			txType, err := TransactionTypeFromValue(value)
			if err != nil {
				return nil, err
			}
			types = append(types, txType)
		}
		return types, nil
	}
	additions, err := readTypes(additionsCount)
	if err != nil {
		return nil, err
	}
	deletions, err := readTypes(deletionsCount)
	if err != nil {
		return nil, err
	}
	return &AccountOperationRestrictionTransaction{
		TransactionHeader: header,
		RestrictionFlags:  AccountRestrictionFlags(flags),
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func (tx *AccountOperationRestrictionTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *AccountOperationRestrictionTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *AccountOperationRestrictionTransaction) clone() Transaction {
	copied := *tx
	copied.Additions = append([]TransactionType{}, tx.Additions...)
	copied.Deletions = append([]TransactionType{}, tx.Deletions...)
	return &copied
}

func (tx *AccountOperationRestrictionTransaction) ResolveAliases(*receipt.Statement, uint32) (Transaction, error) {
	return tx.clone(), nil
}

func (tx *AccountOperationRestrictionTransaction) ShouldNotifyAccount(address model.Address, _ []model.NamespaceID) bool {
	return tx.signerNotified(address)
}
