package transaction

import (
	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/receipt"
)

// MultisigAccountModificationTransaction converts an account to multisig or
// changes its cosignatory set and approval thresholds. Cosignatories may be
// referenced through address aliases.
type MultisigAccountModificationTransaction struct {
	TransactionHeader
	MinRemovalDelta  int8
	MinApprovalDelta int8
	AddressAdditions []model.UnresolvedAddress
	AddressDeletions []model.UnresolvedAddress
}

// NewMultisigAccountModificationTransaction creates a multisig modification.
func NewMultisigAccountModificationTransaction(
	minApprovalDelta int8,
	minRemovalDelta int8,
	additions []model.UnresolvedAddress,
	deletions []model.UnresolvedAddress,
	deadline model.Deadline,
	network model.NetworkType,
) *MultisigAccountModificationTransaction {
	return &MultisigAccountModificationTransaction{
		TransactionHeader: TransactionHeader{Type: TypeMultisigAccountModification, Version: 1, Network: network, Deadline: deadline},
		MinRemovalDelta:   minRemovalDelta,
		MinApprovalDelta:  minApprovalDelta,
		AddressAdditions:  additions,
		AddressDeletions:  deletions,
	}
}

func (tx *MultisigAccountModificationTransaction) bodySize() int {
	return 1 + 1 + 1 + 1 + model.AddressSize*(len(tx.AddressAdditions)+len(tx.AddressDeletions))
}

func (tx *MultisigAccountModificationTransaction) Size() int {
	return HeaderSize + tx.bodySize()
}

func (tx *MultisigAccountModificationTransaction) writeBody(writer *codec.Writer) error {
	writer.WriteUInt8(uint8(tx.MinRemovalDelta))
	writer.WriteUInt8(uint8(tx.MinApprovalDelta))
	writer.WriteUInt8(uint8(len(tx.AddressAdditions)))
	writer.WriteUInt8(uint8(len(tx.AddressDeletions)))
	for _, addition := range tx.AddressAdditions {
		encoded, err := model.EncodeUnresolvedAddress(addition, tx.Network)
		if err != nil {
			return err
		}
		writer.WriteBytes(encoded)
	}
	for _, deletion := range tx.AddressDeletions {
		encoded, err := model.EncodeUnresolvedAddress(deletion, tx.Network)
		if err != nil {
			return err
		}
		writer.WriteBytes(encoded)
	}
	return nil
}

func parseMultisigAccountModificationBody(reader *codec.Reader, header TransactionHeader) (Transaction, error) {
	minRemovalDelta, err := reader.ReadUInt8()
	if err != nil {
		return nil, err
	}
	minApprovalDelta, err := reader.ReadUInt8()
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
		result := make([]model.UnresolvedAddress, count)
		for i := range result {
			raw, err := reader.ReadBytes(model.AddressSize)
			if err != nil {
				return nil, err
			}
			if result[i], err = model.DecodeUnresolvedAddress(raw); err != nil {
				return nil, err
			}
		}
		return result, nil
	}
	additions, err := readAddresses(additionsCount)
	if err != nil {
		return nil, err
	}
	deletions, err := readAddresses(deletionsCount)
	if err != nil {
		return nil, err
	}
	return &MultisigAccountModificationTransaction{
		TransactionHeader: header,
		MinRemovalDelta:   int8(minRemovalDelta),
		MinApprovalDelta:  int8(minApprovalDelta),
		AddressAdditions:  additions,
		AddressDeletions:  deletions,
	}, nil
}

func (tx *MultisigAccountModificationTransaction) Serialize() ([]byte, error) {
	return serialize(tx)
}

func (tx *MultisigAccountModificationTransaction) SerializeEmbedded() ([]byte, error) {
	return serializeEmbedded(tx)
}

func (tx *MultisigAccountModificationTransaction) clone() Transaction {
	copied := *tx
	return &copied
}

// ResolveAliases resolves every aliased cosignatory address.
func (tx *MultisigAccountModificationTransaction) ResolveAliases(statement *receipt.Statement, aggregateIndex uint32) (Transaction, error) {
	height, source, err := tx.resolutionSource(aggregateIndex)
	if err != nil {
		return nil, err
	}
	resolve := func(addresses []model.UnresolvedAddress) ([]model.UnresolvedAddress, error) {
		resolved := make([]model.UnresolvedAddress, len(addresses))
		for i, address := range addresses {
			concrete, err := statement.ResolveAddress(address, height, source)
			if err != nil {
				return nil, err
			}
			resolved[i] = concrete
		}
		return resolved, nil
	}
	additions, err := resolve(tx.AddressAdditions)
	if err != nil {
		return nil, err
	}
	deletions, err := resolve(tx.AddressDeletions)
	if err != nil {
		return nil, err
	}
	copied := *tx
	copied.AddressAdditions = additions
	copied.AddressDeletions = deletions
	return &copied, nil
}

func (tx *MultisigAccountModificationTransaction) ShouldNotifyAccount(address model.Address, aliases []model.NamespaceID) bool {
	if tx.signerNotified(address) {
		return true
	}
	matches := func(candidates []model.UnresolvedAddress) bool {
		for _, candidate := range candidates {
			switch v := candidate.(type) {
			case model.Address:
				if v.Equal(address) {
					return true
				}
			case model.NamespaceID:
				for _, alias := range aliases {
					if alias == v {
						return true
					}
				}
			}
		}
		return false
	}
	return matches(tx.AddressAdditions) || matches(tx.AddressDeletions)
}
