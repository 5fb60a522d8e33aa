package transaction

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/crypto"
	"github.com/catapulthq/catapult-sdk/pkg/model"
)

// bodyParser reconstructs one kind from its body bytes. Every parser must
// consume exactly the body and leave trailing bytes to the caller's
// AssertConsumed check.
type bodyParser func(reader *codec.Reader, header TransactionHeader) (Transaction, error)

var bodyParsers map[TransactionType]bodyParser

// Populated in init: the aggregate parser calls back into FromPayload for its
// inner records, so a composite literal would form an initialization cycle.
func init() {
	bodyParsers = map[TransactionType]bodyParser{
		TypeTransfer:                    parseTransferBody,
		TypeNamespaceRegistration:       parseNamespaceRegistrationBody,
		TypeAddressAlias:                parseAddressAliasBody,
		TypeMosaicAlias:                 parseMosaicAliasBody,
		TypeMosaicDefinition:            parseMosaicDefinitionBody,
		TypeMosaicSupplyChange:          parseMosaicSupplyChangeBody,
		TypeMultisigAccountModification: parseMultisigAccountModificationBody,
		TypeAggregateComplete:           parseAggregateBody,
		TypeAggregateBonded:             parseAggregateBody,
		TypeHashLock:                    parseHashLockBody,
		TypeSecretLock:                  parseSecretLockBody,
		TypeSecretProof:                 parseSecretProofBody,
		TypeAccountAddressRestriction:   parseAccountAddressRestrictionBody,
		TypeAccountMosaicRestriction:    parseAccountMosaicRestrictionBody,
		TypeAccountOperationRestriction: parseAccountOperationRestrictionBody,
		TypeMosaicAddressRestriction:    parseMosaicAddressRestrictionBody,
		TypeMosaicGlobalRestriction:     parseMosaicGlobalRestrictionBody,
		TypeAccountMetadata:             parseAccountMetadataBody,
		TypeMosaicMetadata:              parseMosaicMetadataBody,
		TypeNamespaceMetadata:           parseNamespaceMetadataBody,
		TypeAccountKeyLink:              parseAccountKeyLinkTxBody,
		TypeNodeKeyLink:                 parseNodeKeyLinkTxBody,
		TypeVrfKeyLink:                  parseVrfKeyLinkTxBody,
		TypeVotingKeyLink:               parseVotingKeyLinkTxBody,
	}
}

// FromPayload reconstructs a transaction from its canonical byte form. With
// embedded set, the payload is read as an aggregate's inner record. The round
// trip with Serialize and SerializeEmbedded is exact: reconstructing a
// serialized transaction and serializing again yields identical bytes.
func FromPayload(payload []byte, embedded bool) (Transaction, error) {
	reader := codec.NewReader(payload)
	declaredSize, err := reader.ReadUInt32()
	if err != nil {
		return nil, err
	}
	if int(declaredSize) != len(payload) {
		return nil, fmt.Errorf("%w: payload declares %d bytes but holds %d", codec.ErrInvalidData, declaredSize, len(payload))
	}
	var signature []byte
	if !embedded {
		if signature, err = reader.ReadBytes(crypto.EdSignatureLength); err != nil {
			return nil, err
		}
	}
	signerKey, err := reader.ReadBytes(crypto.EdPublicKeyLength)
	if err != nil {
		return nil, err
	}
	versionValue, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	typeValue, err := reader.ReadUInt16()
	if err != nil {
		return nil, err
	}
	txType, err := TransactionTypeFromValue(typeValue)
	if err != nil {
		return nil, err
	}
	if embedded && txType.IsAggregate() {
		return nil, ErrCannotEmbed
	}
	network, err := model.NetworkTypeFromValue(uint8(versionValue))
	if err != nil {
		return nil, err
	}
	header := TransactionHeader{
		Type:    txType,
		Version: uint8(versionValue >> 8),
		Network: network,
	}
	if !embedded {
		if header.MaxFee, err = reader.ReadUInt64(); err != nil {
			return nil, err
		}
		deadline, err := reader.ReadUInt64()
		if err != nil {
			return nil, err
		}
		header.Deadline = model.Deadline{Value: deadline}
		// Zero filled placeholders mean the payload was never signed.
		if !isZeroFilled(signature) {
			header.Signature = signature
		}
	}
	if !isZeroFilled(signerKey) {
		if header.Signer, err = model.NewPublicAccount(signerKey, network); err != nil {
			return nil, err
		}
	}
	parser, exist := bodyParsers[txType]
	if !exist {
		return nil, fmt.Errorf("%w: 0x%04X", ErrUnknownTransactionType, typeValue)
	}
	tx, err := parser(reader, header)
	if err != nil {
		return nil, err
	}
	if err := reader.AssertConsumed(); err != nil {
		return nil, err
	}
	return tx, nil
}

// FromHex reconstructs a top level transaction from its hex payload form.
func FromHex(payload string) (Transaction, error) {
	data, err := codec.FromHex(payload)
	if err != nil {
		return nil, err
	}
	return FromPayload(data, false)
}
