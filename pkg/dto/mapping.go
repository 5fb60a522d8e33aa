package dto

import (
	"encoding/json"
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/transaction"
)

type bodyMapper func(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error)

var bodyMappers map[transaction.TransactionType]bodyMapper

// Populated in init: the aggregate mapper calls back into MapTransaction for
// its inner records, so a composite literal would form an initialization cycle.
func init() {
	bodyMappers = map[transaction.TransactionType]bodyMapper{
		transaction.TypeTransfer:                    mapTransfer,
		transaction.TypeNamespaceRegistration:       mapNamespaceRegistration,
		transaction.TypeAddressAlias:                mapAddressAlias,
		transaction.TypeMosaicAlias:                 mapMosaicAlias,
		transaction.TypeMosaicDefinition:            mapMosaicDefinition,
		transaction.TypeMosaicSupplyChange:          mapMosaicSupplyChange,
		transaction.TypeMultisigAccountModification: mapMultisigAccountModification,
		transaction.TypeAggregateComplete:           mapAggregate,
		transaction.TypeAggregateBonded:             mapAggregate,
		transaction.TypeHashLock:                    mapHashLock,
		transaction.TypeSecretLock:                  mapSecretLock,
		transaction.TypeSecretProof:                 mapSecretProof,
		transaction.TypeAccountAddressRestriction:   mapAccountAddressRestriction,
		transaction.TypeAccountMosaicRestriction:    mapAccountMosaicRestriction,
		transaction.TypeAccountOperationRestriction: mapAccountOperationRestriction,
		transaction.TypeMosaicAddressRestriction:    mapMosaicAddressRestriction,
		transaction.TypeMosaicGlobalRestriction:     mapMosaicGlobalRestriction,
		transaction.TypeAccountMetadata:             mapAccountMetadata,
		transaction.TypeMosaicMetadata:              mapMosaicMetadata,
		transaction.TypeNamespaceMetadata:           mapNamespaceMetadata,
		transaction.TypeAccountKeyLink:              mapKeyLink,
		transaction.TypeNodeKeyLink:                 mapKeyLink,
		transaction.TypeVrfKeyLink:                  mapKeyLink,
		transaction.TypeVotingKeyLink:               mapVotingKeyLink,
	}
}

func uint64OrZero(value *codec.UInt64Str) uint64 {
	if value == nil {
		return 0
	}
	return uint64(*value)
}

func uint8OrZero(value *uint8) uint8 {
	if value == nil {
		return 0
	}
	return *value
}

func mapTransfer(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	recipient, err := unresolvedAddressFromJSON(body.RecipientAddress)
	if err != nil {
		return nil, err
	}
	mosaics := make([]model.Mosaic, 0, len(body.Mosaics))
	for _, mosaic := range body.Mosaics {
		id, err := unresolvedMosaicIDFromJSON(mosaic.ID)
		if err != nil {
			return nil, err
		}
		mosaics = append(mosaics, model.NewMosaic(id, uint64(mosaic.Amount)))
	}
	message, err := model.NewRawMessage(body.Message)
	if err != nil {
		return nil, err
	}
	return &transaction.TransferTransaction{
		TransactionHeader: header,
		Recipient:         recipient,
		Mosaics:           model.SortMosaics(mosaics),
		Message:           message,
	}, nil
}

func mapNamespaceRegistration(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	id, err := codec.Uint64FromHex(body.ID)
	if err != nil {
		return nil, err
	}
	tx := &transaction.NamespaceRegistrationTransaction{
		TransactionHeader: header,
		RegistrationType:  transaction.NamespaceRegistrationType(uint8OrZero(body.RegistrationType)),
		ID:                model.NamespaceID(id),
		Name:              body.Name,
	}
	if tx.RegistrationType == transaction.NamespaceRegistrationRoot {
		tx.Duration = uint64OrZero(body.Duration)
	} else {
		parent, err := codec.Uint64FromHex(body.ParentID)
		if err != nil {
			return nil, err
		}
		tx.ParentID = model.NamespaceID(parent)
	}
	return tx, nil
}

func mapAddressAlias(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	namespaceID, err := codec.Uint64FromHex(body.NamespaceID)
	if err != nil {
		return nil, err
	}
	address, err := model.NewAddressFromRaw(body.Address)
	if err != nil {
		return nil, err
	}
	return &transaction.AddressAliasTransaction{
		TransactionHeader: header,
		NamespaceID:       model.NamespaceID(namespaceID),
		Address:           address,
		Action:            transaction.AliasAction(uint8OrZero(body.AliasAction)),
	}, nil
}

func mapMosaicAlias(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	namespaceID, err := codec.Uint64FromHex(body.NamespaceID)
	if err != nil {
		return nil, err
	}
	mosaicID, err := codec.Uint64FromHex(body.MosaicID)
	if err != nil {
		return nil, err
	}
	return &transaction.MosaicAliasTransaction{
		TransactionHeader: header,
		NamespaceID:       model.NamespaceID(namespaceID),
		MosaicID:          model.MosaicID(mosaicID),
		Action:            transaction.AliasAction(uint8OrZero(body.AliasAction)),
	}, nil
}

func mapMosaicDefinition(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	id, err := codec.Uint64FromHex(body.ID)
	if err != nil {
		return nil, err
	}
	nonce := uint32(0)
	if body.Nonce != nil {
		nonce = *body.Nonce
	}
	return &transaction.MosaicDefinitionTransaction{
		TransactionHeader: header,
		ID:                model.MosaicID(id),
		Duration:          uint64OrZero(body.Duration),
		Nonce:             nonce,
		Flags:             transaction.MosaicFlags(uint8OrZero(body.Flags)),
		Divisibility:      uint8OrZero(body.Divisibility),
	}, nil
}

func mapMosaicSupplyChange(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	id, err := unresolvedMosaicIDFromJSON(body.MosaicID)
	if err != nil {
		return nil, err
	}
	return &transaction.MosaicSupplyChangeTransaction{
		TransactionHeader: header,
		MosaicID:          id,
		Delta:             uint64OrZero(body.Delta),
		Action:            transaction.MosaicSupplyChangeAction(uint8OrZero(body.Action)),
	}, nil
}

func mapAddressList(values []codec.Hex) ([]model.UnresolvedAddress, error) {
	addresses := make([]model.UnresolvedAddress, 0, len(values))
	for _, value := range values {
		address, err := unresolvedAddressFromJSON(value)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

func mapMultisigAccountModification(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	additions, err := mapAddressList(body.AddressAdditions)
	if err != nil {
		return nil, err
	}
	deletions, err := mapAddressList(body.AddressDeletions)
	if err != nil {
		return nil, err
	}
	tx := &transaction.MultisigAccountModificationTransaction{
		TransactionHeader: header,
		AddressAdditions:  additions,
		AddressDeletions:  deletions,
	}
	if body.MinRemovalDelta != nil {
		tx.MinRemovalDelta = *body.MinRemovalDelta
	}
	if body.MinApprovalDelta != nil {
		tx.MinApprovalDelta = *body.MinApprovalDelta
	}
	return tx, nil
}

func mapAggregate(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	inner := make([]transaction.Transaction, 0, len(body.Transactions))
	for i := range body.Transactions {
		tx, err := MapTransaction(&body.Transactions[i])
		if err != nil {
			return nil, err
		}
		inner = append(inner, tx)
	}
	cosignatures := make([]transaction.Cosignature, 0, len(body.Cosignatures))
	for _, cosignature := range body.Cosignatures {
		signer, err := model.NewPublicAccount(cosignature.SignerPublicKey, header.Network)
		if err != nil {
			return nil, err
		}
		cosignatures = append(cosignatures, transaction.Cosignature{Signer: signer, Signature: cosignature.Signature})
	}
	return &transaction.AggregateTransaction{
		TransactionHeader: header,
		InnerTransactions: inner,
		Cosignatures:      cosignatures,
	}, nil
}

func mapHashLock(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	id, err := unresolvedMosaicIDFromJSON(body.MosaicID)
	if err != nil {
		return nil, err
	}
	return &transaction.HashLockTransaction{
		TransactionHeader: header,
		Mosaic:            model.NewMosaic(id, uint64OrZero(body.Amount)),
		Duration:          uint64OrZero(body.Duration),
		Hash:              body.Hash,
	}, nil
}

func mapSecretLock(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	recipient, err := unresolvedAddressFromJSON(body.RecipientAddress)
	if err != nil {
		return nil, err
	}
	id, err := unresolvedMosaicIDFromJSON(body.MosaicID)
	if err != nil {
		return nil, err
	}
	return &transaction.SecretLockTransaction{
		TransactionHeader: header,
		Recipient:         recipient,
		Secret:            body.Secret,
		Mosaic:            model.NewMosaic(id, uint64OrZero(body.Amount)),
		Duration:          uint64OrZero(body.Duration),
		HashAlgorithm:     transaction.LockHashAlgorithm(uint8OrZero(body.HashAlgorithm)),
	}, nil
}

func mapSecretProof(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	recipient, err := unresolvedAddressFromJSON(body.RecipientAddress)
	if err != nil {
		return nil, err
	}
	return &transaction.SecretProofTransaction{
		TransactionHeader: header,
		Recipient:         recipient,
		Secret:            body.Secret,
		HashAlgorithm:     transaction.LockHashAlgorithm(uint8OrZero(body.HashAlgorithm)),
		Proof:             body.Proof,
	}, nil
}

func restrictionFlags(body *Body) transaction.AccountRestrictionFlags {
	if body.RestrictionFlags == nil {
		return 0
	}
	return transaction.AccountRestrictionFlags(*body.RestrictionFlags)
}

func mapAccountAddressRestriction(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	decode := func(values []json.RawMessage) ([]model.UnresolvedAddress, error) {
		addresses := make([]model.UnresolvedAddress, 0, len(values))
		for _, value := range values {
			var raw codec.Hex
			if err := json.Unmarshal(value, &raw); err != nil {
				return nil, fmt.Errorf("%w: %v", codec.ErrInvalidData, err)
			}
			address, err := unresolvedAddressFromJSON(raw)
			if err != nil {
				return nil, err
			}
			addresses = append(addresses, address)
		}
		return addresses, nil
	}
	additions, err := decode(body.RestrictionAdditions)
	if err != nil {
		return nil, err
	}
	deletions, err := decode(body.RestrictionDeletions)
	if err != nil {
		return nil, err
	}
	return &transaction.AccountAddressRestrictionTransaction{
		TransactionHeader: header,
		RestrictionFlags:  restrictionFlags(body),
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func mapAccountMosaicRestriction(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	decode := func(values []json.RawMessage) ([]model.UnresolvedMosaicID, error) {
		ids := make([]model.UnresolvedMosaicID, 0, len(values))
		for _, value := range values {
			var hexID string
			if err := json.Unmarshal(value, &hexID); err != nil {
				return nil, fmt.Errorf("%w: %v", codec.ErrInvalidData, err)
			}
			id, err := unresolvedMosaicIDFromJSON(hexID)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	additions, err := decode(body.RestrictionAdditions)
	if err != nil {
		return nil, err
	}
	deletions, err := decode(body.RestrictionDeletions)
	if err != nil {
		return nil, err
	}
	return &transaction.AccountMosaicRestrictionTransaction{
		TransactionHeader: header,
		RestrictionFlags:  restrictionFlags(body),
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func mapAccountOperationRestriction(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	decode := func(values []json.RawMessage) ([]transaction.TransactionType, error) {
		types := make([]transaction.TransactionType, 0, len(values))
		for _, value := range values {
			var code uint16
			if err := json.Unmarshal(value, &code); err != nil {
				return nil, fmt.Errorf("%w: %v", codec.ErrInvalidData, err)
			}
			txType, err := transaction.TransactionTypeFromValue(code)
			if err != nil {
				return nil, err
			}
			types = append(types, txType)
		}
		return types, nil
	}
	additions, err := decode(body.RestrictionAdditions)
	if err != nil {
		return nil, err
	}
	deletions, err := decode(body.RestrictionDeletions)
	if err != nil {
		return nil, err
	}
	return &transaction.AccountOperationRestrictionTransaction{
		TransactionHeader: header,
		RestrictionFlags:  restrictionFlags(body),
		Additions:         additions,
		Deletions:         deletions,
	}, nil
}

func mapMosaicAddressRestriction(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	id, err := unresolvedMosaicIDFromJSON(body.MosaicID)
	if err != nil {
		return nil, err
	}
	key, err := codec.Uint64FromHex(body.RestrictionKey)
	if err != nil {
		return nil, err
	}
	target, err := unresolvedAddressFromJSON(body.TargetAddress)
	if err != nil {
		return nil, err
	}
	return &transaction.MosaicAddressRestrictionTransaction{
		TransactionHeader: header,
		MosaicID:          id,
		RestrictionKey:    key,
		PreviousValue:     uint64OrZero(body.PreviousRestrictionValue),
		NewValue:          uint64OrZero(body.NewRestrictionValue),
		TargetAddress:     target,
	}, nil
}

func mapMosaicGlobalRestriction(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	id, err := unresolvedMosaicIDFromJSON(body.MosaicID)
	if err != nil {
		return nil, err
	}
	referenceID, err := unresolvedMosaicIDFromJSON(body.ReferenceMosaicID)
	if err != nil {
		return nil, err
	}
	key, err := codec.Uint64FromHex(body.RestrictionKey)
	if err != nil {
		return nil, err
	}
	return &transaction.MosaicGlobalRestrictionTransaction{
		TransactionHeader:       header,
		MosaicID:                id,
		ReferenceMosaicID:       referenceID,
		RestrictionKey:          key,
		PreviousValue:           uint64OrZero(body.PreviousRestrictionValue),
		NewValue:                uint64OrZero(body.NewRestrictionValue),
		PreviousRestrictionType: transaction.MosaicRestrictionType(uint8OrZero(body.PreviousRestrictionType)),
		NewRestrictionType:      transaction.MosaicRestrictionType(uint8OrZero(body.NewRestrictionType)),
	}, nil
}

func metadataCommon(body *Body) (model.UnresolvedAddress, uint64, int16, error) {
	target, err := unresolvedAddressFromJSON(body.TargetAddress)
	if err != nil {
		return nil, 0, 0, err
	}
	key, err := codec.Uint64FromHex(body.ScopedMetadataKey)
	if err != nil {
		return nil, 0, 0, err
	}
	delta := int16(0)
	if body.ValueSizeDelta != nil {
		delta = *body.ValueSizeDelta
	}
	return target, key, delta, nil
}

func mapAccountMetadata(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	target, key, delta, err := metadataCommon(body)
	if err != nil {
		return nil, err
	}
	return &transaction.AccountMetadataTransaction{
		TransactionHeader: header,
		TargetAddress:     target,
		ScopedMetadataKey: key,
		ValueSizeDelta:    delta,
		Value:             body.Value,
	}, nil
}

func mapMosaicMetadata(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	target, key, delta, err := metadataCommon(body)
	if err != nil {
		return nil, err
	}
	id, err := unresolvedMosaicIDFromJSON(body.TargetMosaicID)
	if err != nil {
		return nil, err
	}
	return &transaction.MosaicMetadataTransaction{
		TransactionHeader: header,
		TargetAddress:     target,
		ScopedMetadataKey: key,
		TargetMosaicID:    id,
		ValueSizeDelta:    delta,
		Value:             body.Value,
	}, nil
}

func mapNamespaceMetadata(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	target, key, delta, err := metadataCommon(body)
	if err != nil {
		return nil, err
	}
	namespaceID, err := codec.Uint64FromHex(body.TargetNamespaceID)
	if err != nil {
		return nil, err
	}
	return &transaction.NamespaceMetadataTransaction{
		TransactionHeader: header,
		TargetAddress:     target,
		ScopedMetadataKey: key,
		TargetNamespaceID: model.NamespaceID(namespaceID),
		ValueSizeDelta:    delta,
		Value:             body.Value,
	}, nil
}

func mapKeyLink(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	action := transaction.LinkAction(uint8OrZero(body.LinkAction))
	deadline := header.Deadline
	network := header.Network
	var tx transaction.Transaction
	var err error
	switch header.Type {
	case transaction.TypeAccountKeyLink:
		tx, err = transaction.NewAccountKeyLinkTransaction(body.LinkedPublicKey, action, deadline, network)
	case transaction.TypeNodeKeyLink:
		tx, err = transaction.NewNodeKeyLinkTransaction(body.LinkedPublicKey, action, deadline, network)
	case transaction.TypeVrfKeyLink:
		tx, err = transaction.NewVrfKeyLinkTransaction(body.LinkedPublicKey, action, deadline, network)
	default:
		return nil, fmt.Errorf("%w: 0x%04X", transaction.ErrUnknownTransactionType, uint16(header.Type))
	}
	if err != nil {
		return nil, err
	}
	*tx.Header() = header
	return tx, nil
}

func mapVotingKeyLink(body *Body, header transaction.TransactionHeader) (transaction.Transaction, error) {
	startEpoch := uint32(0)
	if body.StartEpoch != nil {
		startEpoch = *body.StartEpoch
	}
	endEpoch := uint32(0)
	if body.EndEpoch != nil {
		endEpoch = *body.EndEpoch
	}
	tx, err := transaction.NewVotingKeyLinkTransaction(
		body.LinkedPublicKey,
		startEpoch,
		endEpoch,
		transaction.LinkAction(uint8OrZero(body.LinkAction)),
		header.Deadline,
		header.Network,
	)
	if err != nil {
		return nil, err
	}
	*tx.Header() = header
	return tx, nil
}
