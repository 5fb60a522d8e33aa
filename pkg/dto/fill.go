package dto

import (
	"encoding/json"
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/transaction"
)

func uint64Ptr(value uint64) *codec.UInt64Str {
	converted := codec.UInt64Str(value)
	return &converted
}

func uint8Ptr(value uint8) *uint8 {
	return &value
}

// fillBody writes the kind specific JSON fields for a typed transaction.
func fillBody(tx transaction.Transaction, body *Body) error {
	switch typed := tx.(type) {
	case *transaction.TransferTransaction:
		recipient, err := unresolvedAddressToJSON(typed.Recipient, typed.Network)
		if err != nil {
			return err
		}
		body.RecipientAddress = recipient
		for _, mosaic := range typed.Mosaics {
			body.Mosaics = append(body.Mosaics, Mosaic{
				ID:     unresolvedMosaicIDToJSON(mosaic.ID),
				Amount: codec.UInt64Str(mosaic.Amount),
			})
		}
		body.Message = typed.Message.Bytes()

	case *transaction.NamespaceRegistrationTransaction:
		body.RegistrationType = uint8Ptr(uint8(typed.RegistrationType))
		body.ID = codec.Uint64ToHex(uint64(typed.ID))
		body.Name = typed.Name
		if typed.RegistrationType == transaction.NamespaceRegistrationRoot {
			body.Duration = uint64Ptr(typed.Duration)
		} else {
			body.ParentID = codec.Uint64ToHex(uint64(typed.ParentID))
		}

	case *transaction.AddressAliasTransaction:
		body.NamespaceID = codec.Uint64ToHex(uint64(typed.NamespaceID))
		body.Address = typed.Address.Bytes()
		body.AliasAction = uint8Ptr(uint8(typed.Action))

	case *transaction.MosaicAliasTransaction:
		body.NamespaceID = codec.Uint64ToHex(uint64(typed.NamespaceID))
		body.MosaicID = codec.Uint64ToHex(uint64(typed.MosaicID))
		body.AliasAction = uint8Ptr(uint8(typed.Action))

	case *transaction.MosaicDefinitionTransaction:
		body.ID = codec.Uint64ToHex(uint64(typed.ID))
		body.Duration = uint64Ptr(typed.Duration)
		nonce := typed.Nonce
		body.Nonce = &nonce
		body.Flags = uint8Ptr(uint8(typed.Flags))
		body.Divisibility = uint8Ptr(typed.Divisibility)

	case *transaction.MosaicSupplyChangeTransaction:
		body.MosaicID = unresolvedMosaicIDToJSON(typed.MosaicID)
		body.Delta = uint64Ptr(typed.Delta)
		body.Action = uint8Ptr(uint8(typed.Action))

	case *transaction.MultisigAccountModificationTransaction:
		removal := typed.MinRemovalDelta
		approval := typed.MinApprovalDelta
		body.MinRemovalDelta = &removal
		body.MinApprovalDelta = &approval
		for _, address := range typed.AddressAdditions {
			encoded, err := unresolvedAddressToJSON(address, typed.Network)
			if err != nil {
				return err
			}
			body.AddressAdditions = append(body.AddressAdditions, encoded)
		}
		for _, address := range typed.AddressDeletions {
			encoded, err := unresolvedAddressToJSON(address, typed.Network)
			if err != nil {
				return err
			}
			body.AddressDeletions = append(body.AddressDeletions, encoded)
		}

	case *transaction.AggregateTransaction:
		for _, inner := range typed.InnerTransactions {
			wrapper, err := MapToWrapper(inner)
			if err != nil {
				return err
			}
			body.Transactions = append(body.Transactions, *wrapper)
		}
		for _, cosignature := range typed.Cosignatures {
			entry := CosignatureBody{Signature: cosignature.Signature}
			if cosignature.Signer != nil {
				entry.SignerPublicKey = cosignature.Signer.PublicKey
			}
			body.Cosignatures = append(body.Cosignatures, entry)
		}

	case *transaction.HashLockTransaction:
		body.MosaicID = unresolvedMosaicIDToJSON(typed.Mosaic.ID)
		body.Amount = uint64Ptr(typed.Mosaic.Amount)
		body.Duration = uint64Ptr(typed.Duration)
		body.Hash = typed.Hash

	case *transaction.SecretLockTransaction:
		recipient, err := unresolvedAddressToJSON(typed.Recipient, typed.Network)
		if err != nil {
			return err
		}
		body.RecipientAddress = recipient
		body.Secret = typed.Secret
		body.MosaicID = unresolvedMosaicIDToJSON(typed.Mosaic.ID)
		body.Amount = uint64Ptr(typed.Mosaic.Amount)
		body.Duration = uint64Ptr(typed.Duration)
		body.HashAlgorithm = uint8Ptr(uint8(typed.HashAlgorithm))

	case *transaction.SecretProofTransaction:
		recipient, err := unresolvedAddressToJSON(typed.Recipient, typed.Network)
		if err != nil {
			return err
		}
		body.RecipientAddress = recipient
		body.Secret = typed.Secret
		body.HashAlgorithm = uint8Ptr(uint8(typed.HashAlgorithm))
		body.Proof = typed.Proof

	case *transaction.AccountAddressRestrictionTransaction:
		flags := uint16(typed.RestrictionFlags)
		body.RestrictionFlags = &flags
		for _, address := range typed.Additions {
			encoded, err := unresolvedAddressToJSON(address, typed.Network)
			if err != nil {
				return err
			}
			if err := appendRawRestriction(body, true, encoded); err != nil {
				return err
			}
		}
		for _, address := range typed.Deletions {
			encoded, err := unresolvedAddressToJSON(address, typed.Network)
			if err != nil {
				return err
			}
			if err := appendRawRestriction(body, false, encoded); err != nil {
				return err
			}
		}

	case *transaction.AccountMosaicRestrictionTransaction:
		flags := uint16(typed.RestrictionFlags)
		body.RestrictionFlags = &flags
		for _, id := range typed.Additions {
			if err := appendRawRestriction(body, true, unresolvedMosaicIDToJSON(id)); err != nil {
				return err
			}
		}
		for _, id := range typed.Deletions {
			if err := appendRawRestriction(body, false, unresolvedMosaicIDToJSON(id)); err != nil {
				return err
			}
		}

	case *transaction.AccountOperationRestrictionTransaction:
		flags := uint16(typed.RestrictionFlags)
		body.RestrictionFlags = &flags
		for _, txType := range typed.Additions {
			if err := appendRawRestriction(body, true, uint16(txType)); err != nil {
				return err
			}
		}
		for _, txType := range typed.Deletions {
			if err := appendRawRestriction(body, false, uint16(txType)); err != nil {
				return err
			}
		}

	case *transaction.MosaicAddressRestrictionTransaction:
		target, err := unresolvedAddressToJSON(typed.TargetAddress, typed.Network)
		if err != nil {
			return err
		}
		body.MosaicID = unresolvedMosaicIDToJSON(typed.MosaicID)
		body.RestrictionKey = codec.Uint64ToHex(typed.RestrictionKey)
		body.PreviousRestrictionValue = uint64Ptr(typed.PreviousValue)
		body.NewRestrictionValue = uint64Ptr(typed.NewValue)
		body.TargetAddress = target

	case *transaction.MosaicGlobalRestrictionTransaction:
		body.MosaicID = unresolvedMosaicIDToJSON(typed.MosaicID)
		if typed.ReferenceMosaicID != nil {
			body.ReferenceMosaicID = unresolvedMosaicIDToJSON(typed.ReferenceMosaicID)
		} else {
			body.ReferenceMosaicID = codec.Uint64ToHex(0)
		}
		body.RestrictionKey = codec.Uint64ToHex(typed.RestrictionKey)
		body.PreviousRestrictionValue = uint64Ptr(typed.PreviousValue)
		body.NewRestrictionValue = uint64Ptr(typed.NewValue)
		body.PreviousRestrictionType = uint8Ptr(uint8(typed.PreviousRestrictionType))
		body.NewRestrictionType = uint8Ptr(uint8(typed.NewRestrictionType))

	case *transaction.AccountMetadataTransaction:
		target, err := unresolvedAddressToJSON(typed.TargetAddress, typed.Network)
		if err != nil {
			return err
		}
		fillMetadata(body, target, typed.ScopedMetadataKey, typed.ValueSizeDelta, typed.Value)

	case *transaction.MosaicMetadataTransaction:
		target, err := unresolvedAddressToJSON(typed.TargetAddress, typed.Network)
		if err != nil {
			return err
		}
		fillMetadata(body, target, typed.ScopedMetadataKey, typed.ValueSizeDelta, typed.Value)
		body.TargetMosaicID = unresolvedMosaicIDToJSON(typed.TargetMosaicID)

	case *transaction.NamespaceMetadataTransaction:
		target, err := unresolvedAddressToJSON(typed.TargetAddress, typed.Network)
		if err != nil {
			return err
		}
		fillMetadata(body, target, typed.ScopedMetadataKey, typed.ValueSizeDelta, typed.Value)
		body.TargetNamespaceID = codec.Uint64ToHex(uint64(typed.TargetNamespaceID))

	case *transaction.AccountKeyLinkTransaction:
		body.LinkedPublicKey = typed.LinkedPublicKey
		body.LinkAction = uint8Ptr(uint8(typed.LinkAction))

	case *transaction.NodeKeyLinkTransaction:
		body.LinkedPublicKey = typed.LinkedPublicKey
		body.LinkAction = uint8Ptr(uint8(typed.LinkAction))

	case *transaction.VrfKeyLinkTransaction:
		body.LinkedPublicKey = typed.LinkedPublicKey
		body.LinkAction = uint8Ptr(uint8(typed.LinkAction))

	case *transaction.VotingKeyLinkTransaction:
		body.LinkedPublicKey = typed.LinkedPublicKey
		body.LinkAction = uint8Ptr(uint8(typed.LinkAction))
		startEpoch := typed.StartEpoch
		endEpoch := typed.EndEpoch
		body.StartEpoch = &startEpoch
		body.EndEpoch = &endEpoch

	default:
		return fmt.Errorf("%w: %T", transaction.ErrUnknownTransactionType, tx)
	}
	return nil
}

func fillMetadata(body *Body, target codec.Hex, key uint64, delta int16, value codec.Hex) {
	valueSize := uint16(len(value))
	body.TargetAddress = target
	body.ScopedMetadataKey = codec.Uint64ToHex(key)
	body.ValueSizeDelta = &delta
	body.ValueSize = &valueSize
	body.Value = value
}

func appendRawRestriction(body *Body, addition bool, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if addition {
		body.RestrictionAdditions = append(body.RestrictionAdditions, encoded)
	} else {
		body.RestrictionDeletions = append(body.RestrictionDeletions, encoded)
	}
	return nil
}
