// Package transaction implements the typed transaction catalog, its canonical
// binary codec, the aggregate multi-signature protocol and alias resolution.
package transaction

import "fmt"

// TransactionType is the 2 byte entity type embedded in every payload. The
// codec dispatches on it exactly once per serialize/deserialize pair.
type TransactionType uint16

const (
	TypeTransfer                    TransactionType = 0x4154
	TypeNamespaceRegistration       TransactionType = 0x414E
	TypeAddressAlias                TransactionType = 0x424E
	TypeMosaicAlias                 TransactionType = 0x434E
	TypeMosaicDefinition            TransactionType = 0x414D
	TypeMosaicSupplyChange          TransactionType = 0x424D
	TypeMultisigAccountModification TransactionType = 0x4155
	TypeAggregateComplete           TransactionType = 0x4141
	TypeAggregateBonded             TransactionType = 0x4241
	TypeHashLock                    TransactionType = 0x4148
	TypeSecretLock                  TransactionType = 0x4152
	TypeSecretProof                 TransactionType = 0x4252
	TypeAccountAddressRestriction   TransactionType = 0x4150
	TypeAccountMosaicRestriction    TransactionType = 0x4250
	TypeAccountOperationRestriction TransactionType = 0x4350
	TypeMosaicAddressRestriction    TransactionType = 0x4251
	TypeMosaicGlobalRestriction     TransactionType = 0x4151
	TypeAccountMetadata             TransactionType = 0x4144
	TypeMosaicMetadata              TransactionType = 0x4244
	TypeNamespaceMetadata           TransactionType = 0x4344
	TypeAccountKeyLink              TransactionType = 0x414C
	TypeNodeKeyLink                 TransactionType = 0x424C
	TypeVrfKeyLink                  TransactionType = 0x4243
	TypeVotingKeyLink               TransactionType = 0x4143
)

var transactionTypeNames = map[TransactionType]string{
	TypeTransfer:                    "transfer",
	TypeNamespaceRegistration:       "namespaceRegistration",
	TypeAddressAlias:                "addressAlias",
	TypeMosaicAlias:                 "mosaicAlias",
	TypeMosaicDefinition:            "mosaicDefinition",
	TypeMosaicSupplyChange:          "mosaicSupplyChange",
	TypeMultisigAccountModification: "multisigAccountModification",
	TypeAggregateComplete:           "aggregateComplete",
	TypeAggregateBonded:             "aggregateBonded",
	TypeHashLock:                    "hashLock",
	TypeSecretLock:                  "secretLock",
	TypeSecretProof:                 "secretProof",
	TypeAccountAddressRestriction:   "accountAddressRestriction",
	TypeAccountMosaicRestriction:    "accountMosaicRestriction",
	TypeAccountOperationRestriction: "accountOperationRestriction",
	TypeMosaicAddressRestriction:    "mosaicAddressRestriction",
	TypeMosaicGlobalRestriction:     "mosaicGlobalRestriction",
	TypeAccountMetadata:             "accountMetadata",
	TypeMosaicMetadata:              "mosaicMetadata",
	TypeNamespaceMetadata:           "namespaceMetadata",
	TypeAccountKeyLink:              "accountKeyLink",
	TypeNodeKeyLink:                 "nodeKeyLink",
	TypeVrfKeyLink:                  "vrfKeyLink",
	TypeVotingKeyLink:               "votingKeyLink",
}

// TransactionTypeFromValue validates a raw entity type code.
func TransactionTypeFromValue(value uint16) (TransactionType, error) {
	if _, exist := transactionTypeNames[TransactionType(value)]; !exist {
		return 0, fmt.Errorf("%w: 0x%04X", ErrUnknownTransactionType, value)
	}
	return TransactionType(value), nil
}

// IsAggregate returns true for the two container types.
func (t TransactionType) IsAggregate() bool {
	return t == TypeAggregateComplete || t == TypeAggregateBonded
}

func (t TransactionType) String() string {
	if name, exist := transactionTypeNames[t]; exist {
		return name
	}
	return fmt.Sprintf("unknown(0x%04X)", uint16(t))
}
