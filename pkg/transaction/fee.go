package transaction

import (
	"fmt"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/math"
)

// SetMaxFee returns a copy whose max fee covers the transaction's size at the
// given effective fee multiplier.
func SetMaxFee(tx Transaction, feeMultiplier uint32) (Transaction, error) {
	fee, ok := math.SafeMul(uint64(tx.Size()), uint64(feeMultiplier))
	if !ok {
		return nil, fmt.Errorf("%w: fee multiplier %d overflows for a transaction of %d bytes", codec.ErrOutOfRange, feeMultiplier, tx.Size())
	}
	copied := tx.clone()
	copied.Header().MaxFee = fee
	return copied, nil
}

// SetMaxFeeForAggregate sizes the fee of an aggregate which will gather
// cosignatures after signing. Each expected cosigner beyond the ones already
// attached grows the announced payload by one cosignature record.
func SetMaxFeeForAggregate(tx *AggregateTransaction, feeMultiplier uint32, requiredCosignatures int) (*AggregateTransaction, error) {
	attached := len(tx.Cosignatures)
	missing := math.SafeSubWithMin(uint64(requiredCosignatures), uint64(attached), 0)
	size, ok := math.SafeAdd(uint64(tx.Size()), missing*CosignatureSize)
	if !ok {
		return nil, fmt.Errorf("%w: %d expected cosignatures overflow the aggregate size", codec.ErrOutOfRange, requiredCosignatures)
	}
	fee, ok := math.SafeMul(size, uint64(feeMultiplier))
	if !ok {
		return nil, fmt.Errorf("%w: fee multiplier %d overflows for an aggregate of %d bytes", codec.ErrOutOfRange, feeMultiplier, size)
	}
	copied := tx.clone().(*AggregateTransaction)
	copied.MaxFee = fee
	return copied, nil
}
