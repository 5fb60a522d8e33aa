package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MaxSafeNumber is the largest uint64 which survives a round trip through a
// 53 bit float, the representation REST clients in other languages use.
const MaxSafeNumber = uint64(1)<<53 - 1

// UInt64Str type for marshal and unmarshal uint64 json string.
//
// Chain amounts arrive as decimal strings and must never pass through a float.
type UInt64Str uint64

func (i UInt64Str) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(i), 10))
}

func (i *UInt64Str) UnmarshalJSON(b []byte) error {
	// Try string first
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		value, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		*i = UInt64Str(value)
		return nil
	}

	// Fallback to number
	return json.Unmarshal(b, (*uint64)(i))
}

// Uint64ToHex renders a uint64 as 16 big-endian hex digits.
func Uint64ToHex(val uint64) string {
	return strings.ToUpper(fmt.Sprintf("%016x", val))
}

// Uint64FromHex parses exactly 16 big-endian hex digits.
func Uint64FromHex(val string) (uint64, error) {
	if len(val) != 16 {
		return 0, fmt.Errorf("%w: hex uint64 must have length 16 but received %d", ErrInvalidArgument, len(val))
	}
	res, err := strconv.ParseUint(val, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return res, nil
}

// Uint64FromString parses a decimal string without precision loss.
func Uint64FromString(val string) (uint64, error) {
	res, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return res, nil
}

// Uint64FromWords composes a uint64 from a [lower, higher] pair of 32 bit
// words, the split representation used by clients on platforms without a
// native 64 bit integer.
func Uint64FromWords(words []int64) (uint64, error) {
	if len(words) != 2 {
		return 0, fmt.Errorf("%w: words must have length 2 but received %d", ErrInvalidArgument, len(words))
	}
	for _, word := range words {
		if word < 0 || word > 0xFFFFFFFF {
			return 0, fmt.Errorf("%w: word %d is not an unsigned 32 bit value", ErrInvalidArgument, word)
		}
	}
	return uint64(words[1])<<32 | uint64(words[0]), nil
}

// Uint64ToWords splits a uint64 into its [lower, higher] 32 bit words.
func Uint64ToWords(val uint64) []int64 {
	return []int64{int64(val & 0xFFFFFFFF), int64(val >> 32)}
}

// Uint64ToNumber compacts a uint64 into a value a 53 bit float can hold,
// failing when the conversion would lose precision.
func Uint64ToNumber(val uint64) (int64, error) {
	if val > MaxSafeNumber {
		return 0, fmt.Errorf("%w: %d exceeds the 53 bit safe range", ErrInvalidArgument, val)
	}
	return int64(val), nil
}
