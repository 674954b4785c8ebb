// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package octwallet

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a fixed-point OCT amount counted in micro-units
// (1 OCT = 1,000,000 micro-units). Amounts are parsed, stored, and
// serialized with integer arithmetic only; floating point never touches
// an amount.
type Amount uint64

// MicroPerOCT is the fixed-point scale of Amount.
const MicroPerOCT = 1_000_000

// feeTierThreshold is the protocol boundary between the two fee tiers.
// Amounts below 1000 OCT select tier "1", amounts at or above it tier "3".
const feeTierThreshold Amount = 1000 * MicroPerOCT

// ParseAmount converts a decimal OCT string such as "999.999999" into an
// Amount. At most six fractional digits are accepted; a malformed number,
// a fraction finer than one micro-unit, or a value that overflows the
// 64-bit micro-unit range fails with ErrInvalidArgument.
func ParseAmount(s string) (Amount, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidArgument)
	}

	var wholeOCT uint64
	if whole != "" {
		var err error
		wholeOCT, err = strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: amount %q is not a decimal number", ErrInvalidArgument, s)
		}
	}

	var fracMicro uint64
	if hasFrac && frac != "" {
		if len(frac) > 6 {
			return 0, fmt.Errorf("%w: amount %q has more than six fractional digits", ErrInvalidArgument, s)
		}
		// Pad to six digits so "5" means 500000 micro-units, not 5.
		padded := frac + strings.Repeat("0", 6-len(frac))
		var err error
		fracMicro, err = strconv.ParseUint(padded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: amount %q is not a decimal number", ErrInvalidArgument, s)
		}
	}

	if wholeOCT > (math.MaxUint64-fracMicro)/MicroPerOCT {
		return 0, fmt.Errorf("%w: amount %q overflows the micro-unit range", ErrInvalidArgument, s)
	}
	return Amount(wholeOCT*MicroPerOCT + fracMicro), nil
}

// Micro returns the amount as a raw micro-unit count.
func (a Amount) Micro() uint64 {
	return uint64(a)
}

// String returns the protocol representation of the amount: the micro-unit
// count as a plain decimal integer string.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// OU returns the fee tier the network charges for a transfer of this
// amount: "1" below 1000 OCT, "3" from 1000 OCT up. The threshold is a
// protocol constant, not a tunable.
func (a Amount) OU() string {
	if a < feeTierThreshold {
		return "1"
	}
	return "3"
}

// MarshalJSON encodes the amount as a JSON string of micro-units, the form
// every signed payload carries.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a JSON string of micro-units.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: amount must be a string of micro-units", ErrInvalidEncoding)
	}
	micro, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: amount %q is not a micro-unit integer", ErrInvalidEncoding, s)
	}
	*a = Amount(micro)
	return nil
}
