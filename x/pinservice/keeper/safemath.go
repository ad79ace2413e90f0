package keeper

import (
	"fmt"
	"math/bits"
)

// SafeAddUint64 adds two uint64 values with overflow checking
func SafeAddUint64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("overflow: %d + %d exceeds uint64", a, b)
	}
	return sum, nil
}

// SafeSubUint64 subtracts two uint64 values with underflow checking
func SafeSubUint64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("underflow: cannot subtract %d from %d", b, a)
	}
	return a - b, nil
}

// SafeMulUint64 multiplies two uint64 values with overflow checking
func SafeMulUint64(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	result := a * b
	if result/a != b {
		return 0, fmt.Errorf("overflow: %d * %d exceeds uint64", a, b)
	}
	return result, nil
}

// SaturatingSubUint64 returns a - b, or 0 when b > a
func SaturatingSubUint64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
