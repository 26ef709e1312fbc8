// Package tickmath converts between human prices, Q64.64 square-root prices and
// tick indexes using the same fixed-point steps as the on-chain CLMM pools.
package tickmath

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

const (
	MinTick int32 = -443636
	MaxTick int32 = 443636

	sqrtPrecision = 256
	bitPrecision  = 14
)

var (
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrTickOutOfRange      = errors.New("tick out of range")
	ErrSqrtPriceOutOfRange = errors.New("sqrt price out of range")
)

var (
	MinSqrtPriceX64 = uint128.From64(4295048016)
	MaxSqrtPriceX64 = mustUint128("79226673515401279992447579055")

	q64  = new(big.Int).Lsh(big.NewInt(1), 64)
	q128 = new(big.Int).Lsh(big.NewInt(1), 128)

	logB2X32          = big.NewInt(59543866431248)
	errMarginLowerX64 = mustBig("184467440737095516")
	errMarginUpperX64 = mustBig("15793534762490258745")
)

// PriceToSqrtPriceX64 returns floor(sqrt(price * 10^(decimalsB-decimalsA)) * 2^64).
func PriceToSqrtPriceX64(price decimal.Decimal, decimalsA, decimalsB int) (uint128.Uint128, error) {
	if !price.IsPositive() {
		return uint128.Zero, ErrInvalidPrice
	}
	scaled := price.Shift(int32(decimalsB - decimalsA))
	root := new(big.Float).SetPrec(sqrtPrecision).SetRat(scaled.Rat())
	root.Sqrt(root)
	root.Mul(root, new(big.Float).SetPrec(sqrtPrecision).SetInt(q64))

	// Floor of a positive float is its truncation.
	x64, _ := root.Int(nil)
	if x64.Cmp(MinSqrtPriceX64.Big()) < 0 || x64.Cmp(MaxSqrtPriceX64.Big()) > 0 {
		return uint128.Zero, fmt.Errorf("%w: price %s", ErrSqrtPriceOutOfRange, price)
	}
	return uint128.FromBig(x64), nil
}

// SqrtPriceX64ToPrice is the inverse of PriceToSqrtPriceX64, rounded to 36 places.
func SqrtPriceX64ToPrice(sqrtPrice uint128.Uint128, decimalsA, decimalsB int) decimal.Decimal {
	sp := sqrtPrice.Big()
	squared := new(big.Int).Mul(sp, sp)
	price := decimal.NewFromBigInt(squared, 0).DivRound(decimal.NewFromBigInt(q128, 0), 36)
	return price.Shift(int32(decimalsA - decimalsB))
}

// PriceToTickIndex maps a human price to the tick whose sqrt price is the
// greatest not above it.
func PriceToTickIndex(price decimal.Decimal, decimalsA, decimalsB int) (int32, error) {
	sqrtPrice, err := PriceToSqrtPriceX64(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return SqrtPriceX64ToTickIndex(sqrtPrice)
}

// SqrtPriceX64ToTickIndex approximates log_sqrt(1.0001)(sqrtPrice / 2^64) from
// a 14-bit binary logarithm and resolves the candidate pair exactly.
func SqrtPriceX64ToTickIndex(sqrtPrice uint128.Uint128) (int32, error) {
	if sqrtPrice.Cmp(MinSqrtPriceX64) < 0 || sqrtPrice.Cmp(MaxSqrtPriceX64) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrSqrtPriceOutOfRange, sqrtPrice)
	}
	sp := sqrtPrice.Big()

	msb := sp.BitLen() - 1
	log2pIntegerX32 := new(big.Int).Lsh(big.NewInt(int64(msb-64)), 32)

	r := new(big.Int)
	if msb >= 64 {
		r.Rsh(sp, uint(msb-63))
	} else {
		r.Lsh(sp, uint(63-msb))
	}

	bit := new(big.Int).Lsh(big.NewInt(1), 63)
	log2pFractionX64 := new(big.Int)
	for precision := 0; bit.Sign() > 0 && precision < bitPrecision; precision++ {
		r.Mul(r, r)
		more := uint(new(big.Int).Rsh(r, 127).Uint64())
		r.Rsh(r, 63+more)
		if more == 1 {
			log2pFractionX64.Add(log2pFractionX64, bit)
		}
		bit.Rsh(bit, 1)
	}

	log2pX32 := log2pIntegerX32.Add(log2pIntegerX32, new(big.Int).Rsh(log2pFractionX64, 32))
	logbpX64 := new(big.Int).Mul(log2pX32, logB2X32)

	// Rsh on negative values floors, matching an arithmetic shift.
	tickLow := int32(new(big.Int).Rsh(new(big.Int).Sub(logbpX64, errMarginLowerX64), 64).Int64())
	tickHigh := int32(new(big.Int).Rsh(new(big.Int).Add(logbpX64, errMarginUpperX64), 64).Int64())
	if tickLow == tickHigh {
		return tickLow, nil
	}

	derived, err := TickIndexToSqrtPriceX64(tickHigh)
	if err != nil {
		return tickLow, nil
	}
	if derived.Cmp(sqrtPrice) <= 0 {
		return tickHigh, nil
	}
	return tickLow, nil
}

// TickIndexToSqrtPriceX64 returns sqrt(1.0001^tick) * 2^64.
func TickIndexToSqrtPriceX64(tick int32) (uint128.Uint128, error) {
	if tick < MinTick || tick > MaxTick {
		return uint128.Zero, fmt.Errorf("%w: %d", ErrTickOutOfRange, tick)
	}
	if tick > 0 {
		return uint128.FromBig(positiveTickToSqrtPrice(uint32(tick))), nil
	}
	return uint128.FromBig(negativeTickToSqrtPrice(uint32(-tick))), nil
}

func positiveTickToSqrtPrice(tick uint32) *big.Int {
	ratio := new(big.Int)
	if tick&1 != 0 {
		ratio.Set(positiveRatioOdd)
	} else {
		ratio.Set(positiveRatioEven)
	}
	for i, m := range positiveMultipliers {
		if tick&(2<<i) != 0 {
			ratio.Mul(ratio, m)
			ratio.Rsh(ratio, 96)
		}
	}
	return ratio.Rsh(ratio, 32)
}

func negativeTickToSqrtPrice(tick uint32) *big.Int {
	ratio := new(big.Int)
	if tick&1 != 0 {
		ratio.Set(negativeRatioOdd)
	} else {
		ratio.Set(negativeRatioEven)
	}
	for i, m := range negativeMultipliers {
		if tick&(2<<i) != 0 {
			ratio.Mul(ratio, m)
			ratio.Rsh(ratio, 64)
		}
	}
	return ratio
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("tickmath: bad constant " + s)
	}
	return v
}

func mustUint128(s string) uint128.Uint128 {
	v, err := uint128.FromString(s)
	if err != nil {
		panic(err)
	}
	return v
}
