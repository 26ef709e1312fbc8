// Package liquidity estimates concentrated-liquidity positions from a single
// fixed token amount.
package liquidity

import (
	"errors"
	"fmt"
	"math/big"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"coinforge/internal/tickmath"
)

var (
	ErrUnsupportedSide = errors.New("fixed coin cannot provide liquidity at the current price")
	ErrInvalidRange    = errors.New("lower sqrt price must be below upper sqrt price")
)

var q64 = new(big.Int).Lsh(big.NewInt(1), 64)

// Estimate is the position implied by one fixed coin amount.
// LimitA and LimitB are maxima when rounding up and minima otherwise.
type Estimate struct {
	Liquidity  uint128.Uint128
	AmountA    cosmath.Int
	AmountB    cosmath.Int
	LimitA     cosmath.Int
	LimitB     cosmath.Int
	FixAmountA bool
}

// LiquidityForCoinA returns the liquidity a coin-A amount buys between two sqrt
// prices. Equal prices yield ErrInvalidRange.
func LiquidityForCoinA(sqrtPriceX, sqrtPriceY, amount *big.Int) (*big.Int, error) {
	lower, upper, err := span(sqrtPriceX, sqrtPriceY)
	if err != nil {
		return nil, err
	}
	num := new(big.Int).Mul(amount, upper)
	num.Mul(num, lower)
	num.Rsh(num, 64)
	return num.Quo(num, new(big.Int).Sub(upper, lower)), nil
}

// LiquidityForCoinB returns the liquidity a coin-B amount buys between two sqrt
// prices. Equal prices yield ErrInvalidRange.
func LiquidityForCoinB(sqrtPriceX, sqrtPriceY, amount *big.Int) (*big.Int, error) {
	lower, upper, err := span(sqrtPriceX, sqrtPriceY)
	if err != nil {
		return nil, err
	}
	num := new(big.Int).Lsh(amount, 64)
	return num.Quo(num, new(big.Int).Sub(upper, lower)), nil
}

// CoinAmountsFromLiquidity returns the token amounts backing liquidity at the
// current sqrt price.
func CoinAmountsFromLiquidity(liquidity, curSqrtPrice, lowerSqrtPrice, upperSqrtPrice *big.Int, roundUp bool) (amountA, amountB *big.Int) {
	switch {
	case curSqrtPrice.Cmp(lowerSqrtPrice) < 0:
		amountA = coinAFromLiquidity(liquidity, lowerSqrtPrice, upperSqrtPrice, roundUp)
		amountB = new(big.Int)
	case curSqrtPrice.Cmp(upperSqrtPrice) < 0:
		amountA = coinAFromLiquidity(liquidity, curSqrtPrice, upperSqrtPrice, roundUp)
		amountB = coinBFromLiquidity(liquidity, lowerSqrtPrice, curSqrtPrice, roundUp)
	default:
		amountA = new(big.Int)
		amountB = coinBFromLiquidity(liquidity, lowerSqrtPrice, upperSqrtPrice, roundUp)
	}
	return amountA, amountB
}

// EstimateFromOneAmount fixes one side of a position between two ticks and
// derives the liquidity and the amount needed on the other side.
func EstimateFromOneAmount(lowerTick, upperTick int32, amount cosmath.Int, fixAmountA, roundUp bool, slippage decimal.Decimal, curSqrtPrice uint128.Uint128) (Estimate, error) {
	if lowerTick >= upperTick {
		return Estimate{}, fmt.Errorf("%w: ticks %d/%d", ErrInvalidRange, lowerTick, upperTick)
	}
	if amount.IsNil() || amount.IsNegative() {
		return Estimate{}, errors.New("amount must be non-negative")
	}
	curTick, err := tickmath.SqrtPriceX64ToTickIndex(curSqrtPrice)
	if err != nil {
		return Estimate{}, fmt.Errorf("current tick: %w", err)
	}
	lowerU, err := tickmath.TickIndexToSqrtPriceX64(lowerTick)
	if err != nil {
		return Estimate{}, fmt.Errorf("lower tick: %w", err)
	}
	upperU, err := tickmath.TickIndexToSqrtPriceX64(upperTick)
	if err != nil {
		return Estimate{}, fmt.Errorf("upper tick: %w", err)
	}
	lower, upper, cur := lowerU.Big(), upperU.Big(), curSqrtPrice.Big()
	amt := amount.BigInt()

	var liq *big.Int
	switch {
	case curTick < lowerTick:
		if !fixAmountA {
			return Estimate{}, fmt.Errorf("%w: coin B below range", ErrUnsupportedSide)
		}
		liq, err = LiquidityForCoinA(lower, upper, amt)
	case curTick > upperTick:
		if fixAmountA {
			return Estimate{}, fmt.Errorf("%w: coin A above range", ErrUnsupportedSide)
		}
		liq, err = LiquidityForCoinB(upper, lower, amt)
	default:
		if fixAmountA {
			if cur.Cmp(upper) >= 0 {
				return Estimate{}, fmt.Errorf("%w: coin A at upper bound", ErrUnsupportedSide)
			}
			liq, err = LiquidityForCoinA(cur, upper, amt)
		} else {
			if cur.Cmp(lower) <= 0 {
				return Estimate{}, fmt.Errorf("%w: coin B at lower bound", ErrUnsupportedSide)
			}
			liq, err = LiquidityForCoinB(cur, lower, amt)
		}
	}
	if err != nil {
		return Estimate{}, err
	}
	if liq.BitLen() > 128 {
		return Estimate{}, fmt.Errorf("liquidity %s overflows u128", liq)
	}

	amountA, amountB := CoinAmountsFromLiquidity(liq, cur, lower, upper, roundUp)
	return Estimate{
		Liquidity:  uint128.FromBig(new(big.Int).Set(liq)),
		AmountA:    cosmath.NewIntFromBigInt(amountA),
		AmountB:    cosmath.NewIntFromBigInt(amountB),
		LimitA:     withSlippage(amountA, slippage, roundUp),
		LimitB:     withSlippage(amountB, slippage, roundUp),
		FixAmountA: fixAmountA,
	}, nil
}

func coinAFromLiquidity(liquidity, sqrtLower, sqrtUpper *big.Int, roundUp bool) *big.Int {
	num := new(big.Int).Mul(liquidity, q64)
	num.Mul(num, new(big.Int).Sub(sqrtUpper, sqrtLower))
	den := new(big.Int).Mul(sqrtLower, sqrtUpper)
	return divRound(num, den, roundUp)
}

func coinBFromLiquidity(liquidity, sqrtLower, sqrtUpper *big.Int, roundUp bool) *big.Int {
	num := new(big.Int).Mul(liquidity, new(big.Int).Sub(sqrtUpper, sqrtLower))
	return divRound(num, q64, roundUp)
}

func divRound(num, den *big.Int, roundUp bool) *big.Int {
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if roundUp && rem.Sign() > 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return quo
}

// withSlippage widens amount by the slippage ratio: up and ceiled when
// rounding up, down and floored otherwise.
func withSlippage(amount *big.Int, slippage decimal.Decimal, roundUp bool) cosmath.Int {
	d := decimal.NewFromBigInt(amount, 0)
	one := decimal.NewFromInt(1)
	if roundUp {
		return cosmath.NewIntFromBigInt(d.Mul(one.Add(slippage)).Ceil().BigInt())
	}
	return cosmath.NewIntFromBigInt(d.Mul(one.Sub(slippage)).Floor().BigInt())
}

func span(a, b *big.Int) (lower, upper *big.Int, err error) {
	switch a.Cmp(b) {
	case 0:
		return nil, nil, fmt.Errorf("%w: sqrt prices equal at %s", ErrInvalidRange, a)
	case 1:
		return b, a, nil
	default:
		return a, b, nil
	}
}
