package pool

import (
	"errors"
	"fmt"

	cosmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"coinforge/internal/liquidity"
	"coinforge/internal/tickmath"
)

var (
	ErrInvalidPoolParameters        = errors.New("invalid pool parameters")
	ErrUnsupportedFeeTier           = errors.New("unsupported fee tier")
	ErrRangeTooNarrowForTickSpacing = errors.New("price range too narrow for tick spacing")
)

const maxCoinDecimals = 255

var (
	DefaultSlippage = decimal.RequireFromString("0.05")

	half     = decimal.RequireFromString("0.5")
	maxU64   = cosmath.NewIntFromUint64(^uint64(0))
	feeTiers = []struct {
		upTo    decimal.Decimal
		spacing int32
	}{
		{decimal.RequireFromString("0.0001"), 2},
		{decimal.RequireFromString("0.0005"), 10},
		{decimal.RequireFromString("0.0025"), 60},
		{decimal.RequireFromString("0.01"), 200},
	}
)

// PriceRange is a requested price band in human units of quote per base.
type PriceRange struct {
	MinPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
	FeeTier       decimal.Decimal
	BaseDecimals  int
	QuoteDecimals int
}

// TickPlan is everything needed to create a pool and open the initial position.
type TickPlan struct {
	TickSpacing      int32
	InitialSqrtPrice uint128.Uint128
	RawTickLower     int32
	RawTickUpper     int32
	TickLower        int32
	TickUpper        int32
	BaseAmount       cosmath.Int

	// RequiredOtherTokenAmount is the slippage-adjusted quote amount.
	RequiredOtherTokenAmount cosmath.Int
	Estimate                 liquidity.Estimate
}

type PlannerConfig struct {
	// Slippage applied to the quote amount. Nil selects DefaultSlippage; an
	// explicit zero disables the adjustment.
	Slippage *decimal.Decimal
}

type Planner struct {
	slippage decimal.Decimal
}

func NewPlanner(cfg PlannerConfig) *Planner {
	if cfg.Slippage == nil {
		return &Planner{slippage: DefaultSlippage}
	}
	return &Planner{slippage: *cfg.Slippage}
}

func (p *Planner) Slippage() decimal.Decimal {
	return p.slippage
}

// TickSpacingFor maps a fee tier to its tick spacing. Fees between tiers round
// up to the next tier.
func TickSpacingFor(feeTier decimal.Decimal) (int32, error) {
	for _, tier := range feeTiers {
		if feeTier.LessThanOrEqual(tier.upTo) {
			return tier.spacing, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFeeTier, feeTier)
}

// Plan computes the tick-aligned range, the initial price and the quote
// amount needed to pair baseAmount.
func (p *Planner) Plan(r PriceRange, baseAmount cosmath.Int) (TickPlan, error) {
	if err := validate(r, baseAmount); err != nil {
		return TickPlan{}, err
	}
	spacing, err := TickSpacingFor(r.FeeTier)
	if err != nil {
		return TickPlan{}, err
	}

	mid := r.MinPrice.Add(r.MaxPrice).Mul(half)
	initSqrt, err := tickmath.PriceToSqrtPriceX64(mid, r.BaseDecimals, r.QuoteDecimals)
	if err != nil {
		return TickPlan{}, fmt.Errorf("%w: initial price: %w", ErrInvalidPoolParameters, err)
	}
	rawLower, err := tickmath.PriceToTickIndex(r.MinPrice, r.BaseDecimals, r.QuoteDecimals)
	if err != nil {
		return TickPlan{}, fmt.Errorf("%w: min price: %w", ErrInvalidPoolParameters, err)
	}
	rawUpper, err := tickmath.PriceToTickIndex(r.MaxPrice, r.BaseDecimals, r.QuoteDecimals)
	if err != nil {
		return TickPlan{}, fmt.Errorf("%w: max price: %w", ErrInvalidPoolParameters, err)
	}

	lower := AlignDown(rawLower, spacing)
	upper := AlignUp(rawUpper, spacing)
	if lower >= upper {
		return TickPlan{}, fmt.Errorf("%w: ticks %d/%d with spacing %d", ErrRangeTooNarrowForTickSpacing, lower, upper, spacing)
	}
	if lower < tickmath.MinTick || upper > tickmath.MaxTick {
		return TickPlan{}, fmt.Errorf("%w: aligned ticks %d/%d outside [%d, %d]", ErrInvalidPoolParameters, lower, upper, tickmath.MinTick, tickmath.MaxTick)
	}

	est, err := liquidity.EstimateFromOneAmount(lower, upper, baseAmount, true, true, p.slippage, initSqrt)
	if err != nil {
		return TickPlan{}, fmt.Errorf("estimate liquidity: %w", err)
	}

	return TickPlan{
		TickSpacing:              spacing,
		InitialSqrtPrice:         initSqrt,
		RawTickLower:             rawLower,
		RawTickUpper:             rawUpper,
		TickLower:                lower,
		TickUpper:                upper,
		BaseAmount:               baseAmount,
		RequiredOtherTokenAmount: est.LimitB,
		Estimate:                 est,
	}, nil
}

func validate(r PriceRange, baseAmount cosmath.Int) error {
	switch {
	case !r.MinPrice.IsPositive():
		return fmt.Errorf("%w: min price %s must be positive", ErrInvalidPoolParameters, r.MinPrice)
	case !r.MinPrice.LessThan(r.MaxPrice):
		return fmt.Errorf("%w: min price %s must be below max price %s", ErrInvalidPoolParameters, r.MinPrice, r.MaxPrice)
	case r.FeeTier.IsNegative() || r.FeeTier.GreaterThan(decimal.NewFromInt(1)):
		return fmt.Errorf("%w: fee tier %s outside [0, 1]", ErrInvalidPoolParameters, r.FeeTier)
	case r.BaseDecimals < 0 || r.BaseDecimals > maxCoinDecimals || r.QuoteDecimals < 0 || r.QuoteDecimals > maxCoinDecimals:
		return fmt.Errorf("%w: decimals %d/%d outside [0, %d]", ErrInvalidPoolParameters, r.BaseDecimals, r.QuoteDecimals, maxCoinDecimals)
	case baseAmount.IsNil() || !baseAmount.IsPositive():
		return fmt.Errorf("%w: base amount must be positive", ErrInvalidPoolParameters)
	case baseAmount.GT(maxU64):
		return fmt.Errorf("%w: base amount %s exceeds u64", ErrInvalidPoolParameters, baseAmount)
	}
	return nil
}

// AlignDown rounds tick toward negative infinity to a multiple of spacing.
func AlignDown(tick, spacing int32) int32 {
	q := tick / spacing
	if tick%spacing != 0 && tick < 0 {
		q--
	}
	return q * spacing
}

// AlignUp rounds tick toward positive infinity to a multiple of spacing.
func AlignUp(tick, spacing int32) int32 {
	q := tick / spacing
	if tick%spacing != 0 && tick > 0 {
		q++
	}
	return q * spacing
}
