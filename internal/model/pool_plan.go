package model

// PoolPlanRecord is a computed pool creation plan. Large integers are decimal
// strings so they survive JSON consumers limited to float64.
type PoolPlanRecord struct {
	CoinTypeA           string `json:"coin_type_a,omitempty"`
	CoinTypeB           string `json:"coin_type_b,omitempty"`
	DecimalsA           int    `json:"decimals_a"`
	DecimalsB           int    `json:"decimals_b"`
	MinPrice            string `json:"min_price"`
	MaxPrice            string `json:"max_price"`
	FeeTier             string `json:"fee_tier"`
	TickSpacing         int32  `json:"tick_spacing"`
	InitializeSqrtPrice string `json:"initialize_sqrt_price"`
	RawTickLower        int32  `json:"raw_tick_lower"`
	RawTickUpper        int32  `json:"raw_tick_upper"`
	TickLower           int32  `json:"tick_lower"`
	TickUpper           int32  `json:"tick_upper"`
	Liquidity           string `json:"liquidity"`
	AmountA             string `json:"amount_a"`
	AmountB             string `json:"amount_b"`
	EstimatedAmountB    string `json:"estimated_amount_b"`
	FixAmountA          bool   `json:"fix_amount_a"`
	Slippage            string `json:"slippage"`
	CreatedAt           string `json:"created_at"`
}
