package model

// CoinMeta captures on-chain coin metadata for a coin type.
type CoinMeta struct {
	CoinType string `json:"coin_type"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}
