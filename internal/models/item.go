package models

import "github.com/shopspring/decimal"

// StoreItem is a one-off purchase offered by the in-app market
type StoreItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

// Stats is derived from the whole directory on every read
type Stats struct {
	TotalLiquidity decimal.Decimal `json:"total_liquidity"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
	EntityCount    int             `json:"entity_count"`
}
