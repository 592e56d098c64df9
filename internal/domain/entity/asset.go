package entity

import "github.com/shopspring/decimal"

const (
	AssetNEO = "NEO"
	AssetGAS = "GAS"
)

// assetDecimals holds the precision of the native assets. NEO is indivisible.
var assetDecimals = map[string]int32{ //nolint:gochecknoglobals
	AssetNEO: 0,
	AssetGAS: 8,
}

// AssetDecimals returns the number of decimal places allowed for a native asset.
// The second value is false for symbols that are not native assets.
func AssetDecimals(symbol string) (int32, bool) {
	d, ok := assetDecimals[symbol]
	return d, ok
}

// FormatAmount renders native assets at their fixed precision and tokens as-is.
func FormatAmount(symbol string, amount decimal.Decimal) string {
	if decimals, ok := AssetDecimals(symbol); ok {
		return amount.StringFixed(decimals)
	}
	return amount.String()
}
