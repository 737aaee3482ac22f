package dto

// AssetItem は価格解決の対象となる保有資産です。
type AssetItem struct {
	ID           string  `json:"id" binding:"required"`
	Symbol       string  `json:"symbol" binding:"required"`
	Market       string  `json:"market" binding:"required"`
	CurrentPrice float64 `json:"currentPrice"`
}

// ResolvePricesRequest は POST /prices/resolve のリクエストボディです。
type ResolvePricesRequest struct {
	Assets []AssetItem `json:"assets" binding:"required,dive"`
}

// ResolvePricesResponse は資産IDごとの解決済み価格です。
type ResolvePricesResponse struct {
	Prices map[string]float64 `json:"prices"`
}
