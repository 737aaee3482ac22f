package entity

// HeldAsset is a portfolio position whose price the resolver refreshes.
type HeldAsset struct {
	ID           string
	Symbol       string
	Market       string
	CurrentPrice float64 // last known price stored on the asset
}

// Key returns the instrument key the asset refers to.
func (a HeldAsset) Key() InstrumentKey {
	return InstrumentKey{Symbol: a.Symbol, Market: a.Market}
}
