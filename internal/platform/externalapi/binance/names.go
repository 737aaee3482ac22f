package binance

// names maps base assets to display names. Unlisted assets use the ticker itself.
var names = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"BNB":   "Binance Coin",
	"XRP":   "XRP",
	"ADA":   "Cardano",
	"SOL":   "Solana",
	"DOGE":  "Dogecoin",
	"DOT":   "Polkadot",
	"MATIC": "Polygon",
	"LTC":   "Litecoin",
	"AVAX":  "Avalanche",
	"LINK":  "Chainlink",
	"ATOM":  "Cosmos",
	"UNI":   "Uniswap",
	"TRX":   "TRON",
	"XLM":   "Stellar",
	"ALGO":  "Algorand",
	"VET":   "VeChain",
	"FIL":   "Filecoin",
	"ETC":   "Ethereum Classic",
	"XMR":   "Monero",
	"THETA": "Theta",
	"ICP":   "Internet Computer",
	"FTM":   "Fantom",
	"NEAR":  "NEAR Protocol",
	"APE":   "ApeCoin",
	"SAND":  "The Sandbox",
	"MANA":  "Decentraland",
	"AXS":   "Axie Infinity",
	"SHIB":  "Shiba Inu",
}

func displayName(base string) string {
	if n, ok := names[base]; ok {
		return n
	}
	return base
}
