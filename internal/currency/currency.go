package currency

// The storefront shows prices in three currencies with a fixed conversion
// table; lev is the base the catalog prices are stored in. Previously every
// page component carried its own copy of this table.

const Base = "lev"

var rates = map[string]float64{
	"lev":    1,
	"dollar": 0.55,
	"euro":   0.51,
}

var symbols = map[string]string{
	"lev":    "лв.",
	"dollar": "$",
	"euro":   "€",
}

// Convert converts a lev price into the given currency. Unknown codes fall
// back to the base rate, mirroring the client behaviour.
func Convert(price float64, code string) float64 {
	rate, ok := rates[code]
	if !ok {
		rate = 1
	}
	return price * rate
}

func Symbol(code string) string {
	s, ok := symbols[code]
	if !ok {
		return symbols[Base]
	}
	return s
}

func Rates() map[string]float64 {
	out := make(map[string]float64, len(rates))
	for code, rate := range rates {
		out[code] = rate
	}
	return out
}

func Symbols() map[string]string {
	out := make(map[string]string, len(symbols))
	for code, sym := range symbols {
		out[code] = sym
	}
	return out
}
