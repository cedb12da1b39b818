package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	assert.Equal(t, 100.0, Convert(100, "lev"))
	assert.Equal(t, 55.0, Convert(100, "dollar"))
	assert.Equal(t, 51.0, Convert(100, "euro"))
	// unknown codes fall back to the base rate
	assert.Equal(t, 100.0, Convert(100, "yen"))
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "лв.", Symbol("lev"))
	assert.Equal(t, "$", Symbol("dollar"))
	assert.Equal(t, "€", Symbol("euro"))
	assert.Equal(t, "лв.", Symbol("yen"))
}

func TestRatesReturnsCopy(t *testing.T) {
	rates := Rates()
	rates["dollar"] = 99

	assert.Equal(t, 0.55, Rates()["dollar"])
}

func TestSymbolsReturnsCopy(t *testing.T) {
	symbols := Symbols()
	symbols["lev"] = "BGN"

	assert.Equal(t, "лв.", Symbols()["lev"])
}
