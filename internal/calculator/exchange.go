package calculator

import "strings"

// exchangeNames maps raw provider exchange codes to the name shown on the
// dashboard. Several codes collapse to one name (the NASDAQ tiers).
var exchangeNames = map[string]string{
	"NMS": "NASDAQ",
	"NGM": "NASDAQ",
	"NCM": "NASDAQ",
	"NAS": "NASDAQ",
	"NYQ": "NYSE",
	"ASE": "NYSE American",
	"PCX": "NYSE Arca",
	"BTS": "Cboe BZX",
	"CCC": "Crypto",
	"CXI": "Crypto",
	"TOR": "TSX",
	"VAN": "TSXV",
	"LSE": "LSE",
	"GER": "XETRA",
	"HKG": "HKEX",
	"JPX": "TSE",
}

// otcCodes are over-the-counter tiers. Quotes from them are never reported
// with an exchange or market state.
var otcCodes = map[string]bool{
	"PNK": true,
	"OQB": true,
	"OQX": true,
	"OEM": true,
	"OBB": true,
	"OTC": true,
}

// IsOTC reports whether the exchange is an over-the-counter tier, either by
// exact code or by "OTC"/"pink" appearing in the full exchange name.
func IsOTC(code, fullName string) bool {
	if otcCodes[strings.ToUpper(strings.TrimSpace(code))] {
		return true
	}
	name := strings.ToLower(fullName)
	return strings.Contains(name, "otc") || strings.Contains(name, "pink")
}

// ExchangeDisplayName resolves the dashboard name for an exchange. Unmapped
// codes fall back to the full exchange name, then to the raw code. ok is
// false for OTC tiers and when neither code nor name is known.
func ExchangeDisplayName(code, fullName string) (name string, ok bool) {
	if IsOTC(code, fullName) {
		return "", false
	}
	if n, found := exchangeNames[strings.ToUpper(strings.TrimSpace(code))]; found {
		return n, true
	}
	if fullName != "" {
		return fullName, true
	}
	if code != "" {
		return code, true
	}
	return "", false
}
