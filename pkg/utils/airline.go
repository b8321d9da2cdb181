package utils

import (
	"regexp"
	"strings"

	"flighttrack-service/internal/domain/entity"
)

var flightNumberPattern = regexp.MustCompile(`^[A-Z0-9]{2,3}[0-9]{1,5}$`)

// iataToICAO maps IATA airline designators to their ICAO equivalents. Some
// provider endpoints index flights only under the ICAO code, so lookups that
// miss on the IATA ident are retried once with the converted code.
var iataToICAO = map[string]string{
	"AA": "AAL", "AC": "ACA", "AF": "AFR", "AI": "AIC", "AS": "ASA",
	"AY": "FIN", "AZ": "ITY", "B6": "JBU", "BA": "BAW", "BR": "EVA",
	"CA": "CCA", "CI": "CAL", "CX": "CPA", "CZ": "CSN", "DL": "DAL",
	"EI": "EIN", "EK": "UAE", "ET": "ETH", "EY": "ETD", "F9": "FFT",
	"FR": "RYR", "GA": "GIA", "GF": "GFA", "HA": "HAL", "IB": "IBE",
	"JL": "JAL", "JQ": "JST", "KE": "KAL", "KL": "KLM", "KU": "KAC",
	"LH": "DLH", "LO": "LOT", "LX": "SWR", "MH": "MAS", "MS": "MSR",
	"MU": "CES", "NH": "ANA", "NK": "NKS", "NZ": "ANZ", "OS": "AUA",
	"OZ": "AAR", "PK": "PIA", "PR": "PAL", "QF": "QFA", "QR": "QTR",
	"RJ": "RJA", "SK": "SAS", "SN": "BEL", "SQ": "SIA", "SV": "SVA",
	"TG": "THA", "TK": "THY", "TP": "TAP", "U2": "EZY", "UA": "UAL",
	"UL": "ALK", "VA": "VOZ", "VN": "HVN", "VS": "VIR", "W6": "WZZ",
	"WN": "SWA", "WS": "WJA", "WY": "OMA",
}

// NormalizeFlightNumber uppercases and validates a flight number. The format
// is 2-3 alphanumeric characters followed by 1-5 digits.
func NormalizeFlightNumber(flightNumber string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(flightNumber))
	if !flightNumberPattern.MatchString(normalized) {
		return "", entity.ErrInvalidFlightNumber
	}
	return normalized, nil
}

// SplitFlightNumber splits a normalized flight number into its airline
// designator and numeric suffix. A 2-character designator is preferred when
// the remainder is purely numeric ("BA74" -> BA/74, "BAW74" -> BAW/74).
func SplitFlightNumber(flightNumber string) (airline, number string, ok bool) {
	if len(flightNumber) > 2 && allDigits(flightNumber[2:]) {
		return flightNumber[:2], flightNumber[2:], true
	}
	if len(flightNumber) > 3 && allDigits(flightNumber[3:]) {
		return flightNumber[:3], flightNumber[3:], true
	}
	return "", "", false
}

// LookupICAO returns the ICAO designator for an IATA airline code.
func LookupICAO(iata string) (string, bool) {
	icao, ok := iataToICAO[iata]
	return icao, ok
}

// ICAOFlightNumber converts the airline prefix of a flight number to its ICAO
// equivalent, when a mapping exists ("BA74" -> "BAW74").
func ICAOFlightNumber(flightNumber string) (string, bool) {
	airline, number, ok := SplitFlightNumber(flightNumber)
	if !ok {
		return "", false
	}
	icao, ok := iataToICAO[airline]
	if !ok {
		return "", false
	}
	return icao + number, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
