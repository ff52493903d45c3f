package addition

import "strings"

var (
	unitWords    = []string{"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	teenWords    = []string{"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve"}
	twentyWords  = []string{"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve"}
	tensWords    = []string{"", "", "veinte", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}
	hundredWords = []string{"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos"}
)

// SpellNumber writes n in Spanish words, e.g. 27 → "veintisiete".
func SpellNumber(n int) string {
	if n == 0 {
		return "cero"
	}
	if n < 0 {
		return "menos " + SpellNumber(-n)
	}
	return strings.Join(spell(n, false), " ")
}

// spell returns the words of n > 0. With apocope a trailing "uno" is
// shortened, as in "veintiún mil" or "un millón".
func spell(n int, apocope bool) []string {
	var parts []string

	if m := n / 1_000_000; m > 0 {
		if m == 1 {
			parts = append(parts, "un millón")
		} else {
			parts = append(parts, spell(m, true)...)
			parts = append(parts, "millones")
		}
		n %= 1_000_000
	}

	if k := n / 1000; k > 0 {
		if k == 1 {
			parts = append(parts, "mil")
		} else {
			parts = append(parts, spell(k, true)...)
			parts = append(parts, "mil")
		}
		n %= 1000
	}

	if h := n / 100; h > 0 {
		if h == 1 && n%100 == 0 {
			parts = append(parts, "cien")
		} else {
			parts = append(parts, hundredWords[h])
		}
		n %= 100
	}

	switch {
	case n == 0:
	case n < 10:
		parts = append(parts, apocopate(unitWords[n], apocope))
	case n < 20:
		parts = append(parts, teenWords[n-10])
	case n < 30:
		if n == 21 && apocope {
			parts = append(parts, "veintiún")
		} else {
			parts = append(parts, twentyWords[n-20])
		}
	default:
		word := tensWords[n/10]
		if u := n % 10; u > 0 {
			word += " y " + apocopate(unitWords[u], apocope)
		}
		parts = append(parts, word)
	}

	return parts
}

func apocopate(word string, apocope bool) string {
	if apocope && word == "uno" {
		return "un"
	}
	return word
}
