// Package slug derives filesystem and DNS safe identifiers from
// human-entered environment names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transliterations covers letters that have no decomposition into an ASCII
// base plus marks, and the symbols spelled out as words. German umlauts are
// spelled out before the generic mark folding turns them into a bare vowel.
//
//nolint:gochecknoglobals // immutable lookup table
var transliterations = strings.NewReplacer(
	"&", " and ",
	"♥", " love ",
	"🦄", " unicorn ",
	"Ä", "Ae", "ä", "ae",
	"Ö", "Oe", "ö", "oe",
	"Ü", "Ue", "ü", "ue",
	"ß", "ss", "ẞ", "SS",
	"Æ", "AE", "æ", "ae",
	"Œ", "OE", "œ", "oe",
	"Ø", "O", "ø", "o",
	"Ð", "D", "ð", "d",
	"Đ", "D", "đ", "d",
	"Þ", "TH", "þ", "th",
	"Ł", "L", "ł", "l",
	"Ŀ", "L", "ŀ", "l",
	"Ħ", "H", "ħ", "h",
	"Ŧ", "T", "ŧ", "t",
	"Ĳ", "IJ", "ĳ", "ij",
	"ı", "i",
)

// camelBoundaries split "MySite" into "My Site" and "APIKey" into
// "API Key". They run in order; plural acronyms such as "APIs" stay whole.
//
//nolint:gochecknoglobals // compiled once
var camelBoundaries = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z]{2,})(\d+)`),
	regexp.MustCompile(`([a-z\d]+)([A-Z]{2,})`),
	regexp.MustCompile(`([a-z\d])([A-Z])`),
	regexp.MustCompile(`([A-Z]+)([A-Z][a-rt-z\d]+)`),
}

// Make transliterates name to ASCII, splits camel case words, lowercases,
// collapses every run of non-alphanumeric characters into a single hyphen
// and trims hyphens from both ends. Characters with no ASCII spelling are
// dropped. Make is idempotent: Make(Make(x)) == Make(x).
//
//	Make("docker.test")  // "docker-test"
//	Make("Straße & Co")  // "strasse-and-co"
//	Make("MySite.test")  // "my-site-test"
func Make(name string) string {
	folded, _, err := transform.String(foldChain(), transliterations.Replace(name))
	if err != nil {
		folded = name
	}
	for _, re := range camelBoundaries {
		folded = re.ReplaceAllString(folded, "$1 $2")
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if isSlugRune(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// foldChain decomposes runes, drops combining marks and recomposes.
// A transform.Transformer is stateful, so each call builds its own chain.
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
