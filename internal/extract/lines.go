package extract

import (
	"sort"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/scanrename/internal/entity"
)

// line is a run of tokens sharing a baseline, ordered left to right.
// Y is the top of the highest token and Bottom the lowest token edge.
type line struct {
	Y      float64
	Bottom float64
	Tokens []entity.Token
}

func (l line) Text() string {
	parts := make([]string, 0, len(l.Tokens))
	for _, t := range l.Tokens {
		if s := strings.TrimSpace(t.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Words splits the line text on whitespace.
func (l line) Words() []string {
	return strings.Fields(l.Text())
}

// groupLines sorts tokens into reading order: top to bottom, then left to right.
// A token joins the current line when its top is within tol of the line top or
// its vertical centre lies no more than tol/2 below the line's lowest edge. Word
// tops on one printed line differ by cap height minus x-height, so tops alone split it.
func groupLines(tokens []entity.Token, tol float64) []line {
	if len(tokens) == 0 {
		return nil
	}
	sorted := make([]entity.Token, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) != "" {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var out []line
	for _, t := range sorted {
		if n := len(out); n > 0 && out[n-1].accepts(t, tol) {
			l := &out[n-1]
			l.Tokens = append(l.Tokens, t)
			l.Bottom = max(l.Bottom, t.Y+t.Height)
			continue
		}
		out = append(out, line{Y: t.Y, Bottom: t.Y + t.Height, Tokens: []entity.Token{t}})
	}
	for i := range out {
		toks := out[i].Tokens
		sort.SliceStable(toks, func(a, b int) bool { return toks[a].X < toks[b].X })
	}
	return out
}

func (l line) accepts(t entity.Token, tol float64) bool {
	if t.Y-l.Y <= tol {
		return true
	}
	// Tokens arrive sorted by top, so only the lower edge needs checking.
	return t.Y+t.Height/2 <= l.Bottom+tol/2
}

// readingOrder flattens grouped lines back into a token slice.
func readingOrder(tokens []entity.Token, tol float64) []entity.Token {
	var out []entity.Token
	for _, l := range groupLines(tokens, tol) {
		out = append(out, l.Tokens...)
	}
	return out
}

// bareWord lowercases w and trims leading and trailing punctuation.
func bareWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

// capRunes truncates s to at most n runes.
func capRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
