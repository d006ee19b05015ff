package extract

import (
	"strings"

	"github.com/joseph-ayodele/scanrename/internal/entity"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
)

// CaseNumberExtractor looks for a file reference below a "please quote in reply" anchor
// or after a reference keyword.
type CaseNumberExtractor struct{}

func (CaseNumberExtractor) Kind() entity.FieldKind { return entity.FieldCaseNumber }

func (CaseNumberExtractor) Extract(doc entity.Document, cfg heuristics.Config) (entity.ExtractedField, bool) {
	lines := groupLines(doc.Page.Tokens, cfg.Px(cfg.LineToleranceCM, doc.Page.DPI))

	best, source := "", ""
	consider := func(c, src string) {
		c = trimContinuation(c)
		if len([]rune(c)) > len([]rune(best)) {
			best, source = c, src
		}
	}

	for i, l := range lines {
		words := l.Words()
		if matchesAnyPhrase(words, cfg.CaseAnchors) {
			if j := i + cfg.CaseSkipLines; j < len(lines) {
				consider(joinCapped(lines[j].Tokens, cfg.CaseMaxChars), "anchor_phrase")
			}
			continue
		}
		idx := keywordIndex(words, cfg.CaseKeywords)
		if idx < 0 {
			continue
		}
		if rest := strings.Join(words[idx+1:], " "); strings.TrimSpace(trimLabel(rest)) != "" {
			consider(capRunes(trimLabel(rest), cfg.CaseMaxChars), "keyword_inline")
			continue
		}
		if j := i + cfg.CaseSkipLines; j < len(lines) {
			consider(joinCapped(lines[j].Tokens, cfg.CaseMaxChars), "keyword_line")
		}
	}

	if best == "" {
		return entity.ExtractedField{}, false
	}
	return entity.ExtractedField{Kind: entity.FieldCaseNumber, Value: best, Source: source, Rank: entity.RankCaseNumber}, true
}

// matchesAnyPhrase reports whether words contain one of the phrases as a contiguous run.
func matchesAnyPhrase(words []string, phrases [][]string) bool {
	bare := make([]string, len(words))
	for i, w := range words {
		bare[i] = bareWord(w)
	}
	for _, phrase := range phrases {
		if len(phrase) == 0 || len(phrase) > len(bare) {
			continue
		}
	outer:
		for i := 0; i+len(phrase) <= len(bare); i++ {
			for k, p := range phrase {
				if bare[i+k] != strings.ToLower(p) {
					continue outer
				}
			}
			return true
		}
	}
	return false
}

func keywordIndex(words, keywords []string) int {
	for i, w := range words {
		bw := bareWord(w)
		for _, kw := range keywords {
			if bw == strings.ToLower(kw) {
				return i
			}
		}
	}
	return -1
}

// joinCapped concatenates tokens with single spaces until max runes are reached.
func joinCapped(tokens []entity.Token, max int) string {
	var b strings.Builder
	for _, t := range tokens {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		if max > 0 && len([]rune(b.String())) >= max {
			break
		}
	}
	return capRunes(b.String(), max)
}

// trimLabel strips the separator that usually follows a keyword ("Aktenzeichen: 4 K 12/23").
func trimLabel(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), ":.-"))
}

func trimContinuation(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "-/ "))
}
