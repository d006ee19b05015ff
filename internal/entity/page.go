package entity

import "strings"

// Token is one recognized text unit with its position on the page.
// Coordinates are top-left based, y grows downward, in pixels at Page.DPI.
type Token struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Bold       bool    `json:"bold,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Bottom returns the lower edge of the token.
func (t Token) Bottom() float64 { return t.Y + t.Height }

// Page is the first page of one document as delivered by a token source.
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	DPI    float64 `json:"dpi"`
	Tokens []Token `json:"tokens"`
	Source string  `json:"source"` // "pdf-text" | "pdf-ocr" | "image-ocr"
}

// Text joins all token texts with single spaces, in source order.
func (p Page) Text() string {
	parts := make([]string, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

// Document is the unit handed to field extractors.
type Document struct {
	Path string `json:"path"`
	Page Page   `json:"page"`
}
