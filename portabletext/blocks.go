// Package portabletext decodes rich-text bodies stored by the content store as a
// list of typed blocks, and renders them to HTML as a templ component.
package portabletext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Block is one top-level element of a rich-text body. The set of block kinds
// is closed: Heading, ListItem, Paragraph, Quote, Image and Unknown.
type Block interface {
	block()
}

// ListKind is the marker style of a list item.
type ListKind string

const (
	Bullet ListKind = "bullet"
	Number ListKind = "number"
)

// Heading is a block styled h1 through h6.
type Heading struct {
	Key      string
	Level    int
	Children []Span
}

// ListItem is a block belonging to a bulleted or numbered list. Level starts at 1.
type ListItem struct {
	Key      string
	Kind     ListKind
	Level    int
	Children []Span
}

// Paragraph is a plain text block, and the fallback for unrecognised styles.
type Paragraph struct {
	Key      string
	Children []Span
}

// Quote is a block styled as a blockquote.
type Quote struct {
	Key      string
	Children []Span
}

// Image is an inline image block referencing an uploaded asset.
type Image struct {
	Key string
	Ref string
	Alt string
}

// Unknown is any block type the renderer has no dedicated rule for.
type Unknown struct {
	Key      string
	Type     string
	Children []Span
}

func (Heading) block()   {}
func (ListItem) block()  {}
func (Paragraph) block() {}
func (Quote) block()     {}
func (Image) block()     {}
func (Unknown) block()   {}

// Span is a run of text with its decorators and an optional link target.
type Span struct {
	Text       string
	Decorators []string
	Link       string
}

// Blocks is a decoded rich-text body.
type Blocks []Block

var decorators = map[string]struct{}{
	"strong":         {},
	"em":             {},
	"code":           {},
	"underline":      {},
	"strike-through": {},
}

type rawBlock struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key"`
	Style    string    `json:"style"`
	ListItem string    `json:"listItem"`
	Level    int       `json:"level"`
	Children []rawSpan `json:"children"`
	MarkDefs []markDef `json:"markDefs"`
	Asset    *struct {
		Ref string `json:"_ref"`
	} `json:"asset"`
	Alt string `json:"alt"`
}

type rawSpan struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

type markDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href"`
}

// UnmarshalJSON decodes the store's block array into the closed Block set.
func (b *Blocks) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}
	var raws []rawBlock
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("portabletext: decode blocks: %w", err)
	}
	out := make(Blocks, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.decode())
	}
	*b = out
	return nil
}

func (r rawBlock) decode() Block {
	switch r.Type {
	case "block":
		spans := r.spans()
		switch {
		case r.ListItem != "":
			kind := Bullet
			if r.ListItem == string(Number) {
				kind = Number
			}
			level := r.Level
			if level < 1 {
				level = 1
			}
			return ListItem{Key: r.Key, Kind: kind, Level: level, Children: spans}
		case headingLevel(r.Style) > 0:
			return Heading{Key: r.Key, Level: headingLevel(r.Style), Children: spans}
		case r.Style == "blockquote":
			return Quote{Key: r.Key, Children: spans}
		default:
			return Paragraph{Key: r.Key, Children: spans}
		}
	case "image":
		img := Image{Key: r.Key, Alt: r.Alt}
		if r.Asset != nil {
			img.Ref = r.Asset.Ref
		}
		return img
	default:
		return Unknown{Key: r.Key, Type: r.Type, Children: r.spans()}
	}
}

func headingLevel(style string) int {
	if len(style) == 2 && style[0] == 'h' && style[1] >= '1' && style[1] <= '6' {
		return int(style[1] - '0')
	}
	return 0
}

// spans resolves each child's marks: keys found in markDefs become the link
// target, known decorators are kept, anything else is dropped.
func (r rawBlock) spans() []Span {
	links := make(map[string]string, len(r.MarkDefs))
	for _, d := range r.MarkDefs {
		if d.Type == "link" {
			links[d.Key] = d.Href
		}
	}
	spans := make([]Span, 0, len(r.Children))
	for _, c := range r.Children {
		s := Span{Text: c.Text}
		for _, m := range c.Marks {
			if href, ok := links[m]; ok {
				s.Link = href
				continue
			}
			if _, ok := decorators[m]; ok {
				s.Decorators = append(s.Decorators, m)
			}
		}
		spans = append(spans, s)
	}
	return spans
}

// PlainText flattens blocks into text, one paragraph per block.
func PlainText(blocks Blocks) string {
	var parts []string
	for _, b := range blocks {
		var spans []Span
		switch b := b.(type) {
		case Heading:
			spans = b.Children
		case ListItem:
			spans = b.Children
		case Paragraph:
			spans = b.Children
		case Quote:
			spans = b.Children
		case Unknown:
			spans = b.Children
		}
		var sb strings.Builder
		for _, s := range spans {
			sb.WriteString(s.Text)
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
