package portabletext

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

const sampleBody = `[
  {"_type":"block","_key":"a","style":"h1","children":[{"_type":"span","text":"Title","marks":[]}],"markDefs":[]},
  {"_type":"block","_key":"b","style":"h2","children":[{"_type":"span","text":"Sub","marks":[]}],"markDefs":[]},
  {"_type":"block","_key":"c","style":"normal","children":[
    {"_type":"span","text":"Read ","marks":[]},
    {"_type":"span","text":"this","marks":["lnk1","strong"]}
  ],"markDefs":[{"_key":"lnk1","_type":"link","href":"https://example.com"}]},
  {"_type":"block","_key":"d","style":"normal","listItem":"bullet","level":1,"children":[{"_type":"span","text":"one","marks":[]}],"markDefs":[]},
  {"_type":"block","_key":"e","style":"normal","listItem":"bullet","level":1,"children":[{"_type":"span","text":"two","marks":[]}],"markDefs":[]},
  {"_type":"image","_key":"f","asset":{"_ref":"image-abc-10x20-png","_type":"reference"},"alt":"pic"},
  {"_type":"youtube","_key":"g","url":"https://youtu.be/x"}
]`

func decode(t *testing.T, body string) Blocks {
	t.Helper()
	var blocks Blocks
	if err := json.Unmarshal([]byte(body), &blocks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return blocks
}

func TestUnmarshalBlockKinds(t *testing.T) {
	blocks := decode(t, sampleBody)
	if len(blocks) != 7 {
		t.Fatalf("len(blocks) = %d, want 7", len(blocks))
	}
	if h, ok := blocks[0].(Heading); !ok || h.Level != 1 {
		t.Errorf("blocks[0] = %#v, want Heading level 1", blocks[0])
	}
	if h, ok := blocks[1].(Heading); !ok || h.Level != 2 {
		t.Errorf("blocks[1] = %#v, want Heading level 2", blocks[1])
	}
	p, ok := blocks[2].(Paragraph)
	if !ok {
		t.Fatalf("blocks[2] = %#v, want Paragraph", blocks[2])
	}
	if p.Children[1].Link != "https://example.com" {
		t.Errorf("link = %q, want https://example.com", p.Children[1].Link)
	}
	if len(p.Children[1].Decorators) != 1 || p.Children[1].Decorators[0] != "strong" {
		t.Errorf("decorators = %v, want [strong]", p.Children[1].Decorators)
	}
	if li, ok := blocks[3].(ListItem); !ok || li.Kind != Bullet || li.Level != 1 {
		t.Errorf("blocks[3] = %#v, want bullet ListItem", blocks[3])
	}
	if img, ok := blocks[5].(Image); !ok || img.Ref != "image-abc-10x20-png" || img.Alt != "pic" {
		t.Errorf("blocks[5] = %#v, want Image", blocks[5])
	}
	if u, ok := blocks[6].(Unknown); !ok || u.Type != "youtube" {
		t.Errorf("blocks[6] = %#v, want Unknown youtube", blocks[6])
	}
}

func TestUnmarshalNull(t *testing.T) {
	var blocks Blocks
	if err := json.Unmarshal([]byte("null"), &blocks); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if blocks != nil {
		t.Errorf("blocks = %v, want nil", blocks)
	}
}

func TestUnmarshalUnknownStyleIsParagraph(t *testing.T) {
	blocks := decode(t, `[{"_type":"block","style":"h9","children":[{"_type":"span","text":"x"}]}]`)
	if _, ok := blocks[0].(Paragraph); !ok {
		t.Errorf("blocks[0] = %#v, want Paragraph", blocks[0])
	}
}

func TestRenderSerializers(t *testing.T) {
	blocks := decode(t, sampleBody)
	var buf bytes.Buffer
	Render(&buf, blocks, Options{ImageURL: func(ref string) string { return "https://cdn.test/" + ref }})
	got := buf.String()

	tests := []string{
		`<h1 class="my-5 text-2xl font-bold">Title</h1>`,
		`<h2 class="my-5 text-xl font-bold">Sub</h2>`,
		`<p>Read <a href="https://example.com" class="hover-underline text-blue-500"><strong>this</strong></a></p>`,
		`<ul><li class="ml-4 list-disc">one</li><li class="ml-4 list-disc">two</li></ul>`,
		`<img class="my-5" src="https://cdn.test/image-abc-10x20-png" alt="pic" loading="lazy" decoding="async"/>`,
	}
	for _, want := range tests {
		if !strings.Contains(got, want) {
			t.Errorf("Render output missing %q\ngot: %s", want, got)
		}
	}
	if strings.Contains(got, "youtube") {
		t.Errorf("unknown block without text should render nothing: %s", got)
	}
}

func TestRenderSkipsImagesWithoutResolver(t *testing.T) {
	blocks := Blocks{Image{Ref: "image-abc-10x20-png"}}
	var buf bytes.Buffer
	Render(&buf, blocks, Options{})
	if buf.Len() != 0 {
		t.Errorf("Render = %q, want empty", buf.String())
	}
}

func TestRenderNestedAndMixedLists(t *testing.T) {
	blocks := Blocks{
		ListItem{Kind: Bullet, Level: 1, Children: []Span{{Text: "a"}}},
		ListItem{Kind: Bullet, Level: 2, Children: []Span{{Text: "b"}}},
		ListItem{Kind: Bullet, Level: 1, Children: []Span{{Text: "c"}}},
		ListItem{Kind: Number, Level: 1, Children: []Span{{Text: "d"}}},
		Paragraph{Children: []Span{{Text: "e"}}},
	}
	var buf bytes.Buffer
	Render(&buf, blocks, Options{})
	want := `<ul><li class="ml-4 list-disc">a<ul><li class="ml-4 list-disc">b</li></ul></li>` +
		`<li class="ml-4 list-disc">c</li></ul>` +
		`<ol><li class="ml-4 list-decimal">d</li></ol><p>e</p>`
	if got := buf.String(); got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatSpan(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want string
	}{
		{"escapes html", Span{Text: "<b>&"}, "&lt;b&gt;&amp;"},
		{"line break", Span{Text: "a\nb"}, "a<br/>b"},
		{"nested decorators", Span{Text: "x", Decorators: []string{"strong", "em"}}, "<strong><em>x</em></strong>"},
		{"code", Span{Text: "x", Decorators: []string{"code"}}, "<code>x</code>"},
		{"unsafe link dropped", Span{Text: "x", Link: "javascript:alert(1)"}, "x"},
		{"relative link", Span{Text: "x", Link: "/post/a"}, `<a href="/post/a" class="hover-underline text-blue-500">x</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSpan(tt.span); got != tt.want {
				t.Errorf("FormatSpan(%+v) = %q, want %q", tt.span, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	blocks := decode(t, sampleBody)
	got := PlainText(blocks)
	want := "Title\n\nSub\n\nRead this\n\none\n\ntwo"
	if got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}
}
