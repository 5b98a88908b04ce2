package outline

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	"github.com/fumiama/go-docx"
)

// shape renders a forest as "id(child,child)" for compact comparisons.
func shape(forest []*categorytree.Node) string {
	parts := make([]string, 0, len(forest))
	for _, n := range forest {
		s := n.ID
		if len(n.Children) > 0 {
			s += "(" + shape(n.Children) + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ",")
}

func TestMarkdownParser_HeadingsAndLists(t *testing.T) {
	input := `# Apparel

Intro text is ignored.

- Shirts
  - Tees {#tees}
  - Polos
- Hats

## Shoes

# Toys
`
	p := &MarkdownParser{}
	forest, err := p.Parse(strings.NewReader(input), "catalog.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "apparel(apparel/shirts(tees,apparel/shirts/polos),apparel/hats,apparel/shoes),toys"
	if got := shape(forest); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if forest[0].Children[0].Children[0].Title != "Tees" {
		t.Errorf("expected title %q, got %q", "Tees", forest[0].Children[0].Children[0].Title)
	}
	if _, err := categorytree.Build(forest); err != nil {
		t.Errorf("expected a valid forest, got %v", err)
	}
}

func TestMarkdownParser_SkippedLevels(t *testing.T) {
	input := "# A\n\n### C\n\n## B\n"
	p := &MarkdownParser{}
	forest, err := p.Parse(strings.NewReader(input), "skip.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := shape(forest); got != "a(a/c,a/b)" {
		t.Errorf("expected %q, got %q", "a(a/c,a/b)", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	forest, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forest) != 0 {
		t.Errorf("expected empty forest, got %d roots", len(forest))
	}
}

func TestBuilder_CollidingSlugs(t *testing.T) {
	b := newBuilder()
	b.push(1, "Sale")
	b.push(1, "Sale")
	b.push(1, "Sale!")
	if got := shape(b.forest()); got != "sale,sale-2,sale-3" {
		t.Errorf("expected %q, got %q", "sale,sale-2,sale-3", got)
	}
}

func TestBuilder_ExplicitDuplicateSurfacesInBuild(t *testing.T) {
	b := newBuilder()
	b.push(1, "One {#x}")
	b.push(1, "Two {#x}")
	_, err := categorytree.Build(b.forest())
	if !errors.Is(err, categorytree.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		raw, title, id string
	}{
		{"Tees {#tees}", "Tees", "tees"},
		{"  Tees  ", "Tees", ""},
		{"Braces {not an id}", "Braces {not an id}", ""},
		{"{#only}", "", "only"},
	}
	for _, tc := range tests {
		title, id := splitTitle(tc.raw)
		if title != tc.title || id != tc.id {
			t.Errorf("splitTitle(%q): expected (%q, %q), got (%q, %q)", tc.raw, tc.title, tc.id, title, id)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Men's Shoes":   "men-s-shoes",
		"  Tees  ":      "tees",
		"---":           "",
		"A & B / C":     "a-b-c",
		strings.Repeat("x", 60): strings.Repeat("x", 50),
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestTextParser_Indentation(t *testing.T) {
	input := "Apparel\n\t- Shirts\n\t\tTees {#tees}\n        Polos\n  Hats\n\nToys\n"
	p := &TextParser{}
	forest, err := p.Parse(strings.NewReader(input), "outline.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "apparel(apparel/shirts(tees,apparel/shirts/polos),apparel/hats),toys"
	if got := shape(forest); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	forest, err := p.Parse(strings.NewReader("\n\n   \n"), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forest) != 0 {
		t.Errorf("expected empty forest, got %d roots", len(forest))
	}
}

func TestHTMLParser_HeadingsAndLists(t *testing.T) {
	input := `<html><head><title>x</title></head><body>
<nav><ul><li>Skip me</li></ul></nav>
<h1 id="apparel">Apparel</h1>
<ul>
  <li data-id="shirts">Shirts
    <ul><li>Tees</li><li>Polos</li></ul>
  </li>
  <li>Hats</li>
</ul>
<h1>Toys</h1>
<script>var x = 1;</script>
</body></html>`
	p := &HTMLParser{}
	forest, err := p.Parse(strings.NewReader(input), "catalog.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "apparel(shirts(shirts/tees,shirts/polos),apparel/hats),toys"
	if got := shape(forest); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCSVParser_AnyOrder(t *testing.T) {
	input := "id,parent_id,title\ntees,shirts,Tees\nshirts,apparel,Shirts\napparel,,Apparel\ntoys,,Toys\n"
	p := &CSVParser{}
	forest, err := p.Parse(strings.NewReader(input), "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := shape(forest); got != "apparel(shirts(tees)),toys" {
		t.Errorf("expected %q, got %q", "apparel(shirts(tees)),toys", got)
	}
}

func TestCSVParser_TitlesAsKeys(t *testing.T) {
	input := "name,parent\nApparel,\nShirts,Apparel\n"
	p := &CSVParser{}
	forest, err := p.Parse(strings.NewReader(input), "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := shape(forest); got != "apparel(apparel/shirts)" {
		t.Errorf("expected %q, got %q", "apparel(apparel/shirts)", got)
	}
}

func TestCSVParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  categorytree.IntegrityKind
	}{
		{"duplicate", "id,parent_id,title\na,,A\na,,Again\n", categorytree.KindDuplicateID},
		{"cycle", "id,parent_id,title\nr,,Root\na,b,A\nb,a,B\n", categorytree.KindCycle},
		{"self parent", "id,parent_id,title\na,a,A\n", categorytree.KindCycle},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (&CSVParser{}).Parse(strings.NewReader(tc.input), "bad.csv")
			var ie *categorytree.IntegrityError
			if !errors.As(err, &ie) {
				t.Fatalf("expected IntegrityError, got %v", err)
			}
			if ie.Kind != tc.kind {
				t.Errorf("expected kind %s, got %s", tc.kind, ie.Kind)
			}
		})
	}

	if _, err := (&CSVParser{}).Parse(strings.NewReader("id,parent_id,title\na,zz,A\n"), "bad.csv"); err == nil {
		t.Error("expected error for unknown parent")
	}
	if _, err := (&CSVParser{}).Parse(strings.NewReader("id,parent\na,\n"), "bad.csv"); err == nil {
		t.Error("expected error for missing title column")
	}
}

func TestYAMLParser_Shapes(t *testing.T) {
	wrapped := `categories:
  - title: Apparel
    children:
      - {id: tees, title: Tees}
      - title: Polos
  - id: toys
    title: Toys
`
	bare := `- title: Apparel
  children:
    - {id: tees, title: Tees}
    - title: Polos
- {id: toys, title: Toys}
`
	for name, input := range map[string]string{"wrapped": wrapped, "bare": bare} {
		t.Run(name, func(t *testing.T) {
			forest, err := (&YAMLParser{}).Parse(strings.NewReader(input), "tree.yaml")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := shape(forest); got != "apparel(tees,apparel/polos),toys" {
				t.Errorf("expected %q, got %q", "apparel(tees,apparel/polos),toys", got)
			}
		})
	}

	if _, err := (&YAMLParser{}).Parse(strings.NewReader("just a string"), "bad.yaml"); err == nil {
		t.Error("expected error for scalar document")
	}
}

func TestJSONParser_Shapes(t *testing.T) {
	inputs := map[string]string{
		"wrapped": `{"categories":[{"id":"apparel","title":"Apparel","children":[{"title":"Tees"}]}]}`,
		"bare":    `[{"id":"apparel","title":"Apparel","children":[{"title":"Tees"}]}]`,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			forest, err := (&JSONParser{}).Parse(strings.NewReader(input), "tree.json")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := shape(forest); got != "apparel(apparel/tees)" {
				t.Errorf("expected %q, got %q", "apparel(apparel/tees)", got)
			}
		})
	}

	if _, err := (&JSONParser{}).Parse(strings.NewReader(`"nope"`), "bad.json"); err == nil {
		t.Error("expected error for scalar document")
	}
}

func TestStyleHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 2", 2},
		{"HEADING3", 3},
		{"Heading 6", 6},
		{"Heading7", 0},
		{"Heading", 0},
		{"Title", 0},
		{"Normal", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := styleHeadingLevel(tt.style); got != tt.want {
			t.Errorf("styleHeadingLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}

func TestDOCXParagraph_UnstyledAndText(t *testing.T) {
	if got := docxHeadingLevel(&docx.Paragraph{}); got != 0 {
		t.Errorf("unstyled paragraph level = %d, want 0", got)
	}
	para := &docx.Paragraph{Children: []interface{}{
		&docx.Run{Children: []interface{}{&docx.Text{Text: " Shirts "}}},
		&docx.Run{Children: []interface{}{&docx.Text{Text: "{#shirts}"}}},
	}}
	if got := docxParagraphText(para); got != "Shirts {#shirts}" {
		t.Errorf("paragraph text = %q", got)
	}
}

func TestForFile(t *testing.T) {
	for ext := range SupportedExtensions {
		if _, err := ForFile("file"+ext, Options{}); err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", ext, err)
		}
	}
	if _, err := ForFile("file.exe", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if !IsSupportedExtension("TREE.YML") {
		t.Error("expected extension match to be case-insensitive")
	}
	p, _ := ForFile("x.pdf", Options{PDFFallbackPdftotext: true})
	if pp, ok := p.(*PDFParser); !ok || !pp.FallbackPdftotext {
		t.Errorf("expected PDFParser with fallback, got %#v", p)
	}
}
