package outline

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/shopadmin/internal/categorytree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF outlines. The bookmark tree is used when the file
// has one; otherwise the page text is read as an indented outline, via
// pdftotext -layout when FallbackPdftotext is set (it keeps indentation).
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) ([]*categorytree.Node, error) {
	// ledongthuc/pdf requires a ReaderAt+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "shopadmin-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	forest, text, err := readPDF(tmpPath)
	if err != nil && !p.FallbackPdftotext {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if len(forest) > 0 {
		return forest, nil
	}

	if p.FallbackPdftotext {
		if layout, lerr := extractPdftotext(tmpPath); lerr == nil {
			text = layout
		} else if err != nil {
			return nil, fmt.Errorf("read pdf: %w", lerr)
		}
	}
	return (&TextParser{}).Parse(strings.NewReader(strings.ReplaceAll(text, "\f", "\n")), filename)
}

// readPDF returns the bookmark forest and the plain page text.
func readPDF(path string) ([]*categorytree.Node, string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	b := newBuilder()
	type item struct {
		outline pdflib.Outline
		parent  *categorytree.Node
	}
	root := reader.Outline()
	stack := make([]item, 0, len(root.Child))
	for i := len(root.Child) - 1; i >= 0; i-- {
		stack = append(stack, item{outline: root.Child[i]})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		under := it.parent
		if title := strings.TrimSpace(it.outline.Title); title != "" {
			under = b.child(it.parent, title)
		}
		for i := len(it.outline.Child) - 1; i >= 0; i-- {
			stack = append(stack, item{outline: it.outline.Child[i], parent: under})
		}
	}
	if forest := b.forest(); len(forest) > 0 {
		return forest, "", nil
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return nil, buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
