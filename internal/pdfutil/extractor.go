package pdfutil

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

// maxTexto bounds what lands in evidencia_texto; a scanned report can run to
// hundreds of pages and the column is meant for search, not archival.
const maxTexto = 512 << 10

// ExtraerTexto reads PDF bytes and returns the plain text stored on the caso,
// capped at maxTexto. Pages past the cap are not parsed.
func ExtraerTexto(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("new pdf reader: %w", err)
	}
	var builder strings.Builder
	total := doc.NumPage()
	for page := 1; page <= total && builder.Len() < maxTexto; page++ {
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page, err)
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}
	return recortar(builder.String()), nil
}

// recortar cuts at maxTexto without splitting a UTF-8 rune.
func recortar(s string) string {
	if len(s) <= maxTexto {
		return s
	}
	i := maxTexto
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}
