package extractor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// parsePDF extracts the plain text of a PDF payload without touching disk.
func parsePDF(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("abrir PDF: %w", err)
	}
	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extrair texto do PDF: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, body); err != nil {
		return "", fmt.Errorf("ler texto do PDF: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}
