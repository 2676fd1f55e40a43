// Package decode turns uploaded byte buffers into plain text lines or
// tabular rows for the parsers. It is the only package that touches document
// formats.
package decode

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/seminarops/rollcall/internal/textutil"
)

// PDFText extracts one normalized text line per visual row from every page
// of a PDF. Pages or rows the extractor cannot read are skipped.
func PDFText(buf []byte) (lines []string, err error) {
	// The PDF reader panics on some malformed files; surface that as a
	// decode error instead of killing the request.
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("pdf decode: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("pdf decode: %w", err)
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var b bytes.Buffer
			for _, word := range row.Content {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word.S)
			}
			if line := textutil.Normalize(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}

	return lines, nil
}
