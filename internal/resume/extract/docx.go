package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBodyPath    = "word/document.xml"
	maxDocxBodySize = 32 << 20
)

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Kind: KindDOCX, Err: err}
	}

	for _, f := range zr.File {
		if f.Name != docxBodyPath {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", &ExtractionError{Kind: KindDOCX, Err: err}
		}
		defer rc.Close()

		text, err := paragraphs(io.LimitReader(rc, maxDocxBodySize))
		if err != nil {
			return "", &ExtractionError{Kind: KindDOCX, Err: err}
		}
		return text, nil
	}

	return "", &ExtractionError{Kind: KindDOCX, Err: errors.New("no " + docxBodyPath + " found in archive")}
}

// paragraphs walks WordprocessingML and emits one line per paragraph.
func paragraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		builder strings.Builder
		inText  bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document body: %w", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				builder.WriteByte('\t')
			case "br", "cr":
				builder.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				builder.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				builder.Write(el)
			}
		}
	}

	return builder.String(), nil
}
