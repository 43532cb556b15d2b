package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Decode turns raw file bytes into text. An empty encoding means UTF-8.
func Decode(data []byte, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return string(data), nil
	case "euc-kr", "euckr", "cp949", "ks_c_5601-1987":
		out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), korean.EUCKR.NewDecoder()))
		if err != nil {
			return "", fmt.Errorf("failed to decode %s: %w", encoding, err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}
}
