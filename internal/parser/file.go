package parser

import (
	"bytes"
	"fmt"
	"os"

	"langtable/internal/table"

	"github.com/rs/zerolog/log"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadFile reads a translation file from disk and loads it.
// A leading UTF-8 byte-order mark is ignored.
func LoadFile(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read translation file: %w", err)
	}

	t, err := Load(string(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("entries", t.Len()).
		Strs("languages", t.LanguageOrder()).
		Msg("Loaded translation table")
	return t, nil
}

// SaveFile writes the serialized table to path as UTF-8 without a BOM.
func SaveFile(t *table.Table, path string) error {
	if err := os.WriteFile(path, []byte(Serialize(t)), 0644); err != nil {
		return fmt.Errorf("write translation file: %w", err)
	}

	log.Debug().Str("path", path).Int("entries", t.Len()).Msg("Saved translation table")
	return nil
}
