package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// LanguageCoverage counts filled translations for one language of a file.
type LanguageCoverage struct {
	Language string
	Filled   int
	Total    int
}

// Querier reads coverage information from the graph.
type Querier struct {
	driver neo4j.DriverWithContext
}

// NewQuerier creates a new graph querier.
func NewQuerier(driver neo4j.DriverWithContext) *Querier {
	return &Querier{driver: driver}
}

// Missing returns the keys of file, in table order, that have no or an empty
// translation for lang.
func (q *Querier) Missing(ctx context.Context, file, lang string) ([]string, error) {
	session := q.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (:LangFile {path: $file})-[:DEFINES]->(k:TranslationKey)
		OPTIONAL MATCH (k)-[t:TRANSLATED]->(:Language {code: $lang})
		WITH k, t
		WHERE t IS NULL OR trim(t.text) = ''
		RETURN k.key AS key
		ORDER BY k.position
	`, map[string]any{"file": file, "lang": lang})
	if err != nil {
		return nil, fmt.Errorf("query missing translations: %w", err)
	}

	var keys []string
	for result.Next(ctx) {
		key, _ := result.Record().Get("key")
		keys = append(keys, fmt.Sprintf("%v", key))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read missing translations: %w", err)
	}

	log.Debug().Str("file", file).Str("language", lang).Int("missing", len(keys)).Msg("Graph query complete")
	return keys, nil
}

// Coverage returns per-language fill counts for file, in language order.
func (q *Querier) Coverage(ctx context.Context, file string) ([]LanguageCoverage, error) {
	session := q.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (f:LangFile {path: $file})-[u:USES]->(l:Language)
		OPTIONAL MATCH (f)-[:DEFINES]->(k:TranslationKey)
		OPTIONAL MATCH (k)-[t:TRANSLATED]->(l)
		WITH l, u, count(DISTINCT k) AS total,
		     count(CASE WHEN t IS NOT NULL AND trim(t.text) <> '' THEN 1 END) AS filled
		RETURN l.code AS language, filled, total
		ORDER BY u.position
	`, map[string]any{"file": file})
	if err != nil {
		return nil, fmt.Errorf("query coverage: %w", err)
	}

	var out []LanguageCoverage
	for result.Next(ctx) {
		record := result.Record()
		lang, _ := record.Get("language")
		filled, _ := record.Get("filled")
		total, _ := record.Get("total")
		out = append(out, LanguageCoverage{
			Language: fmt.Sprintf("%v", lang),
			Filled:   toInt(filled),
			Total:    toInt(total),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read coverage: %w", err)
	}
	return out, nil
}

func toInt(v any) int {
	if n, ok := v.(int64); ok {
		return int(n)
	}
	return 0
}
