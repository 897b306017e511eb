package graph

import (
	"context"
	"fmt"

	"langtable/internal/table"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Connect creates a driver for uri and verifies it can reach the server.
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Debug().Str("uri", uri).Msg("Connected to Neo4j")
	return driver, nil
}

// Exporter mirrors translation tables into the Neo4j coverage graph:
//
//	(:LangFile)-[:DEFINES]->(:TranslationKey)-[:TRANSLATED]->(:Language)
//	(:LangFile)-[:USES]->(:Language)
type Exporter struct {
	driver neo4j.DriverWithContext
}

// NewExporter creates a new exporter.
func NewExporter(driver neo4j.DriverWithContext) *Exporter {
	return &Exporter{driver: driver}
}

// EnsureSchema creates uniqueness constraints for file and language nodes.
func (ex *Exporter) EnsureSchema(ctx context.Context) error {
	session := ex.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (f:LangFile) REQUIRE f.path IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (l:Language) REQUIRE l.code IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (k:TranslationKey) REQUIRE (k.file, k.key) IS UNIQUE",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Debug().Msg("Graph schema ensured")
	return nil
}

// Export replaces the graph image of file with the contents of t.
func (ex *Exporter) Export(ctx context.Context, file string, t *table.Table) error {
	session := ex.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	// Drop keys from a previous export so removed entries do not linger.
	_, err := session.Run(ctx, `
		MATCH (k:TranslationKey {file: $file})
		DETACH DELETE k
	`, map[string]any{"file": file})
	if err != nil {
		return fmt.Errorf("clear previous export: %w", err)
	}

	_, err = session.Run(ctx, `
		MERGE (f:LangFile {path: $file})
		WITH f
		OPTIONAL MATCH (f)-[u:USES]->(:Language)
		DELETE u
		WITH DISTINCT f
		UNWIND $languages AS lang
		MERGE (l:Language {code: lang.code})
		MERGE (f)-[u:USES]->(l)
		SET u.position = lang.position
	`, map[string]any{
		"file":      file,
		"languages": languageParams(t.KnownLanguages()),
	})
	if err != nil {
		return fmt.Errorf("export languages: %w", err)
	}

	_, err = session.Run(ctx, `
		MATCH (f:LangFile {path: $file})
		UNWIND $entries AS entry
		CREATE (k:TranslationKey {file: $file, key: entry.key, position: entry.position})
		CREATE (f)-[:DEFINES]->(k)
		WITH k, entry
		UNWIND entry.values AS v
		MATCH (l:Language {code: v.language})
		CREATE (k)-[:TRANSLATED {text: v.text, position: v.position}]->(l)
	`, map[string]any{
		"file":    file,
		"entries": entryParams(t),
	})
	if err != nil {
		return fmt.Errorf("export entries: %w", err)
	}

	log.Info().
		Str("file", file).
		Int("entries", t.Len()).
		Int("languages", len(t.KnownLanguages())).
		Msg("Exported table to graph")
	return nil
}

func languageParams(langs []string) []map[string]any {
	out := make([]map[string]any, 0, len(langs))
	for i, code := range langs {
		out = append(out, map[string]any{"code": code, "position": i})
	}
	return out
}

func entryParams(t *table.Table) []map[string]any {
	out := make([]map[string]any, 0, t.Len())
	for i, e := range t.Entries() {
		langs := e.Languages()
		values := make([]map[string]any, 0, len(langs))
		for j, lang := range langs {
			text, _ := e.Get(lang)
			values = append(values, map[string]any{
				"language": lang,
				"text":     text,
				"position": j,
			})
		}
		out = append(out, map[string]any{
			"key":      e.Key,
			"position": i,
			"values":   values,
		})
	}
	return out
}
