package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Имена схем ответов бэкенда
const (
	SchemaOffers   = "offers"
	SchemaOffer    = "offer"
	SchemaComments = "comments"
	SchemaComment  = "comment"
	SchemaFavorite = "favorite"
	SchemaAuth     = "auth"
)

const schemaBaseURL = "https://six-cities.local/schemas/"

//go:embed schemas/*.json
var schemasFS embed.FS

var (
	compileOnce     sync.Once
	compileErr      error
	compiledSchemas map[string]*jsonschema.Schema
)

// compile добавляет все схемы как ресурсы, чтобы работали ссылки $ref между ними,
// а затем компилирует каждую.
func compile() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	entries, err := fs.ReadDir(schemasFS, "schemas")
	if err != nil {
		compileErr = fmt.Errorf("failed to read embedded schemas: %w", err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := schemasFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			compileErr = fmt.Errorf("failed to read schema %s: %w", entry.Name(), err)
			return
		}
		if err := compiler.AddResource(schemaBaseURL+entry.Name(), bytes.NewReader(data)); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource %s: %w", entry.Name(), err)
			return
		}
		names = append(names, entry.Name())
	}

	compiled := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(schemaBaseURL + name)
		if err != nil {
			compileErr = fmt.Errorf("failed to compile schema %s: %w", name, err)
			return
		}
		compiled[strings.TrimSuffix(name, ".json")] = schema
	}
	compiledSchemas = compiled
}

// Validate проверяет тело ответа по схеме с указанным именем.
func Validate(schemaName string, body []byte) error {
	compileOnce.Do(compile)
	if compileErr != nil {
		return compileErr
	}

	schema, ok := compiledSchemas[schemaName]
	if !ok {
		return fmt.Errorf("schema '%s' not found", schemaName)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("response body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
