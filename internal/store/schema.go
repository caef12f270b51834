package store

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://campushub.local/schemas/"

var schemaFiles = map[Key]string{
	KeyUsers:       "users.json",
	KeyCourses:     "courses.json",
	KeyEnrollments: "enrollments.json",
	KeyEvents:      "events.json",
	KeyAudit:       "audit.json",
	KeySession:     "session.json",
	KeyCredentials: "credentials.json",
}

var compiledSchemas = sync.OnceValues(func() (map[Key]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	for _, name := range schemaFiles {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	schemas := make(map[Key]*jsonschema.Schema, len(schemaFiles))
	for key, name := range schemaFiles {
		schema, err := compiler.Compile(schemaBaseURL + name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		schemas[key] = schema
	}
	return schemas, nil
})

// validateDocument checks raw against the collection's document shape.
// Keys without a registered schema only need to be valid JSON.
func validateDocument(key Key, raw []byte) error {
	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return err
	}

	schemas, err := compiledSchemas()
	if err != nil {
		return err
	}

	schema, ok := schemas[key]
	if !ok {
		return nil
	}
	return schema.Validate(document)
}
