package llm

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

// SchemaError lists every violation found in a model answer.
type SchemaError struct {
	Schema     string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model output does not match %s schema: %s", e.Schema, strings.Join(e.Violations, "; "))
}

func loadSchema(name string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[name]; ok {
		return s, nil
	}
	raw, err := schemaFiles.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	schemaCache[name] = s
	return s, nil
}

// ValidateJSON checks doc against the embedded schema with the given name.
func ValidateJSON(name string, doc []byte) error {
	s, err := loadSchema(name)
	if err != nil {
		return err
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &SchemaError{Schema: name, Violations: []string{err.Error()}}
	}
	if res.Valid() {
		return nil
	}
	violations := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		violations = append(violations, e.String())
	}
	return &SchemaError{Schema: name, Violations: violations}
}
