package suggestion

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"assistant/internal/domain/models"
)

var localDateTimeType = reflect.TypeOf(models.LocalDateTime{})

// GenerateSchema reflects v into a closed-world JSON schema: every object
// forbids additional properties and string format hints are stripped, since
// strict structured-output validators reject both.
func GenerateSchema(v any) (json.RawMessage, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == localDateTimeType {
				return &jsonschema.Schema{
					Type:        "string",
					Format:      "date-time",
					Description: "Local date and time, formatted yyyy-MM-ddTHH:mm:ss",
				}
			}
			return nil
		},
	}

	s := r.Reflect(v)
	s.Version = ""
	s.ID = ""
	closeSchema(s)

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

func closeSchema(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	if s.Type == "string" {
		s.Format = ""
	}
	if s.Type == "object" || s.Properties != nil {
		s.AdditionalProperties = jsonschema.FalseSchema
	}
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			closeSchema(pair.Value)
		}
	}
	closeSchema(s.Items)
	for _, sub := range s.AnyOf {
		closeSchema(sub)
	}
	for _, sub := range s.OneOf {
		closeSchema(sub)
	}
	for _, sub := range s.AllOf {
		closeSchema(sub)
	}
	for _, def := range s.Definitions {
		closeSchema(def)
	}
}
