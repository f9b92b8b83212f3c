package config

import (
	"encoding/json"

	pkgconfig "github.com/goran-ethernal/EventCache/pkg/config"
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the configuration file, keyed by the YAML field names.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	s := r.Reflect(&pkgconfig.Config{})
	s.Title = "EventCache configuration"

	return json.MarshalIndent(s, "", "  ")
}
