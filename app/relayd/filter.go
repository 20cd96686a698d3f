package relayd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dmitrymomot/relay/relay"
)

const filterSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"matches": {"$ref": "#/$defs/keys"},
		"starts-with": {"$ref": "#/$defs/keys"}
	},
	"additionalProperties": false,
	"$defs": {
		"keys": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "pattern": "^(\\w|-|\\.)+$"}
		}
	}
}`

var filterSchema = mustCompileSchema("https://relay.local/schemas/filters.json", filterSchemaJSON)

var filterParams = []string{"matches", "starts-with"}

// parseFilter validates the filter query parameters and builds a filter.
// Each parameter may repeat, and the bracketed form "matches[]" is accepted
// too. A parameter that is present must carry at least one valid key.
func parseFilter(q url.Values) (relay.Filter, error) {
	doc := make(map[string]any, len(filterParams))
	values := make(map[string][]string, len(filterParams))

	for _, name := range filterParams {
		if !q.Has(name) && !q.Has(name+"[]") {
			continue
		}
		vs := append(append([]string{}, q[name]...), q[name+"[]"]...)
		vs = dropEmptySingle(vs)
		values[name] = vs

		items := make([]any, len(vs))
		for i, v := range vs {
			items[i] = v
		}
		doc[name] = items
	}

	if err := filterSchema.Validate(doc); err != nil {
		return relay.Filter{}, fmt.Errorf("%w: %w", relay.ErrBadFilters, violations(err))
	}

	return relay.NewFilter(values["matches"], values["starts-with"])
}

// dropEmptySingle turns "?matches=" into an empty list, which the schema
// rejects with a clear minItems error instead of a pattern mismatch.
func dropEmptySingle(vs []string) []string {
	if len(vs) == 1 && vs[0] == "" {
		return []string{}
	}
	return vs
}

// violations flattens a schema validation error into its leaf messages keyed
// by instance location, leaving out schema locations.
func violations(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	var msgs []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return errors.New(strings.Join(msgs, "; "))
}

func mustCompileSchema(name, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		panic(fmt.Errorf("add schema %s: %w", name, err))
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Errorf("compile schema %s: %w", name, err))
	}
	return compiled
}
