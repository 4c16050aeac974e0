package artifacts

import (
	"embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// SchemaSet holds the compiled minimal-shape schemas for JSON phases.
// Shape validation runs before rule evaluation; failures degrade the
// phase result instead of rejecting the artifact outright.
type SchemaSet struct {
	byPhase map[contracts.Phase]*jsonschema.Schema
}

// CompileSchemas compiles the embedded phase schemas.
func CompileSchemas() (*SchemaSet, error) {
	compiler := jsonschema.NewCompiler()

	set := &SchemaSet{byPhase: make(map[contracts.Phase]*jsonschema.Schema)}
	for _, phase := range []contracts.Phase{contracts.PhaseDiscovery, contracts.PhaseAnalysis} {
		name := fmt.Sprintf("schemas/%s.schema.json", phase)
		f, err := schemaFS.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open embedded schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, f); err != nil {
			f.Close()
			return nil, fmt.Errorf("add schema resource %s: %w", name, err)
		}
		f.Close()

		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		set.byPhase[phase] = schema
	}

	return set, nil
}

// Check validates a parsed payload against the phase schema. Phases
// without a schema (synthesis markdown, validation outputs) pass
// trivially. Returned strings are shape violations, not errors.
func (s *SchemaSet) Check(phase contracts.Phase, payload interface{}) []string {
	schema, ok := s.byPhase[phase]
	if !ok {
		return nil
	}

	err := schema.Validate(payload)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("shape: %s artifact failed schema validation: %v", phase, err)}
	}

	var violations []string
	for _, cause := range flattenCauses(ve) {
		loc := strings.TrimPrefix(cause.InstanceLocation, "/")
		if loc == "" {
			loc = "(root)"
		}
		violations = append(violations, fmt.Sprintf("shape: %s artifact field %s: %s", phase, loc, cause.Message))
	}
	return violations
}

// flattenCauses collects leaf causes of a validation error tree.
func flattenCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var leaves []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		leaves = append(leaves, flattenCauses(c)...)
	}
	return leaves
}
