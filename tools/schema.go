package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"nexushr/model"
)

var reflector = &invopop.Reflector{
	DoNotReference:            true,
	ExpandedStruct:            true,
	AllowAdditionalProperties: true,
}

// parametersFor reflects an argument struct into the parameter declaration
// sent to the model. Field descriptions come from jsonschema_description tags.
func parametersFor[T any]() (model.ToolParameters, error) {
	var zero T
	raw, err := json.Marshal(reflector.Reflect(&zero))
	if err != nil {
		return model.ToolParameters{}, fmt.Errorf("failed to encode schema: %w", err)
	}

	var params model.ToolParameters
	if err := json.Unmarshal(raw, &params); err != nil {
		return model.ToolParameters{}, fmt.Errorf("failed to decode schema: %w", err)
	}
	if params.Properties == nil {
		params.Properties = map[string]any{}
	}
	if params.Required == nil {
		params.Required = []string{}
	}
	return params, nil
}

// compileParameters builds a validator for a tool's declared parameters.
func compileParameters(name string, params model.ToolParameters) (*jsonschema.Schema, error) {
	doc, err := toJSONValue(params.Schema())
	if err != nil {
		return nil, err
	}

	loc := name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema for %s: %w", name, err)
	}
	sch, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema for %s: %w", name, err)
	}
	return sch, nil
}

// validateArgs checks args against a compiled schema. Arguments are normalized
// through JSON first so typed Go values validate the same as decoded ones.
func validateArgs(name string, sch *jsonschema.Schema, args map[string]any) error {
	v, err := toJSONValue(args)
	if err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidArguments, name, err)
	}
	return nil
}

func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}

// decodeArgs converts a validated argument bag into the handler's struct.
func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(args)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}
