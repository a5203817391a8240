package hcl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/flowgridgo/internal/ctxlog"
)

// Converter is the HCL-specific implementation of config.Converter.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeArguments evaluates the step's argument expressions and populates
// the handler's input struct via reflection. Fields are matched by their
// `hcl` tag; a ",optional" suffix makes an argument omittable.
func (c *Converter) DecodeArguments(
	ctx context.Context,
	inputStruct any,
	args map[string]hcl.Expression,
	evalCtx *hcl.EvalContext,
) error {
	logger := ctxlog.FromContext(ctx)

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("input struct must be a non-nil pointer, got %T", inputStruct)
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		tag := field.Tag.Get("hcl")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		name := parts[0]
		optional := len(parts) > 1 && parts[1] == "optional"

		expr, provided := args[name]
		if !provided {
			if optional {
				continue
			}
			return fmt.Errorf("missing required argument %q", name)
		}

		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return fmt.Errorf("failed to evaluate argument %q: %w", name, diags)
		}
		if err := c.decode(val, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument %q: %w", name, err)
		}
	}

	logger.Debug("Decoded step arguments.", "type", structType.String())
	return nil
}

// decode converts a cty.Value into the Go value behind the pointer,
// applying implicit type conversion first.
func (c *Converter) decode(val cty.Value, goVal any) error {
	impliedType, err := gocty.ImpliedType(reflect.ValueOf(goVal).Elem().Interface())
	if err != nil {
		return gocty.FromCtyValue(val, goVal)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w",
			val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	return gocty.FromCtyValue(convertedVal, goVal)
}

// ToCtyValue converts a native Go value into its cty equivalent. Unlike
// gocty alone it also handles the dynamic map[string]any and []any trees
// that runners and group aggregates produce.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return t, nil
	case map[string]any:
		if len(t) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(t))
		for key, val := range t {
			converted, err := c.ToCtyValue(val)
			if err != nil {
				return cty.NilVal, fmt.Errorf("attribute %q: %w", key, err)
			}
			attrs[key] = converted
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(t))
		for i, val := range t {
			converted, err := c.ToCtyValue(val)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			vals[i] = converted
		}
		return cty.TupleVal(vals), nil
	default:
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("unable to infer cty type for %T: %w", v, err)
		}
		return gocty.ToCtyValue(v, ty)
	}
}
