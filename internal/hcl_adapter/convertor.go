package hcl_adapter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/holdimport/internal/config"
	"github.com/specialistvlad/holdimport/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter bridges native Go values and cty values.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

// ToStringList converts a list, set or tuple value into []string, converting
// each element to a string.
func (c *Converter) ToStringList(val cty.Value) ([]string, error) {
	if val.IsNull() {
		return nil, fmt.Errorf("value must not be null")
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be fully known")
	}
	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("expected a list of strings: %w", err)
	}
	var out []string
	if err := gocty.FromCtyValue(listVal, &out); err != nil {
		return nil, fmt.Errorf("expected a list of strings: %w", err)
	}
	return out, nil
}

// argsTemplate is the HCL implementation of config.ArgsTemplate.
type argsTemplate struct {
	expr      hcl.Expression
	converter *Converter
}

// newArgsTemplate checks that expr only references the variables exposed by
// config.ArgVars and that it renders for sample values.
func newArgsTemplate(expr hcl.Expression) (*argsTemplate, error) {
	t := &argsTemplate{expr: expr, converter: NewConverter()}

	known, err := t.variables(config.ArgVars{})
	if err != nil {
		return nil, err
	}
	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("unknown variable %q (available: %s)", name, strings.Join(sortedKeys(known), ", "))
		}
	}

	if _, err := t.Render(context.Background(), config.ArgVars{Geometry: "g.obj", Stem: "g", Key: "g"}); err != nil {
		return nil, err
	}
	return t, nil
}

// Render evaluates the expression with the hold's variables in scope.
func (t *argsTemplate) Render(ctx context.Context, vars config.ArgVars) ([]string, error) {
	variables, err := t.variables(vars)
	if err != nil {
		return nil, err
	}
	val, diags := t.expr.Value(&hcl.EvalContext{Variables: variables})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate preview args: %w", diags)
	}
	args, err := t.converter.ToStringList(val)
	if err != nil {
		return nil, fmt.Errorf("preview args: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Rendered preview args.", "key", vars.Key, "args", args)
	return args, nil
}

func (t *argsTemplate) variables(vars config.ArgVars) (map[string]cty.Value, error) {
	obj, err := t.converter.ToCtyValue(vars)
	if err != nil {
		return nil, fmt.Errorf("failed to build template variables: %w", err)
	}
	return obj.AsValueMap(), nil
}

func sortedKeys(m map[string]cty.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
