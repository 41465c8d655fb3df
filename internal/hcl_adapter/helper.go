package hcl_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/usecasegen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined reports whether an optional attribute was written in the
// file. gohcl fills omitted hcl.Expression fields with zero-width
// placeholders rather than nil.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Optional attribute checked.", "attribute", attrName, "range", r.String(), "defined", defined)
	return defined
}

// evalInto evaluates a literal expression, converts it to want and stores
// it in target.
func evalInto(expr hcl.Expression, want cty.Type, target any) error {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return errors.New("value must be set")
	}
	val, err := convert.Convert(val, want)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(val, target)
}

// pos renders the start of r as "file:line".
func pos(r hcl.Range) string {
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}
