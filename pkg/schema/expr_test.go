package schema

import (
	"testing"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpr(t *testing.T) {
	tests := []struct {
		expr  string
		value any
		want  bool
	}{
		{`value.contains(" ")`, "Doc Brown", true},
		{`value.contains(" ")`, "Doc", false},
		{`value.contains(" ")`, 42, false},
		{`value > 3`, domain.Int(5), true},
		{`value > 3.0`, domain.Double(2.5), false},
		{`value.latitude > 0.0`, domain.GeoPoint{Latitude: 1, Longitude: 2}, true},
		{`size(value) == 2`, []any{"a", "b"}, true},
		{`"not a bool"`, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Expr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, "Expr", p.Name())
			assert.Equal(t, tt.want, p.Match(tt.value))
		})
	}
}

func TestExpr_Invalid(t *testing.T) {
	_, err := Expr("value +")
	assert.ErrorContains(t, err, "invalid expression")

	assert.Panics(t, func() { MustExpr("value +") })
}

func TestExpr_InSchema(t *testing.T) {
	s := Schema{{"fullName", MustExpr(`value.contains(" ")`)}}

	assert.Empty(t, Validate(s, map[string]any{"fullName": "Doc Brown"}))
	assert.Equal(t, Violations{`Schema definition violated for property: "fullName"`},
		Validate(s, map[string]any{"fullName": "Doc"}))
}
