package validation_test

import (
	"testing"

	"github.com/stylepress/go-stylepress/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the validator passes for the given data/rules.
func pass(t *testing.T, label string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Fails() {
			t.Errorf("expected PASS, got FAIL — errors: %+v", v.Errors().Bag)
		}
	})
}

// fail asserts the validator fails with an error on the given field.
func fail(t *testing.T, label, field string, data map[string]string, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Passes() {
			t.Errorf("expected FAIL on field %q, but validator PASSED", field)
		}
		if v.Errors().First(field) == "" {
			t.Errorf("expected error on field %q, but none found. Errors: %+v", field, v.Errors().Bag)
		}
	})
}

// ── required / nullable ──────────────────────────────────────────────────────

func TestValidation_Required(t *testing.T) {
	r := validation.Rules{"name": "required"}

	pass(t, "non-empty value", map[string]string{"name": "header"}, r)
	fail(t, "empty string", "name", map[string]string{"name": ""}, r)
	fail(t, "whitespace only", "name", map[string]string{"name": "   "}, r)
	fail(t, "missing key", "name", map[string]string{}, r)
}

func TestValidation_Required_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]string{"name": ""}, validation.Rules{"name": "required"})
	_ = v.Fails()
	msg := v.Errors().First("name")
	expected := "The name field is required."
	if msg != expected {
		t.Errorf("message: got %q want %q", msg, expected)
	}
}

func TestValidation_Nullable(t *testing.T) {
	r := validation.Rules{"width": "nullable|css_unit:px"}

	pass(t, "empty value skips later rules", map[string]string{"width": ""}, r)
	pass(t, "present value still validated", map[string]string{"width": "10px"}, r)
	fail(t, "present bad value fails", "width", map[string]string{"width": "wide"}, r)
}

// ── hex_color ────────────────────────────────────────────────────────────────

func TestValidation_HexColor(t *testing.T) {
	r := validation.Rules{"color": "hex_color"}

	pass(t, "six digit", map[string]string{"color": "#1a2b3c"}, r)
	pass(t, "three digit", map[string]string{"color": "#abc"}, r)
	pass(t, "uppercase", map[string]string{"color": "#ABCDEF"}, r)
	fail(t, "no hash", "color", map[string]string{"color": "1a2b3c"}, r)
	fail(t, "named color", "color", map[string]string{"color": "rebeccapurple"}, r)
	fail(t, "wrong length", "color", map[string]string{"color": "#12345"}, r)
}

// ── css_unit ─────────────────────────────────────────────────────────────────

func TestValidation_CSSUnit(t *testing.T) {
	r := validation.Rules{"size": "css_unit:px,em,rem"}

	pass(t, "px", map[string]string{"size": "16px"}, r)
	pass(t, "fractional rem", map[string]string{"size": "1.25rem"}, r)
	pass(t, "negative", map[string]string{"size": "-4px"}, r)
	fail(t, "bare number", "size", map[string]string{"size": "16"}, r)
	fail(t, "disallowed unit", "size", map[string]string{"size": "16pt"}, r)
	fail(t, "not a length", "size", map[string]string{"size": "big"}, r)
}

func TestValidation_CSSUnit_AnyUnitWithoutParam(t *testing.T) {
	r := validation.Rules{"size": "css_unit"}

	pass(t, "percent", map[string]string{"size": "100%"}, r)
	pass(t, "viewport", map[string]string{"size": "50vh"}, r)
	fail(t, "unitless", "size", map[string]string{"size": "100"}, r)
}

// ── font_stack ───────────────────────────────────────────────────────────────

func TestValidation_FontStack(t *testing.T) {
	r := validation.Rules{"font": "font_stack"}

	pass(t, "quoted stack", map[string]string{"font": `"Helvetica Neue", Arial, sans-serif`}, r)
	fail(t, "markup", "font", map[string]string{"font": "Arial<script>"}, r)
	fail(t, "braces", "font", map[string]string{"font": "Arial; } body {"}, r)
}

// ── numeric bounds ───────────────────────────────────────────────────────────

func TestValidation_NumericBounds(t *testing.T) {
	r := validation.Rules{"scale": "numeric|gte:1|lte:2"}

	pass(t, "in range", map[string]string{"scale": "1.25"}, r)
	fail(t, "too small", "scale", map[string]string{"scale": "0.5"}, r)
	fail(t, "too large", "scale", map[string]string{"scale": "3"}, r)
	fail(t, "not numeric", "scale", map[string]string{"scale": "tall"}, r)
}

// ── bail behaviour ───────────────────────────────────────────────────────────

func TestValidation_StopsAtFirstFailurePerField(t *testing.T) {
	v := validation.Make(
		map[string]string{"size": ""},
		validation.Rules{"size": "required|css_unit:px"},
	)
	_ = v.Fails()
	if got := len(v.Errors().Bag["size"]); got != 1 {
		t.Errorf("expected exactly 1 error for size, got %d: %+v", got, v.Errors().Bag["size"])
	}
}

func TestValidation_MultipleFieldsCollectIndependently(t *testing.T) {
	v := validation.Make(
		map[string]string{"color": "nope", "size": "huge"},
		validation.Rules{"color": "hex_color", "size": "css_unit:px"},
	)
	if v.Passes() {
		t.Fatal("expected validation to fail")
	}
	if v.Errors().First("color") == "" || v.Errors().First("size") == "" {
		t.Errorf("expected errors on both fields, got %+v", v.Errors().Bag)
	}
}
