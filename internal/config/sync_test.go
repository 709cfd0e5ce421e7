// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests verify Go struct JSON tags match CUE schema field names.
// They catch misalignments at CI time, preventing silent parsing failures.

// extractCUEFields extracts all field names from a CUE struct definition.
// It returns a map of field names to whether the field is optional.
// Nested struct fields are not included; only top-level fields of the given definition.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	for iter.Next() {
		sel := iter.Selector()
		labelType := sel.LabelType()
		if labelType.IsHidden() || sel.IsDefinition() {
			continue
		}

		// The selector string may include the "?" suffix for optional fields
		fieldName := strings.TrimSuffix(sel.String(), "?")
		fields[fieldName] = iter.IsOptional()
	}

	return fields
}

// extractGoJSONTags extracts all JSON field names from a Go struct using reflection.
// It returns a map of JSON tag names to whether the field has "omitempty".
// Fields with json:"-" are excluded.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}

	fields := make(map[string]bool)

	for field := range typ.Fields() {
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		name := parts[0]
		if name == "" || name == "-" {
			continue
		}

		fields[name] = slices.Contains(parts[1:], "omitempty")
	}

	return fields
}

// assertFieldsSync verifies that CUE schema fields and Go struct JSON tags are in sync.
func assertFieldsSync(t *testing.T, structName string, cueFields, goFields map[string]bool) {
	t.Helper()

	for field, isOptional := range cueFields {
		hasOmitempty, exists := goFields[field]
		if !exists {
			t.Errorf("[%s] CUE field %q not found in Go struct (missing JSON tag)", structName, field)
			continue
		}
		if isOptional && !hasOmitempty {
			t.Logf("[%s] Note: CUE field %q is optional but Go field lacks omitempty tag", structName, field)
		}
	}

	for field := range goFields {
		if _, exists := cueFields[field]; !exists {
			t.Errorf("[%s] Go JSON tag %q not found in CUE schema (missing CUE field)", structName, field)
		}
	}
}

// getCUESchema compiles the embedded CUE schema.
func getCUESchema(t *testing.T) cue.Value {
	t.Helper()

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}

	return schema
}

// lookupDefinition looks up a CUE definition by path (e.g., "#Config").
func lookupDefinition(t *testing.T, schema cue.Value, defPath string) cue.Value {
	t.Helper()

	def := schema.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		t.Fatalf("failed to lookup CUE definition %s: %v", defPath, def.Err())
	}

	return def
}

// TestConfigSchemaSync verifies the Config Go struct matches the #Config CUE definition.
func TestConfigSchemaSync(t *testing.T) {
	schema := getCUESchema(t)
	cueFields := extractCUEFields(t, lookupDefinition(t, schema, "#Config"))
	goFields := extractGoJSONTags(t, reflect.TypeFor[Config]())

	assertFieldsSync(t, "Config", cueFields, goFields)
}

// TestUIConfigSchemaSync verifies the UIConfig Go struct matches the #UIConfig CUE definition.
func TestUIConfigSchemaSync(t *testing.T) {
	schema := getCUESchema(t)
	cueFields := extractCUEFields(t, lookupDefinition(t, schema, "#UIConfig"))
	goFields := extractGoJSONTags(t, reflect.TypeFor[UIConfig]())

	assertFieldsSync(t, "UIConfig", cueFields, goFields)
}

// TestWatchConfigSchemaSync verifies the WatchConfig Go struct matches the #WatchConfig CUE definition.
func TestWatchConfigSchemaSync(t *testing.T) {
	schema := getCUESchema(t)
	cueFields := extractCUEFields(t, lookupDefinition(t, schema, "#WatchConfig"))
	goFields := extractGoJSONTags(t, reflect.TypeFor[WatchConfig]())

	assertFieldsSync(t, "WatchConfig", cueFields, goFields)
}

// TestLintConfigSchemaSync verifies the LintConfig Go struct matches the #LintConfig CUE definition.
func TestLintConfigSchemaSync(t *testing.T) {
	schema := getCUESchema(t)
	cueFields := extractCUEFields(t, lookupDefinition(t, schema, "#LintConfig"))
	goFields := extractGoJSONTags(t, reflect.TypeFor[LintConfig]())

	assertFieldsSync(t, "LintConfig", cueFields, goFields)
}

// validateCUE compiles CUE test data against the embedded config schema's #Config definition.
// It returns nil if the data is valid, or an error describing why validation failed.
func validateCUE(t *testing.T, cueData string) error {
	t.Helper()

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		t.Fatalf("failed to compile schema: %v", schemaValue.Err())
	}

	userValue := ctx.CompileString(cueData)
	if userValue.Err() != nil {
		return fmt.Errorf("CUE compile error: %w", userValue.Err())
	}

	schemaDef := schemaValue.LookupPath(cue.ParsePath("#Config"))
	if schemaDef.Err() != nil {
		t.Fatalf("failed to lookup #Config: %v", schemaDef.Err())
	}

	unified := schemaDef.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("CUE validation error: %w", err)
	}

	return nil
}

// TestConfigSchemaConstraints verifies the schema's value constraints catch
// invalid configurations at parse time.
func TestConfigSchemaConstraints(t *testing.T) {
	tests := []struct {
		name    string
		cueData string
		wantErr bool
	}{
		{
			name:    "empty config valid",
			cueData: ``,
			wantErr: false,
		},
		{
			name:    "full config valid",
			cueData: `module_roots: ["/srv/modules"], ui: {color_scheme: "dark", verbose: true}, watch: {debounce_ms: 100, clear_screen: false}, lint: {config_file: "/etc/lint.toml"}`,
			wantErr: false,
		},
		{
			name:    "empty module root rejected",
			cueData: `module_roots: [""]`,
			wantErr: true,
		},
		{
			name:    "unknown color scheme rejected",
			cueData: `ui: color_scheme: "solarized"`,
			wantErr: true,
		},
		{
			name:    "negative debounce rejected",
			cueData: `watch: debounce_ms: -1`,
			wantErr: true,
		},
		{
			name:    "oversized debounce rejected",
			cueData: `watch: debounce_ms: 600001`,
			wantErr: true,
		},
		{
			name:    "empty lint config file rejected",
			cueData: `lint: config_file: ""`,
			wantErr: true,
		},
		{
			name:    "unknown top-level field rejected",
			cueData: `colour_scheme: "dark"`,
			wantErr: true,
		},
		{
			name:    "unknown nested field rejected",
			cueData: `watch: debounce: 100`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCUE(t, tt.cueData)
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error for %q", tt.cueData)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
