// Package validation provides rule-string input validation for the settings
// endpoints.
//
// # Overview
//
// Rules are expressed as pipe-separated strings on a flat map of field names.
// Validation bails on the first failing rule per field and collects
// human-readable messages into an error bag.
//
// # Basic Usage
//
//	v := validation.Make(map[string]string{
//	    "primary_color":  "#3366ff",
//	    "base_font_size": "16px",
//	}, validation.Rules{
//	    "primary_color":  "required|hex_color",
//	    "base_font_size": "required|css_unit:px,em,rem",
//	})
//
//	if v.Fails() {
//	    // v.Errors() returns *Errors with Bag map[string][]string
//	    // JSON: {"errors": {"field": ["message1", "message2"]}}
//	}
//
// # Available Rules
//
// General:
//   - required — field must be present and non-empty
//   - nullable — allows empty/missing values; stops further rule processing
//   - min:n / max:n / between:min,max — UTF-8 length bounds
//   - in:a,b,c — value must be in the comma-separated list
//   - regex:pattern — must match regexp pattern
//
// Numeric:
//   - numeric — parseable as float64
//   - integer — parseable as int
//   - boolean — true/false/1/0/yes/no (case-insensitive)
//   - gte:n / lte:n — numeric bounds
//
// Style values:
//   - hex_color — 3- or 6-digit #rgb / #rrggbb color
//   - css_unit:px,em,... — CSS length whose unit is in the allowed list
//     (any unit when no list is given)
//   - font_stack — letters, digits, spaces, commas, hyphens and quotes only
package validation
