package alumnietl

import "strconv"

// Source field names this job is coupled to. Matching is exact and
// case-sensitive: a renamed column in the source table silently vanishes
// from its aggregate, so the names live here as the single point of
// schema coupling.
const (
	FieldCompany  = "Current Company"
	FieldTitle    = "Current Title"
	FieldLocation = "Location"
	FieldMajor    = "Major"
	FieldGradYear = "Graduation Year"
)

// SafeFields are the only source columns allowed past the extract stage.
// Everything else a record carries is dropped before aggregation.
var SafeFields = []string{FieldCompany, FieldTitle, FieldLocation, FieldMajor, FieldGradYear}

// Record is one raw survey row: source field name to value. Null and
// absent fields are missing keys; the source backend omits empty fields
// from its responses.
type Record map[string]any

// Field returns the string form of a named field value. Numbers are
// rendered without an exponent so that a year survives as "2019".
// ok is false for absent, null, and non-scalar values.
func (r Record) Field(name string) (string, bool) {
	switch v := r[name].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
