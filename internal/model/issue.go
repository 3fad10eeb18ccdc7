package model

// FieldStatus describes why a best-effort field has no value.
type FieldStatus string

const (
	// FieldMissing means the page had no element for the field.
	FieldMissing FieldStatus = "missing"
	// FieldUnparseable means the element was there but its text did not have
	// the expected layout.
	FieldUnparseable FieldStatus = "unparseable"
)

// FieldIssue records one field that could not be read.
type FieldIssue struct {
	Field  string      `json:"field"`
	Status FieldStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}
