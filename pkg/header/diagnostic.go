package header

import "fmt"

// DiagnosticKind classifies a non-fatal finding.
type DiagnosticKind string

const (
	MissingStartSentinel DiagnosticKind = "missing_start_sentinel"
	ByteOrderRetry       DiagnosticKind = "byte_order_retry"
	UnexpectedKey        DiagnosticKind = "unexpected_key"
	TypeMismatch         DiagnosticKind = "type_mismatch"
	NameMismatch         DiagnosticKind = "name_mismatch"
)

// Diagnostic is a non-fatal condition found while decoding, validating or
// writing. Diagnostics are returned next to a valid result; they never
// abort the call that produced them.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Key     string         `json:"key,omitempty" yaml:"key,omitempty"`
	Message string         `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	if d.Key == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Key, d.Message)
}

// Has reports whether diags holds at least one diagnostic of kind k.
func Has(diags []Diagnostic, k DiagnosticKind) bool {
	for _, d := range diags {
		if d.Kind == k {
			return true
		}
	}
	return false
}
