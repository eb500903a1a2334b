package header

import (
	"fmt"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
)

// Validate checks every entry of h against types. A mapped key whose
// non-null value has a different kind yields a TypeMismatch diagnostic; a
// key absent from types yields an UnexpectedKey diagnostic. Either marks
// the header not ok. A key mapped to the null format accepts any kind.
// Sentinel keys are structural and are not checked.
func Validate(h *Header, types TypeMap) (bool, []Diagnostic) {
	ok := true
	var diags []Diagnostic
	for _, e := range h.Entries() {
		if IsSentinel(e.Key) {
			continue
		}
		f, known := types[e.Key]
		if !known {
			ok = false
			diags = append(diags, Diagnostic{
				Kind:    UnexpectedKey,
				Key:     e.Key,
				Message: fmt.Sprintf("unexpected key %q", e.Key),
			})
			continue
		}
		if e.Value.IsNull() || f.Kind == codec.KindNull || e.Value.Kind() == f.Kind {
			continue
		}
		ok = false
		diags = append(diags, Diagnostic{
			Kind:    TypeMismatch,
			Key:     e.Key,
			Message: fmt.Sprintf("value of %q should be %s, got %s", e.Key, f.Kind, e.Value.Kind()),
		})
	}
	return ok, diags
}
