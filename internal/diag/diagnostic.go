package diag

import (
	"arbor/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding against a module. Spans carry no file, so the
// owning module name travels alongside them.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Module   string
	Primary  source.Span
	Notes    []Note
}
