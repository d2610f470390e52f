// Package apierrors implements the error taxonomy of spec.md §7. Fatal
// errors are returned as plain Go errors wrapping one of the sentinel
// Kind values below; non-fatal degenerate-path events are recorded through
// Diagnostics instead of being returned at all, matching the teacher's
// constraint/objective packages which return bool/float64, not error, for
// conditions that are expected rather than exceptional.
package apierrors

import "fmt"

// Kind identifies which taxonomy entry an Error belongs to.
type Kind int

const (
	// UnknownMcdaMethod: alg_ind outside {1,2,3}. Fatal for the scenario.
	UnknownMcdaMethod Kind = iota
	// ShapeMismatch: array dimensionality or site-id mismatch at Domain
	// construction. Fatal at Domain construction.
	ShapeMismatch
)

func (k Kind) String() string {
	switch k {
	case UnknownMcdaMethod:
		return "UnknownMcdaMethod"
	case ShapeMismatch:
		return "ShapeMismatch"
	default:
		return "UnknownErrorKind"
	}
}

// Error is a fatal error carrying its taxonomy Kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds a taxonomy-tagged error.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is lets errors.Is match on Kind alone, e.g. errors.Is(err, apierrors.ShapeMismatch).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// DiagnosticKind identifies a non-fatal degenerate-path event.
type DiagnosticKind int

const (
	// EmptyCandidateSet: risk filters removed every candidate row.
	EmptyCandidateSet DiagnosticKind = iota
	// DegenerateDistanceSort: the spatial-spread constraint could not be
	// fully satisfied; a best-effort result was returned.
	DegenerateDistanceSort
	// NumericDegeneracy: NaN/Inf produced during normalization (zero
	// variance column, empty sample), replaced with 0.
	NumericDegeneracy
	// RotationPoolExhausted: the rotation rule in §4.D left fewer
	// candidates than n_int; see SPEC_FULL.md Open Question (i).
	RotationPoolExhausted
	// DepthFilterEmpty: the depth filter in §4.D.1 removed every site; all
	// locations were retained instead.
	DepthFilterEmpty
)

func (d DiagnosticKind) String() string {
	switch d {
	case EmptyCandidateSet:
		return "EmptyCandidateSet"
	case DegenerateDistanceSort:
		return "DegenerateDistanceSort"
	case NumericDegeneracy:
		return "NumericDegeneracy"
	case RotationPoolExhausted:
		return "RotationPoolExhausted"
	case DepthFilterEmpty:
		return "DepthFilterEmpty"
	default:
		return "UnknownDiagnosticKind"
	}
}

// Diagnostic is one recorded non-fatal event.
type Diagnostic struct {
	Kind    DiagnosticKind
	Year    int
	Message string
}

// Diagnostics accumulates non-fatal events for one scenario run. It is not
// safe for concurrent use; pkg/runner creates one instance per scenario run.
type Diagnostics struct {
	events []Diagnostic
	seen   map[DiagnosticKind]bool
}

// NewDiagnostics returns an empty sink.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{seen: make(map[DiagnosticKind]bool)}
}

// Record appends an event. For DegenerateDistanceSort, spec.md §4.C
// requires the warning be emitted "once per scenario"; Record enforces that
// by dropping repeats of that kind.
func (d *Diagnostics) Record(kind DiagnosticKind, year int, format string, args ...interface{}) {
	if kind == DegenerateDistanceSort && d.seen[kind] {
		return
	}
	d.seen[kind] = true
	d.events = append(d.events, Diagnostic{Kind: kind, Year: year, Message: fmt.Sprintf(format, args...)})
}

// Events returns the accumulated diagnostics in recording order.
func (d *Diagnostics) Events() []Diagnostic {
	return d.events
}

// Strings renders each diagnostic as a single line, for ResultRecord.Diagnostics.
func (d *Diagnostics) Strings() []string {
	out := make([]string, len(d.events))
	for i, e := range d.events {
		out[i] = fmt.Sprintf("year=%d %s: %s", e.Year, e.Kind, e.Message)
	}
	return out
}
