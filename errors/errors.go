package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseIngest   Phase = "ingest"   // ATDF decoding and collection
	PhaseMerge    Phase = "merge"    // register merging
	PhaseAssemble Phase = "assemble" // memory map assembly
	PhaseLayout   Phase = "layout"   // layout classification
	PhaseEmit     Phase = "emit"     // header and symbol emission
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedRegister Kind = "malformed_register"
	KindMergeConflict     Kind = "merge_conflict"
	KindWindowOverflow    Kind = "window_overflow"
	KindUnplacedRegister  Kind = "register_unplaced"
	KindIrregularHalves   Kind = "irregular_halves"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidInput      Kind = "invalid_input"
	KindNotFound          Kind = "not_found"
	KindIO                Kind = "io"
)

// Error is the structured error type used throughout the toolkit
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Register string
	Addr     uint32
	HasAddr  bool
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Register != "" {
		b.WriteString(" at ")
		b.WriteString(e.Register)
		if e.HasAddr {
			b.WriteString(fmt.Sprintf(" (0x%X)", e.Addr))
		}
	} else if e.HasAddr {
		b.WriteString(fmt.Sprintf(" at 0x%X", e.Addr))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Register sets the register name
func (b *Builder) Register(name string) *Builder {
	b.err.Register = name
	return b
}

// Addr sets the register address
func (b *Builder) Addr(addr uint32) *Builder {
	b.err.Addr = addr
	b.err.HasAddr = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MalformedRegister creates an error for a register whose byte size is
// outside the supported range
func MalformedRegister(name string, addr uint32, size int) *Error {
	return &Error{
		Phase:    PhaseMerge,
		Kind:     KindMalformedRegister,
		Register: name,
		Addr:     addr,
		HasAddr:  true,
		Detail:   fmt.Sprintf("register size %d not supported (want 1 or 2)", size),
		Value:    size,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a decoding error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseIngest,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// InvalidAttr creates an error for an attribute that failed numeric conversion
func InvalidAttr(element, attr, value string, cause error) *Error {
	return &Error{
		Phase:  PhaseIngest,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("attribute %s=%q on <%s>", attr, value, element),
		Cause:  cause,
	}
}

// ReadFailed creates an input file error
func ReadFailed(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseIngest,
		Kind:   KindIO,
		Detail: fmt.Sprintf("read %s", path),
		Cause:  cause,
	}
}

// WriteFailed creates an output file error
func WriteFailed(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindIO,
		Detail: fmt.Sprintf("write %s", path),
		Cause:  cause,
	}
}

// FileFailure records a single input file that could not be converted
type FileFailure struct {
	Path string
	Err  error
}

// BatchError is returned when a multi-file run fails for at least one input
type BatchError struct {
	Failures []FileFailure
}

// Add records a failed input file
func (e *BatchError) Add(path string, err error) {
	e.Failures = append(e.Failures, FileFailure{Path: path, Err: err})
}

// Empty reports whether any failure has been recorded
func (e *BatchError) Empty() bool {
	return len(e.Failures) == 0
}

func (e *BatchError) Error() string {
	if len(e.Failures) == 0 {
		return "[emit] io: no failures recorded"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("failed %d input file(s):\n", len(e.Failures)))

	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.Path)
		b.WriteString(":\n    ")
		b.WriteString(f.Err.Error())
		b.WriteByte('\n')
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *BatchError) Is(target error) bool {
	_, ok := target.(*BatchError)
	return ok
}
