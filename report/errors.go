package report

import (
	"fmt"
	"os"
)

// TextSpan represents a range or "span" of source text.  It is used to identify
// the source location of a model node when a diagnostic must be attached to it.
// Text spans are inclusive on both sides; line and column numbers are
// zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

func (ts *TextSpan) String() string {
	if ts == nil {
		return "<unknown>"
	}

	return fmt.Sprintf("%d:%d", ts.StartLine+1, ts.StartCol+1)
}

// -----------------------------------------------------------------------------

// InternalError is an error raised when a back end detects that the contract
// guaranteed by the front end has been violated: an unresolved binding, a
// break or continue with no enclosing loop, a call whose arity or types do not
// match the callee's signature, or an unterminated basic block.  These are
// never user errors; they indicate a compiler bug upstream.
type InternalError struct {
	// The error message.
	Message string

	// The span of the offending node.  May be nil.
	Span *TextSpan
}

func (ie *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s (at %s)", ie.Message, ie.Span)
}

// RaiseICE raises an internal compiler error.  The panic is caught at the
// compilation boundary by CatchErrors: partial output is discarded and the
// compilation fails as a whole.
// NB: This function never returns.
func RaiseICE(span *TextSpan, msg string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(msg, args...), Span: span})
}

// EncodeError is an error raised during serialization when a value cannot be
// represented in the target encoding, such as an integer literal outside the
// range of the target's integer type.
type EncodeError struct {
	// The error message.
	Message string

	// The span of the offending node.  May be nil.
	Span *TextSpan
}

func (ee *EncodeError) Error() string {
	return fmt.Sprintf("encoding error: %s (at %s)", ee.Message, ee.Span)
}

// RaiseEncodeError raises an encoding-domain error.  Like RaiseICE, the panic
// is caught at the compilation boundary and fails the compilation atomically.
// NB: This function never returns.
func RaiseEncodeError(span *TextSpan, msg string, args ...interface{}) {
	panic(&EncodeError{Message: fmt.Sprintf(msg, args...), Span: span})
}

// CatchErrors converts a raised compilation error back into a returned error.
// It must ALWAYS be deferred, at the boundary of a single compilation:
//
//	func (g *Generator) Compile(prog *ast.Program) (mod *Program, err error) {
//	    defer report.CatchErrors(&err)
//	    ...
//	}
//
// Panics which are not compilation errors continue to propagate.
func CatchErrors(err *error) {
	if x := recover(); x != nil {
		switch v := x.(type) {
		case *InternalError:
			ReportStdError(v)
			*err = v
		case *EncodeError:
			ReportStdError(v)
			*err = v
		default:
			panic(x)
		}
	}
}

// -----------------------------------------------------------------------------

// ReportFatal reports a fatal error.  These are errors that should cause the
// program to stop immediately.  They are expected errors that generally result
// from invalid configuration: a malformed build profile, an unwritable output
// path, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep == nil || rep.logLevel > LogLevelSilent {
		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(err error) {
	if rep == nil || rep.logLevel > LogLevelSilent {
		if rep != nil {
			rep.m.Lock()
			defer rep.m.Unlock()
			rep.isErr = true
		}

		displayError(err.Error())
	}
}

// ReportInfo reports an informational compilation message.
func ReportInfo(tag, message string, args ...interface{}) {
	if rep == nil || rep.logLevel >= LogLevelVerbose {
		displayInfo(tag, fmt.Sprintf(message, args...))
	}
}
