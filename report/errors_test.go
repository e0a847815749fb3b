package report

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	InitReporter(LogLevelSilent)
	os.Exit(m.Run())
}

func TestCatchErrorsConvertsInternalErrors(t *testing.T) {
	err := func() (err error) {
		defer CatchErrors(&err)
		RaiseICE(nil, "slot %d has no owner", 3)
		return nil
	}()

	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v; want an *InternalError", err)
	}

	if !strings.Contains(ie.Message, "slot 3 has no owner") {
		t.Errorf("message = %q; want the formatted raise message", ie.Message)
	}
}

func TestCatchErrorsConvertsEncodeErrors(t *testing.T) {
	err := func() (err error) {
		defer CatchErrors(&err)
		RaiseEncodeError(nil, "value out of range")
		return nil
	}()

	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v; want an *EncodeError", err)
	}
}

func TestCatchErrorsPassesForeignPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("a foreign panic was swallowed")
		}
	}()

	func() (err error) {
		defer CatchErrors(&err)
		panic("not a compilation error")
	}()
}

func TestSpanString(t *testing.T) {
	cases := []struct {
		span *TextSpan
		want string
	}{
		{nil, "<unknown>"},
		{&TextSpan{}, "1:1"},
		{&TextSpan{StartLine: 4, StartCol: 9}, "5:10"},
	}

	for _, c := range cases {
		if got := c.span.String(); got != c.want {
			t.Errorf("String() = %q; want %q", got, c.want)
		}
	}
}

func TestNewSpanOver(t *testing.T) {
	start := &TextSpan{StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 5}
	end := &TextSpan{StartLine: 3, StartCol: 0, EndLine: 3, EndCol: 7}

	over := NewSpanOver(start, end)
	if over.StartLine != 1 || over.StartCol != 2 || over.EndLine != 3 || over.EndCol != 7 {
		t.Errorf("NewSpanOver = %+v", over)
	}
}
