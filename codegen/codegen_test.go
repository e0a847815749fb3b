package codegen

import (
	"os"
	"testing"

	"wallaby/report"
)

func TestMain(m *testing.M) {
	report.InitReporter(report.LogLevelSilent)
	os.Exit(m.Run())
}

func TestLoopStackNesting(t *testing.T) {
	var ls LoopStack[string]

	ls.Push("outerTest", "outerEnd")
	ls.Push("innerTest", "innerEnd")

	if ls.Depth() != 2 {
		t.Fatalf("Depth() = %d; want 2", ls.Depth())
	}

	if top := ls.Top(nil); top.Continue != "innerTest" || top.Break != "innerEnd" {
		t.Errorf("Top() = %+v; want the inner loop's targets", top)
	}

	ls.Pop()

	if top := ls.Top(nil); top.Continue != "outerTest" || top.Break != "outerEnd" {
		t.Errorf("Top() after Pop() = %+v; want the outer loop's targets", top)
	}
}

func TestLoopStackTopOfEmptyRaises(t *testing.T) {
	err := func() (err error) {
		defer report.CatchErrors(&err)

		var ls LoopStack[int]
		ls.Top(nil)
		return nil
	}()

	if err == nil {
		t.Fatal("Top() of an empty loop stack did not raise")
	}
}

func TestLoopStackPopOfEmptyRaises(t *testing.T) {
	err := func() (err error) {
		defer report.CatchErrors(&err)

		var ls LoopStack[int]
		ls.Pop()
		return nil
	}()

	if err == nil {
		t.Fatal("Pop() of an empty loop stack did not raise")
	}
}
