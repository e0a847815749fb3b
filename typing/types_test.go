package typing

import "testing"

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindBool, "bool"},
		{KindChar, "char"},
		{KindUnit, "unit"},
	}

	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("%d.String() = %q; want %q", c.kind, got, c.want)
		}
	}
}

func TestIsIntegral(t *testing.T) {
	for _, k := range []Kind{KindInt, KindBool, KindChar} {
		if !k.IsIntegral() {
			t.Errorf("%s.IsIntegral() = false; want true", k)
		}
	}

	for _, k := range []Kind{KindFloat, KindUnit} {
		if k.IsIntegral() {
			t.Errorf("%s.IsIntegral() = true; want false", k)
		}
	}
}

func TestFuncTypeString(t *testing.T) {
	cases := []struct {
		ft   *FuncType
		want string
	}{
		{&FuncType{ReturnType: KindUnit}, "() unit"},
		{&FuncType{ParamTypes: []Kind{KindInt}, ReturnType: KindInt}, "(int) int"},
		{&FuncType{ParamTypes: []Kind{KindInt, KindFloat}, ReturnType: KindBool}, "(int, float) bool"},
	}

	for _, c := range cases {
		if got := c.ft.String(); got != c.want {
			t.Errorf("String() = %q; want %q", got, c.want)
		}
	}
}
