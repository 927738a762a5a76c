package mangling

import "testing"

func TestCleanName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"main", "main"},
		{"_start", "_start"},
		{"operator new[]", "operator_new__"},
		{"std::vector<int>::size", "std__vector_int___size"},
		{"0x1234", "_0x1234"},
		{"été", "_t_"},
		{"a.b-c", "a_b_c"},
	}
	for _, tc := range cases {
		if got := CleanName(tc.in); got != tc.want {
			t.Errorf("CleanName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNopDemanglerReturnsEmpty(t *testing.T) {
	if got := (NopDemangler{}).Demangle("_Zfoo"); got != "" {
		t.Fatalf("got %q", got)
	}
}
