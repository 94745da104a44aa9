package validators

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"92999990000", "5592999990000"},
		{"(92) 99999-0000", "5592999990000"},
		{"092 99999 0000", "5592999990000"},
		{"+55 92 99999-0000", "5592999990000"},
		{"5592999990000", "5592999990000"},
		{"(11) 3333-4444", "551133334444"},
		{"12345", "12345"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsPhoneValid(t *testing.T) {
	if !IsPhoneValid("5592999990000") || !IsPhoneValid("551133334444") {
		t.Fatal("normalized numbers must be valid")
	}
	if IsPhoneValid("12345") || IsPhoneValid("4492999990000") {
		t.Fatal("unexpected valid number")
	}
}

func TestEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Barbearia.COM "); got != "ana@barbearia.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
	for _, ok := range []string{"", "ana@barbearia.com", "a.b+c@mail.com.br"} {
		if !IsEmailValid(ok) {
			t.Fatalf("%q should be valid", ok)
		}
	}
	for _, bad := range []string{"ana", "ana@", "ana@localhost", "Ana <ana@x.com>"} {
		if IsEmailValid(bad) {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}
