package kyc

import "testing"

func TestValidateName(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Al", true},
		{"John Smith", true},
		{"A", false},
		{"  A  ", false},
		{"123", false},
		{"", false},
		{"1a", true},
		{"  Jo  ", true},
	}
	for _, tc := range cases {
		if got := ValidateName(tc.in); got != tc.want {
			t.Fatalf("ValidateName(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestExtractPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"my number is 98-765 43210 ok", "9876543210"},
		{"9876543210", "9876543210"},
		{"98765432109999", "9876543210"},
		{"123", "123"},
		{"no digits here", ""},
	}
	for _, tc := range cases {
		if got := ExtractPhone(tc.in); got != tc.want {
			t.Fatalf("ExtractPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"98-765 43210", true},
		{"123", false},
		{"98765432101", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidatePhone(tc.in); got != tc.want {
			t.Fatalf("ValidatePhone(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestExtractPAN(t *testing.T) {
	if got := ExtractPAN("a b c d e 1 2 3 4 f"); got != "ABCDE1234F" {
		t.Fatalf("ExtractPAN spelled-out = %q, want ABCDE1234F", got)
	}
	if got := ExtractPAN("abcde1234f"); got != "ABCDE1234F" {
		t.Fatalf("ExtractPAN lowercase = %q, want ABCDE1234F", got)
	}
}

func TestValidatePAN(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"ABCDE1234F", true},
		{"a b c d e 1 2 3 4 f", true},
		{"ABCDE12345", false}, // last char not a letter
		{"ABCD61234F", false}, // digit in the letter block
		{"ABCDE1234", false},  // too short
		{"ABCDE1234FF", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidatePAN(tc.in); got != tc.want {
			t.Fatalf("ValidatePAN(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClassifyConsent(t *testing.T) {
	cases := []struct {
		in         string
		consented  bool
		recognized bool
	}{
		{"yes absolutely", true, true},
		{"Yeah", true, true},
		{"sure thing", true, true},
		{"no thanks", false, true},
		{"Nope", false, true},
		{"yes or no", true, true}, // affirmative checked first
		{"maybe", false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		consented, recognized := ClassifyConsent(tc.in)
		if consented != tc.consented || recognized != tc.recognized {
			t.Fatalf("ClassifyConsent(%q) = (%v, %v), want (%v, %v)",
				tc.in, consented, recognized, tc.consented, tc.recognized)
		}
	}
}

func TestRecordComplete(t *testing.T) {
	rec := Record{Name: "John Smith", Phone: "9876543210", PAN: "ABCDE1234F", Consent: true, Timestamp: "2024-01-01T00:00:00Z"}
	if !rec.Complete() {
		t.Fatalf("expected complete record")
	}
	rec.Timestamp = ""
	if rec.Complete() {
		t.Fatalf("record without timestamp must not be complete")
	}
}
