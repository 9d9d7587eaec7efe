package core

import "testing"

func TestAccessGate(t *testing.T) {
	gate := NewAccessGate(map[string]string{"staff": "s3cret"})

	cases := []struct {
		name     string
		channel  string
		supplied string
		want     bool
	}{
		{name: "unprotected ignores credential", channel: "exo1", supplied: "anything", want: true},
		{name: "unprotected without credential", channel: "exo1", supplied: "", want: true},
		{name: "protected exact match", channel: "staff", supplied: "s3cret", want: true},
		{name: "protected wrong", channel: "staff", supplied: "S3cret", want: false},
		{name: "protected empty", channel: "staff", supplied: "", want: false},
		{name: "protected trailing space", channel: "staff", supplied: "s3cret ", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := gate.Check(tc.channel, tc.supplied); got != tc.want {
				t.Fatalf("Check(%q, %q) = %v, want %v", tc.channel, tc.supplied, got, tc.want)
			}
		})
	}

	if !gate.Protected("staff") || gate.Protected("exo1") {
		t.Fatalf("unexpected Protected results")
	}
}

func TestAccessGateCopiesSecrets(t *testing.T) {
	secrets := map[string]string{"staff": "one"}
	gate := NewAccessGate(secrets)
	secrets["staff"] = "two"

	if !gate.Check("staff", "one") {
		t.Fatalf("gate must not observe later changes to the input map")
	}
}

func TestNilAccessGateIsOpen(t *testing.T) {
	var gate *AccessGate
	if !gate.Check("staff", "") || gate.Protected("staff") {
		t.Fatalf("nil gate should allow everything")
	}
}
