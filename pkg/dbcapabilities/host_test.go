package dbcapabilities

import "testing"

func TestNormalizeHost(t *testing.T) {
	cases := map[string]string{
		"localhost":        "localhost",
		" 127.0.0.1 ":      "localhost",
		"127.0.1.9":        "localhost",
		"::1":              "localhost",
		"[::1]":            "localhost",
		"DB.Example.COM":   "db.example.com",
		"db.example.com.":  "db.example.com",
		"::ffff:127.0.0.1": "localhost",
		"10.1.2.3":         "10.1.2.3",
	}
	for in, want := range cases {
		if got := NormalizeHost(in); got != want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", in, got, want)
		}
	}
}
