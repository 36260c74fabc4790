package utils

import (
	"net/url"
	"strings"
	"testing"
)

func TestBuildUPIPaymentURI(t *testing.T) {
	uri := BuildUPIPaymentURI("cafe@upi", "Annapurna Cafe", 249.5, "Order #17")

	if !strings.HasPrefix(uri, "upi://pay?") {
		t.Fatalf("unexpected scheme: %s", uri)
	}

	values, err := url.ParseQuery(strings.TrimPrefix(uri, "upi://pay?"))
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{key: "pa", want: "cafe@upi"},
		{key: "pn", want: "Annapurna Cafe"},
		{key: "am", want: "249.50"},
		{key: "cu", want: "INR"},
		{key: "tn", want: "Order #17"},
	}
	for _, tt := range tests {
		if got := values.Get(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestBuildUPIPaymentURIOmitsEmptyFields(t *testing.T) {
	uri := BuildUPIPaymentURI("cafe@upi", "", 100, "")
	values, err := url.ParseQuery(strings.TrimPrefix(uri, "upi://pay?"))
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if values.Has("pn") {
		t.Error("empty payee name should be omitted")
	}
	if values.Has("tn") {
		t.Error("empty note should be omitted")
	}
	if got := values.Get("am"); got != "100.00" {
		t.Errorf("am = %q, want 100.00", got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 12.344, want: 12.34},
		{in: 12.346, want: 12.35},
		{in: 0, want: 0},
		{in: 99.999, want: 100},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
