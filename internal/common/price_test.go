package common

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"Comma decimal", "12,50", "12.5", false},
		{"Thousands and comma", "1.234,56", "1234.56", false},
		{"Dot decimal", "12.50", "12.5", false},
		{"Integer", "30", "30", false},
		{"Currency prefix", "R$ 99,90", "99.9", false},
		{"Dotted thousands only", "1.234.567", "1234567", false},
		{"Rounded to cents", "10,999", "11", false},
		{"Empty", "  ", "", true},
		{"Letters", "abc", "", true},
		{"Negative", "-5,00", "", true},
		{"US thousands separator", "1,234.56", "", true},
		{"Comma then dot", "12,5.0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPrice) {
					t.Fatalf("expected ErrInvalidPrice, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParsePrice(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0,00"},
		{"9.9", "9,90"},
		{"1234.56", "1.234,56"},
		{"1000000", "1.000.000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := FormatPrice(decimal.RequireFromString(tt.input))
			if got != tt.want {
				t.Errorf("FormatPrice(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriceInput(t *testing.T) {
	if got := PriceInput(decimal.RequireFromString("1234.5")); got != "1234,50" {
		t.Errorf("PriceInput = %q, want 1234,50", got)
	}
}
