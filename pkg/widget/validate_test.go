package widget

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    float64
		message string
	}{
		"decimal":      {in: "12.50", want: 12.5},
		"currency":     {in: "$3", want: 3},
		"euro spaced":  {in: "€ 4.2", want: 4.2},
		"thousands":    {in: "1,200.00", want: 1200},
		"rounds cents": {in: "0.005", want: 0.01},
		"not a number": {in: "abc", message: `"abc" is not a number`},
		"empty":        {in: "  ", message: "Enter an amount"},
		"zero":         {in: "0", message: "Amount must be positive"},
		"negative":     {in: "-5", message: "Amount must be positive"},
		"rounds to 0":  {in: "0.001", message: "Amount must be positive"},
		"two symbols":  {in: "$$1", message: `"$$1" is not a number`},
		"infinite":     {in: "Inf", message: `"Inf" is not a number`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.message != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if verr.Message != tc.message {
					t.Fatalf("expected %q, got %q", tc.message, verr.Message)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	if n, err := ParseCount(" 7 ", 0, 10); err != nil || n != 7 {
		t.Fatalf("expected 7, got %d, %v", n, err)
	}
	if _, err := ParseCount("11", 0, 10); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := ParseCount("1.5", 0, 10); err == nil {
		t.Fatalf("expected whole number error")
	}
}

func TestRequireText(t *testing.T) {
	if got, err := RequireText("  hi ", "x"); err != nil || got != "hi" {
		t.Fatalf("expected trimmed text, got %q, %v", got, err)
	}
	_, err := RequireText("\t", "Enter a task")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Message != "Enter a task" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDecodeEnvelope(t *testing.T) {
	v, data := decodeEnvelope([]byte(`{"version":3,"saved":"x","data":{"a":1}}`))
	if v != 3 || string(data) != `{"a":1}` {
		t.Fatalf("unexpected %d %s", v, data)
	}
	v, data = decodeEnvelope([]byte(` [1,2] `))
	if v != 0 || string(data) != `[1,2]` {
		t.Fatalf("legacy blob: %d %s", v, data)
	}
	v, data = decodeEnvelope([]byte(`{"data":1}`))
	if v != 0 || string(data) != `{"data":1}` {
		t.Fatalf("object without version is legacy: %d %s", v, data)
	}
}
