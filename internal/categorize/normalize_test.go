package categorize

import (
	"sync"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "POSTO IPIRANGA", "posto ipiranga"},
		{"strips accents", "Cartório de São Paulo", "cartorio de sao paulo"},
		{"cedilla", "AÇOUGUE DO ZÉ", "acougue do ze"},
		{"punctuation collapses to spaces", "UBER*TRIP-SP  99app", "uber trip sp 99app"},
		{"keeps digits", "99 POP 123", "99 pop 123"},
		{"trims edges", "  *PIX*  ", "pix"},
		{"empty", "", ""},
		{"only punctuation", "***---***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if got := Normalize("PÃO DE AÇÚCAR*123"); got != "pao de acucar 123" {
					t.Errorf("Normalize() = %q, want %q", got, "pao de acucar 123")
					return
				}
			}
		}()
	}
	wg.Wait()
}
