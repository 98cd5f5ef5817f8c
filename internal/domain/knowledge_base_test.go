package domain_test

import (
	"testing"

	"github.com/johnwards/aethertool/internal/domain"
)

func TestParseVisibility(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Visibility
		wantErr bool
	}{
		{in: "Public", want: domain.VisibilityPublic},
		{in: "Private", want: domain.VisibilityPrivate},
		{in: "public", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := domain.ParseVisibility(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVisibility(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVisibility(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVisibility(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
