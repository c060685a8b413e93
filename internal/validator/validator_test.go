package validator

import (
	"errors"
	"strings"
	"testing"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
)

type sample struct {
	Country string   `json:"country" validate:"required,country"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Adults  int      `json:"adults" validate:"gte=1"`
	Tags    []string `json:"tags" validate:"omitempty,dive,required"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{
			name: "valid",
			in:   sample{Country: "UK", Email: "jane@example.com", Adults: 2},
		},
		{
			name: "no email is fine",
			in:   sample{Country: "Canada", Adults: 1},
		},
		{
			name:    "unknown country",
			in:      sample{Country: "France", Adults: 1},
			wantErr: "country must be one of UK, USA, Canada",
		},
		{
			name:    "bad email",
			in:      sample{Country: "UK", Email: "not-an-email", Adults: 1},
			wantErr: "email must be a valid email address",
		},
		{
			name:    "no adults",
			in:      sample{Country: "UK"},
			wantErr: "adults must be at least 1",
		},
		{
			name:    "empty tag",
			in:      sample{Country: "UK", Adults: 1, Tags: []string{"beach", ""}},
			wantErr: "tags[1] is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, derr.ErrInvalidInput) {
				t.Fatalf("error should wrap ErrInvalidInput: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
