package validators

import (
	"testing"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/anonto42/chirp/backend/internal/models"
)

func TestValidate(t *testing.T) {
	v := NewValidator()
	bio := "short bio"

	cases := []struct {
		name    string
		in      interface{}
		wantErr string
	}{
		{"valid signup", &models.SignupRequest{Username: "alice", Fullname: "Alice", Email: "a@example.com", Password: "secret1"}, ""},
		{"missing username", &models.SignupRequest{Fullname: "Alice", Email: "a@example.com", Password: "secret1"}, "username is required"},
		{"bad email", &models.SignupRequest{Username: "alice", Fullname: "Alice", Email: "nope", Password: "secret1"}, "Invalid email format"},
		{"short password", &models.SignupRequest{Username: "alice", Fullname: "Alice", Email: "a@example.com", Password: "123"}, "password must be at least 6 characters long"},
		{"empty profile patch", &models.UpdateProfileRequest{}, ""},
		{"profile patch", &models.UpdateProfileRequest{Bio: &bio}, ""},
		{"comment required", &models.CreateCommentRequest{}, "text is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %q", tc.wantErr)
			}
			if apperror.KindOf(err) != apperror.KindInvalidInput {
				t.Fatalf("kind = %s", apperror.KindOf(err))
			}
			if err.Error() != tc.wantErr {
				t.Fatalf("message = %q, want %q", err.Error(), tc.wantErr)
			}
		})
	}
}
