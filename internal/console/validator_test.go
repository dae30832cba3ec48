package console

import (
	"errors"
	"strings"
	"testing"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

func TestInputValidator(t *testing.T) {
	v := newInputValidator()

	if err := v.Validate(addUserRequest{Login: "alice", Password: "pw", Role: "User", Age: 0}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	err := v.Validate(addUserRequest{Login: "", Password: "", Role: "User", Age: -1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	for _, want := range []string{"login is required", "password is required", "age must be at least 0"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("message %q missing %q", err.Error(), want)
		}
	}

	err = v.Validate(passwordRequest{Password: strings.Repeat("x", 73)})
	if err == nil || !strings.Contains(err.Error(), "password must be at most 72") {
		t.Fatalf("expected length error, got %v", err)
	}
}
