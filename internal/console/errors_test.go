package console

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

func TestDescribeError_KnownErrors(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidCredentials, "invalid login or password"},
		{domain.ErrUserNotFound, "user not found"},
		{fmt.Errorf("delete user: %w", domain.ErrUserNotFound), "user not found"},
		{domain.ErrRoleNotFound, "role not found"},
		{domain.ErrFunctionNotFound, "function not found"},
		{domain.ErrNotFound, "not found"},
		{domain.ErrDuplicateLogin, "a user with this login already exists"},
		{domain.ErrDuplicateRole, "a role with this name already exists"},
		{domain.ErrDuplicateFunction, "the role already has this function"},
		{domain.ErrForbidden, "operation not permitted"},
		{domain.ErrSubordinateCycle, "the new subordinates would make the hierarchy circular"},
		{fmt.Errorf("%w: age must be a whole number", domain.ErrInvalidInput), "invalid input: age must be a whole number"},
	}

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	for _, tc := range cases {
		if got := describeError(tc.err, log); got != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.err, tc.want, got)
		}
	}
	if strings.Contains(buf.String(), "unhandled error") {
		t.Fatalf("known errors must not be logged as unhandled: %s", buf.String())
	}
}

func TestDescribeError_UnknownIsLogged(t *testing.T) {
	var buf bytes.Buffer
	got := describeError(errors.New("disk on fire"), zerolog.New(&buf))

	if got != "internal error, see log for details" {
		t.Fatalf("unexpected message %q", got)
	}
	if !strings.Contains(buf.String(), "unhandled error") || !strings.Contains(buf.String(), "disk on fire") {
		t.Fatalf("expected unhandled error to be logged, got %s", buf.String())
	}
}
