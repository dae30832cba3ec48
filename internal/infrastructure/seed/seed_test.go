package seed

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/RiasZoV/Practice/internal/core/ports"
)

const sample = `
users:
  - login: alice
    password: secret
    role: User
    age: 30
  - login: " bob "
    password: pw
    role: Manager
    age: 41
    subordinates: [alice]
  - login: ""
    password: ignored
  - login: nopass
    role: User
`

func TestParse(t *testing.T) {
	got, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []ports.AddUserInput{
		{Login: "alice", Password: "secret", RoleName: "User", Age: 30},
		{Login: "bob", Password: "pw", RoleName: "Manager", Age: 41, SubordinateLogins: []string{"alice"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("users: [login: x")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	users, err := LoadUsers(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	if _, err := LoadUsers(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
