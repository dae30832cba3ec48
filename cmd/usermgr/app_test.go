package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("USERMGR_STORE", "sqlite")
	t.Setenv("USERMGR_SQLITE_PATH", filepath.Join(dir, "data", "usermgr.db"))
	t.Setenv("USERMGR_BCRYPT_COST", "4")
	t.Setenv("USERMGR_LOG_LEVEL", "off")
	t.Setenv("USERMGR_METRICS_FILE", filepath.Join(dir, "usermgr.prom"))
	return dir
}

func writeSeed(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "users.yaml")
	doc := `users:
  - login: admin
    password: adminpw
    role: Admin
    age: 40
  - login: alice
    password: alicepw
    role: User
    age: 30
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestRunCheck_SQLite(t *testing.T) {
	setTestEnv(t)

	var out bytes.Buffer
	if err := runCheck(context.Background(), &out); err != nil {
		t.Fatalf("check: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), `"sqlite"`) || !strings.Contains(out.String(), `"status": "ok"`) {
		t.Fatalf("unexpected report: %s", out.String())
	}
}

func TestRunSeed_Idempotent(t *testing.T) {
	dir := setTestEnv(t)
	path := writeSeed(t, dir)

	var out bytes.Buffer
	if err := runSeed(context.Background(), path, &out); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := out.String(); got != "2 users added, 2 in directory\n" {
		t.Fatalf("unexpected output %q", got)
	}

	out.Reset()
	if err := runSeed(context.Background(), path, &out); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if got := out.String(); got != "0 users added, 2 in directory\n" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "usermgr.prom")); err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
}

func TestRunConsole_SeedFileThenLogin(t *testing.T) {
	dir := setTestEnv(t)
	t.Setenv("USERMGR_SEED_FILE", writeSeed(t, dir))

	in := strings.NewReader("alice\nalicepw\nview_profile\nlogout\nexit\n")
	var out bytes.Buffer
	if err := runConsole(context.Background(), in, &out); err != nil {
		t.Fatalf("console: %v", err)
	}
	for _, want := range []string{"Welcome, alice (User).", "Age: 30", "Goodbye."} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "The directory is empty") {
		t.Fatalf("seeded directory must skip the initial-user prompt")
	}
}

func TestRunConsole_EmptyDirectoryPromptsForUsers(t *testing.T) {
	setTestEnv(t)

	in := strings.NewReader("root\nrootpw\nAdmin\n33\n\nno\nroot\nrootpw\nlist\nlogout\nexit\n")
	var out bytes.Buffer
	if err := runConsole(context.Background(), in, &out); err != nil {
		t.Fatalf("console: %v", err)
	}
	for _, want := range []string{"The directory is empty", "User root added (id 1).", "Welcome, root (Admin).", "Goodbye."} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}
