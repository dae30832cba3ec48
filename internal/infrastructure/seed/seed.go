// Package seed reads initial directory users from a YAML file.
package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RiasZoV/Practice/internal/core/ports"
)

type usersFile struct {
	Users []struct {
		Login        string   `yaml:"login"`
		Password     string   `yaml:"password"`
		Role         string   `yaml:"role"`
		Age          int      `yaml:"age"`
		Subordinates []string `yaml:"subordinates"`
	} `yaml:"users"`
}

// LoadUsers parses path into AddUserInput values in file order. Entries
// without a login or password are dropped.
func LoadUsers(path string) ([]ports.AddUserInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return Parse(data)
}

// Parse is LoadUsers on an in-memory document.
func Parse(data []byte) ([]ports.AddUserInput, error) {
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("seed: parse: %w", err)
	}

	out := make([]ports.AddUserInput, 0, len(uf.Users))
	for _, u := range uf.Users {
		login := strings.TrimSpace(u.Login)
		if login == "" || u.Password == "" {
			continue
		}
		out = append(out, ports.AddUserInput{
			Login:             login,
			Password:          u.Password,
			RoleName:          strings.TrimSpace(u.Role),
			Age:               u.Age,
			SubordinateLogins: u.Subordinates,
		})
	}
	return out, nil
}
