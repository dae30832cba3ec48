package console

import (
	"strings"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

type command struct {
	keyword string
	op      domain.Operation
}

type menu []command

// keywordFor names op on the console. Both password operations share the
// change_password keyword; the tier decides which one it means.
func keywordFor(op domain.Operation) string {
	switch op {
	case domain.OpAddUser:
		return "add"
	case domain.OpDeleteUser:
		return "delete"
	case domain.OpListUsers:
		return "list"
	case domain.OpResetPassword, domain.OpChangeOwnPassword:
		return "change_password"
	default:
		return string(op)
	}
}

// menuFor lists the tier's permitted operations under their keywords.
func menuFor(t domain.RoleTier) menu {
	ops := domain.PermittedOperations(t)
	m := make(menu, 0, len(ops))
	for _, op := range ops {
		m = append(m, command{keyword: keywordFor(op), op: op})
	}
	return m
}

func (m menu) lookup(keyword string) (command, bool) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	for _, cmd := range m {
		if cmd.keyword == keyword {
			return cmd, true
		}
	}
	return command{}, false
}

func (m menu) keywords() string {
	words := make([]string, 0, len(m))
	for _, cmd := range m {
		words = append(words, cmd.keyword)
	}
	return strings.Join(words, "/")
}
