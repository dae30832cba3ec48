// Package console is the interactive operator dialogue: login, role-scoped
// menus and the first-start user prompt.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/RiasZoV/Practice/internal/core/domain"
	"github.com/RiasZoV/Practice/internal/core/ports"
)

// Authorizer gates each menu action.
type Authorizer interface {
	Authorize(s *domain.Session, op domain.Operation) error
	CheckResetScope(ctx context.Context, s *domain.Session, targetID int64) error
}

// Console reads operator input line by line and drives the services.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	auth     ports.AuthService
	admin    ports.AdminService
	authz    Authorizer
	validate *inputValidator
	now      func() time.Time
	logger   zerolog.Logger
}

func New(in io.Reader, out io.Writer, auth ports.AuthService, admin ports.AdminService, authz Authorizer, logger zerolog.Logger) *Console {
	return &Console{
		in:       bufio.NewReader(in),
		out:      out,
		auth:     auth,
		admin:    admin,
		authz:    authz,
		validate: newInputValidator(),
		now:      time.Now,
		logger:   logger,
	}
}

// Run loops over login, the session menu and the exit-or-login choice until
// the operator types exit or input ends. Context cancellation also stops it
// between prompts.
func (c *Console) Run(ctx context.Context) error {
	err := c.run(ctx)
	if isEOF(err) {
		c.println()
		return nil
	}
	return err
}

func (c *Console) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		login, err := c.prompt("Login: ")
		if err != nil {
			return err
		}
		password, err := c.prompt("Password: ")
		if err != nil {
			return err
		}

		user, err := c.auth.Login(ctx, login, password)
		if err != nil {
			c.printf("Login failed: %s. Try again.\n", describeError(err, c.logger))
			continue
		}

		s := domain.NewSession(user, c.now())
		c.printf("Welcome, %s (%s).\n", user.Login, user.Role.Name)
		if err := c.serve(ctx, s); err != nil {
			return err
		}

		next, err := c.prompt("Type 'exit' to quit or 'login' to sign in as another user: ")
		if err != nil {
			return err
		}
		if strings.EqualFold(next, "exit") {
			c.println("Goodbye.")
			return nil
		}
	}
}

// serve runs the session menu until logout.
func (c *Console) serve(ctx context.Context, s *domain.Session) error {
	m := menuFor(s.Tier)
	question := "Choose an action (" + m.keywords() + "): "

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		keyword, err := c.prompt(question)
		if err != nil {
			return err
		}
		cmd, ok := m.lookup(keyword)
		if !ok {
			c.println("Unknown action. Try again.")
			continue
		}
		if err := c.authz.Authorize(s, cmd.op); err != nil {
			c.printf("Error: %s.\n", describeError(err, c.logger))
			continue
		}

		if cmd.op == domain.OpLogout {
			c.logger.Info().Str("login", s.User.Login).Dur("session", c.now().Sub(s.StartedAt)).Msg("user logged out")
			s.Close()
			c.println("Logged out.")
			return nil
		}

		if err := c.dispatch(ctx, s, cmd.op); err != nil {
			if isEOF(err) {
				return err
			}
			c.printf("Error: %s.\n", describeError(err, c.logger))
		}
	}
}

func (c *Console) dispatch(ctx context.Context, s *domain.Session, op domain.Operation) error {
	switch op {
	case domain.OpViewProfile:
		return c.viewProfile(s)
	case domain.OpChangeOwnPassword:
		return c.changeOwnPassword(ctx, s)
	case domain.OpListSubordinates:
		return c.listSubordinates(ctx, s)
	case domain.OpResetPassword:
		return c.resetPassword(ctx, s)
	case domain.OpAddUser:
		return c.addUser(ctx)
	case domain.OpDeleteUser:
		return c.deleteUser(ctx)
	case domain.OpChangeRole:
		return c.changeRole(ctx)
	case domain.OpListUsers:
		return c.listUsers(ctx)
	case domain.OpChangeSubordinates:
		return c.changeSubordinates(ctx)
	}
	return fmt.Errorf("no handler for %s", op)
}

func (c *Console) prompt(question string) (string, error) {
	c.printf("%s", question)
	line, err := c.in.ReadString('\n')
	if err != nil && (!isEOF(err) || line == "") {
		return "", io.EOF
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) promptID(question string) (int64, error) {
	raw, err := c.prompt(question)
	if err != nil {
		return 0, err
	}
	id, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive whole number", domain.ErrInvalidInput)
	}
	return id, nil
}

func (c *Console) promptAge(question string) (int, error) {
	raw, err := c.prompt(question)
	if err != nil {
		return 0, err
	}
	age, perr := strconv.Atoi(raw)
	if perr != nil {
		return 0, fmt.Errorf("%w: age must be a whole number", domain.ErrInvalidInput)
	}
	return age, nil
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...any) {
	_, _ = fmt.Fprintln(c.out, args...)
}

// splitLogins parses a comma separated list, dropping blanks.
func splitLogins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
