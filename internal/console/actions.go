package console

import (
	"context"
	"strings"

	"github.com/RiasZoV/Practice/internal/core/domain"
	"github.com/RiasZoV/Practice/internal/core/ports"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// viewProfile shows the session's own snapshot of the user.
func (c *Console) viewProfile(s *domain.Session) error {
	u := s.User
	c.println("Profile:")
	c.printf("Login: %s\n", u.Login)
	c.printf("Age: %d\n", u.Age)
	c.printf("Role: %s\n", u.Role.Name)
	if u.LastLogin != nil {
		c.printf("Last login: %s\n", u.LastLogin.Format(timeLayout))
	}
	return nil
}

func (c *Console) changeOwnPassword(ctx context.Context, s *domain.Session) error {
	oldPassword, err := c.prompt("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := c.prompt("New password: ")
	if err != nil {
		return err
	}
	if err := c.validate.Validate(passwordRequest{Password: newPassword}); err != nil {
		return err
	}
	if err := c.auth.ChangeOwnPassword(ctx, s.User.ID, oldPassword, newPassword); err != nil {
		return err
	}
	c.println("Password changed.")
	return nil
}

func (c *Console) listSubordinates(ctx context.Context, s *domain.Session) error {
	subs, err := c.admin.ListSubordinates(ctx, s.User.ID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		c.println("No subordinates.")
		return nil
	}
	for _, sub := range subs {
		c.printf("Subordinate: %s (id %d)\n", sub.Login, sub.ID)
	}
	return nil
}

// resetPassword is the administrative reset used by managers and admins.
func (c *Console) resetPassword(ctx context.Context, s *domain.Session) error {
	id, err := c.promptID("User ID: ")
	if err != nil {
		return err
	}
	if err := c.authz.CheckResetScope(ctx, s, id); err != nil {
		return err
	}
	newPassword, err := c.prompt("New password: ")
	if err != nil {
		return err
	}
	if err := c.validate.Validate(passwordRequest{Password: newPassword}); err != nil {
		return err
	}
	if err := c.admin.ChangePassword(ctx, id, newPassword); err != nil {
		return err
	}
	c.println("Password changed.")
	return nil
}

// readNewUser prompts for the fields of one account. Subordinates are only
// asked for roles that can supervise.
func (c *Console) readNewUser() (ports.AddUserInput, error) {
	var in ports.AddUserInput
	var err error

	if in.Login, err = c.prompt("Login: "); err != nil {
		return in, err
	}
	if in.Password, err = c.prompt("Password: "); err != nil {
		return in, err
	}
	rolePrompt := "Role (" + strings.Join([]string{domain.RoleNameUser, domain.RoleNameManager, domain.RoleNameAdmin}, ", ") + "): "
	if in.RoleName, err = c.prompt(rolePrompt); err != nil {
		return in, err
	}
	if in.Age, err = c.promptAge("Age: "); err != nil {
		return in, err
	}

	req := addUserRequest{Login: in.Login, Password: in.Password, Role: in.RoleName, Age: in.Age}
	if err := c.validate.Validate(req); err != nil {
		return in, err
	}

	if domain.TierForName(in.RoleName).CanSupervise() {
		raw, err := c.prompt("Subordinate logins, comma separated (optional): ")
		if err != nil {
			return in, err
		}
		in.SubordinateLogins = splitLogins(raw)
	}
	return in, nil
}

func (c *Console) addUser(ctx context.Context) error {
	in, err := c.readNewUser()
	if err != nil {
		return err
	}
	created, err := c.admin.AddUser(ctx, in)
	if err != nil {
		if created != nil {
			c.printf("User %s added without subordinates.\n", created.Login)
		}
		return err
	}
	c.printf("User %s added (id %d).\n", created.Login, created.ID)
	return nil
}

func (c *Console) deleteUser(ctx context.Context) error {
	id, err := c.promptID("User ID to delete: ")
	if err != nil {
		return err
	}
	if err := c.admin.DeleteUser(ctx, id); err != nil {
		return err
	}
	c.println("User deleted.")
	return nil
}

func (c *Console) changeRole(ctx context.Context) error {
	id, err := c.promptID("User ID: ")
	if err != nil {
		return err
	}
	role, err := c.prompt("New role: ")
	if err != nil {
		return err
	}
	if err := c.admin.ChangeUserRole(ctx, id, role); err != nil {
		return err
	}
	c.printf("Role changed to %s.\n", role)
	return nil
}

func (c *Console) listUsers(ctx context.Context) error {
	users, err := c.admin.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.println("No users found.")
		return nil
	}

	c.printf("%-6s %-20s %-10s %-5s %s\n", "ID", "Login", "Role", "Age", "Last login")
	c.println(strings.Repeat("-", 70))
	for _, u := range users {
		last := "never"
		if u.LastLogin != nil {
			last = u.LastLogin.Format(timeLayout)
		}
		c.printf("%-6d %-20s %-10s %-5d %s\n", u.ID, u.Login, u.Role.Name, u.Age, last)
	}
	return nil
}

func (c *Console) changeSubordinates(ctx context.Context) error {
	id, err := c.promptID("User ID: ")
	if err != nil {
		return err
	}
	raw, err := c.prompt("New subordinate logins, comma separated: ")
	if err != nil {
		return err
	}
	if err := c.admin.ChangeSubordinates(ctx, id, splitLogins(raw)); err != nil {
		return err
	}
	c.println("Subordinates updated.")
	return nil
}

// InitialUsers runs the first-start prompt, adding one user per round until
// the operator declines another. Errors for a single user are reported and
// the prompt continues.
func (c *Console) InitialUsers(ctx context.Context) (int, error) {
	c.println("The directory is empty. Enter the initial users.")
	added := 0
	for {
		if err := ctx.Err(); err != nil {
			return added, err
		}

		in, err := c.readNewUser()
		if err == nil {
			var created *domain.User
			created, err = c.admin.AddUser(ctx, in)
			if created != nil {
				added++
				c.printf("User %s added (id %d).\n", created.Login, created.ID)
			}
		}
		if err != nil {
			if isEOF(err) {
				return added, nil
			}
			c.printf("Error: %s.\n", describeError(err, c.logger))
		}

		another, err := c.prompt("Add another user? (yes/no): ")
		if err != nil {
			return added, nil
		}
		if !strings.EqualFold(another, "yes") && !strings.EqualFold(another, "y") {
			return added, nil
		}
	}
}
