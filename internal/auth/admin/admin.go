// Package admin implements the operator commands behind edura-admin.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/service"
	"golang.org/x/term"
)

// ErrUsage is returned for unknown commands, bad flags or wrong argument counts.
var ErrUsage = errors.New("usage")

const usage = `usage: edura-admin <command> [flags] [args]

commands:
  lock <username>                 block logins for the account
  unlock <username>               allow logins again
  create-admin <username> <name>  create an administrator, password read from the terminal

Run edura-admin <command> -h for command flags.
`

// CLI runs one administrative command against the account store.
type CLI struct {
	Users  *service.UserService
	Admins *service.BootstrapService

	In  io.Reader
	Out io.Writer
}

// Run dispatches args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.Out, usage)
		return ErrUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "lock":
		return c.setStatus(ctx, rest, domain.StatusLocked)
	case "unlock":
		return c.setStatus(ctx, rest, domain.StatusActive)
	case "create-admin":
		return c.createAdmin(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(c.Out, usage)
		return nil
	default:
		fmt.Fprint(c.Out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

// parse runs fs over args and checks the positional count. A nil FlagSet
// with a nil error means -h was handled.
func (c *CLI) parse(fs *flag.FlagSet, args []string, positional ...string) (*flag.FlagSet, error) {
	fs.SetOutput(c.Out)
	fs.Usage = func() {
		fmt.Fprintf(c.Out, "usage: edura-admin %s [flags] <%s>\n", fs.Name(), strings.Join(positional, "> <"))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUsage, fs.Name(), err)
	}
	if fs.NArg() != len(positional) {
		fs.Usage()
		return nil, fmt.Errorf("%w: %s expects <%s>", ErrUsage, fs.Name(), strings.Join(positional, "> <"))
	}
	return fs, nil
}

func (c *CLI) setStatus(ctx context.Context, args []string, status string) error {
	name := "lock"
	if status == domain.StatusActive {
		name = "unlock"
	}

	fs, err := c.parse(flag.NewFlagSet(name, flag.ContinueOnError), args, "username")
	if fs == nil {
		return err
	}

	u, err := c.Users.SetStatus(ctx, fs.Arg(0), status)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "%s is now %s\n", u.Username, u.Status)
	return nil
}

func (c *CLI) createAdmin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	passwordFile := fs.String("password-file", "", "read the password from this file instead of the terminal")

	fs, err := c.parse(fs, args, "username", "name")
	if fs == nil {
		return err
	}

	var password string
	if *passwordFile != "" {
		raw, err := os.ReadFile(*passwordFile)
		if err != nil {
			return fmt.Errorf("read password file: %w", err)
		}
		password = strings.TrimRight(string(raw), "\r\n")
	} else if password, err = c.password(); err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	u, err := c.Admins.CreateAdmin(ctx, service.RegisterInput{
		Username: fs.Arg(0),
		Password: password,
		FullName: fs.Arg(1),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "created admin %s (%s)\n", u.Username, u.ID)
	return nil
}

// password reads without echo from a terminal, otherwise one line from In.
func (c *CLI) password() (string, error) {
	if f, ok := c.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.Out, "Enter password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.Out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
