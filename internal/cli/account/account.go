package account

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/GustavoCaso/movienight/internal/cli"
	"github.com/GustavoCaso/movienight/internal/event"
	"github.com/GustavoCaso/movienight/internal/storage"
	"github.com/GustavoCaso/movienight/internal/util"
)

type accountCommand struct {
	username string
	email    string
}

func NewCommand() cli.Command {
	return &accountCommand{}
}

func (c *accountCommand) Description() string {
	return "Manage your backend account: register, login, logout, status"
}

func (c *accountCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "u", "", "username")
	fs.StringVar(&c.email, "email", "", "email address, used on register")
}

func (c *accountCommand) Run(ctx context.Context, env *cli.Env) error {
	if len(env.Args) != 1 {
		return errors.New("expected exactly one account action: register, login, logout or status")
	}

	switch env.Args[0] {
	case "register":
		return c.register(ctx, env)
	case "login":
		return c.login(ctx, env)
	case "logout":
		return c.logout(ctx, env)
	case "status":
		return c.status(ctx, env)
	default:
		return fmt.Errorf("unknown account action %q", env.Args[0])
	}
}

func (c *accountCommand) register(ctx context.Context, env *cli.Env) error {
	username := strings.TrimSpace(c.username)
	if username == "" {
		return errors.New("account register requires -u")
	}
	email := strings.ToLower(strings.TrimSpace(c.email))
	if err := event.ValidateEmail(email); err != nil {
		return fmt.Errorf("account register requires a valid -email: %w", err)
	}

	password, err := readPassword(env)
	if err != nil {
		return err
	}

	user, err := env.Accounts.Register(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("unable to register: %w", err)
	}

	env.Logger.Info("Account registered", "username", user.Username, "id", user.ID)

	fmt.Fprintf(env.Out, "Registered %s, log in with 'account -u %s login'\n",
		util.ColorOutput(user.Username, "bold"), user.Username)
	return nil
}

func (c *accountCommand) login(ctx context.Context, env *cli.Env) error {
	username := strings.TrimSpace(c.username)
	if username == "" {
		return errors.New("account login requires -u")
	}

	password, err := readPassword(env)
	if err != nil {
		return err
	}

	tokens, err := env.Accounts.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("unable to log in: %w", err)
	}

	backend := env.Config.API.BaseURL
	err = env.Storage.SaveSession(ctx, storage.NewSession(backend, username, tokens.UserID, tokens.Access, tokens.Refresh, time.Now()))
	if err != nil {
		return fmt.Errorf("unable to store the session: %w", err)
	}

	env.Logger.Info("Logged in", "username", username, "backend", backend)

	fmt.Fprintf(env.Out, "Logged in as %s\n", util.ColorOutput(username, "bold"))
	return nil
}

func (c *accountCommand) logout(ctx context.Context, env *cli.Env) error {
	if err := env.Storage.DeleteSession(ctx, env.Config.API.BaseURL); err != nil {
		return fmt.Errorf("unable to log out: %w", err)
	}

	fmt.Fprintln(env.Out, "Logged out")
	return nil
}

func (c *accountCommand) status(ctx context.Context, env *cli.Env) error {
	if env.Config.API.Token != "" {
		fmt.Fprintln(env.Out, "Using the configured API token")
		return nil
	}

	session, err := env.Storage.GetSession(ctx, env.Config.API.BaseURL)
	if err != nil {
		var notFound *storage.NotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintln(env.Out, "Not logged in")
			return nil
		}
		return fmt.Errorf("unable to read the session: %w", err)
	}

	fmt.Fprintf(env.Out, "Logged in as %s on %s since %s\n",
		util.ColorOutput(session.Username(), "bold"),
		session.Backend(),
		session.UpdatedAt().Format("2006-01-02 15:04"))
	return nil
}

// readPassword reads the password without echo from a terminal, or the
// first line of any other input.
func readPassword(env *cli.Env) (string, error) {
	if f, ok := env.In.(*os.File); ok && term.IsTerminal(f.Fd()) {
		fmt.Fprint(env.Out, "Password: ")
		password, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(env.Out)
		if err != nil {
			return "", fmt.Errorf("unable to read the password: %w", err)
		}
		return string(password), nil
	}

	if env.In == nil {
		return "", errors.New("a password is required")
	}

	line, err := bufio.NewReader(env.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("unable to read the password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("a password is required")
	}
	return password, nil
}
