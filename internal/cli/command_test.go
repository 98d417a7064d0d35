package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"testing"

	"github.com/GustavoCaso/movienight/internal/catalog"
	"github.com/GustavoCaso/movienight/internal/testutil"
)

// mockCommand implements the Command interface for testing.
type mockCommand struct {
	description string
	runError    error
	ran         bool
}

func (c *mockCommand) SetFlags(fset *flag.FlagSet) {
	fset.String("test", "", "test flag")
}

func (c *mockCommand) Description() string {
	return c.description
}

func (c *mockCommand) Run(_ context.Context, env *Env) error {
	c.ran = true
	_, _ = env.Out.Write([]byte("ran"))
	return c.runError
}

func TestCommandInterface(t *testing.T) {
	var cmd Command = &mockCommand{description: "Test command"}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cmd.SetFlags(fs)
	if fs.Lookup("test") == nil {
		t.Error("SetFlags() did not register the test flag")
	}

	if desc := cmd.Description(); desc != "Test command" {
		t.Errorf("Description() = %v, want %v", desc, "Test command")
	}

	out := &bytes.Buffer{}
	env := &Env{Logger: testutil.TestLogger(t), Out: out}
	if err := cmd.Run(context.Background(), env); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
	if out.String() != "ran" {
		t.Errorf("Run() output = %q, want %q", out.String(), "ran")
	}

	failing := &mockCommand{runError: errors.New("boom")}
	if err := failing.Run(context.Background(), env); err == nil {
		t.Error("Run() error = nil, want error")
	}
}

func TestCatalogFake(t *testing.T) {
	var _ Catalog = testutil.NewCatalog()
}

func TestCatalogClient(t *testing.T) {
	client := catalog.New(catalog.Options{BaseURL: "http://localhost:8000/api"}, testutil.TestLogger(t))

	var _ Catalog = client
	var _ Events = client
	var _ Accounts = client
}
