package preset

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/GustavoCaso/movienight/internal/cli"
	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/storage"
	"github.com/GustavoCaso/movienight/internal/util"
)

type presetCommand struct {
	force   bool
	filters cli.FilterFlags
}

func NewCommand() cli.Command {
	return &presetCommand{}
}

func (c *presetCommand) Description() string {
	return "Manage filter presets: save <name>, list, show <name>, delete <name>"
}

func (c *presetCommand) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "overwrite an existing preset on save")
	c.filters.Register(fs)
}

func (c *presetCommand) Run(ctx context.Context, env *cli.Env) error {
	if len(env.Args) == 0 {
		return errors.New("missing preset action, expected one of save, list, show, delete")
	}

	action, args := env.Args[0], env.Args[1:]

	if action == "list" {
		return c.list(ctx, env)
	}

	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("preset %s requires exactly one preset name", action)
	}
	name := strings.TrimSpace(args[0])

	switch action {
	case "save":
		return c.save(ctx, env, name)
	case "show":
		return c.show(ctx, env, name)
	case "delete":
		return c.delete(ctx, env, name)
	default:
		return fmt.Errorf("unknown preset action %q", action)
	}
}

func (c *presetCommand) save(ctx context.Context, env *cli.Env, name string) error {
	// a preset never starts from itself
	if c.filters.Preset == name {
		c.filters.Preset = ""
	}

	st, err := c.filters.State(ctx, env.Config.Filters, env.Storage)
	if err != nil {
		return err
	}
	// defaults are recomputed on load
	st = st.Changed(env.Config.Filters)

	_, err = env.Storage.CreatePreset(ctx, name, st)
	if errors.Is(err, storage.ErrPresetExists) {
		if !c.force {
			return fmt.Errorf("preset %q already exists, use -force to overwrite it", name)
		}
		_, err = env.Storage.UpdatePreset(ctx, name, st)
	}
	if err != nil {
		return fmt.Errorf("unable to save preset %q: %w", name, err)
	}

	env.Logger.Info("Preset saved", "name", name, "active", st.Active(env.Config.Filters))

	fmt.Fprintf(env.Out, "Saved preset %s\n", util.ColorOutput(name, "bold"))
	return nil
}

func (c *presetCommand) list(ctx context.Context, env *cli.Env) error {
	presets, err := env.Storage.GetPresets(ctx)
	if err != nil {
		return fmt.Errorf("unable to list presets: %w", err)
	}

	if len(presets) == 0 {
		fmt.Fprintln(env.Out, "No presets saved.")
		return nil
	}

	for _, p := range presets {
		active := p.State().Active(env.Config.Filters)
		fmt.Fprintf(env.Out, "%s  %s  %s\n",
			util.ColorOutput(p.Name(), "bold"),
			util.ColorOutput(p.UpdatedAt().Format("2006-01-02 15:04"), "faint"),
			strings.Join(active, ", "),
		)
	}

	return nil
}

func (c *presetCommand) show(ctx context.Context, env *cli.Env, name string) error {
	p, err := env.Storage.GetPreset(ctx, name)
	if err != nil {
		return notFound(name, err)
	}

	return cli.RenderState(env.Out, filter.Initialize(env.Config.Filters, p.State()), env.Config.Filters)
}

func (c *presetCommand) delete(ctx context.Context, env *cli.Env, name string) error {
	if _, err := env.Storage.DeletePreset(ctx, name); err != nil {
		return notFound(name, err)
	}

	fmt.Fprintf(env.Out, "Deleted preset %s\n", util.ColorOutput(name, "bold"))
	return nil
}

func notFound(name string, err error) error {
	var nf *storage.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Errorf("preset %q does not exist", name)
	}
	return fmt.Errorf("unable to access preset %q: %w", name, err)
}
