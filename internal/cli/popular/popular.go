package popular

import (
	"context"
	"flag"
	"fmt"

	"github.com/GustavoCaso/movienight/internal/cli"
)

type popularCommand struct {
	verbose bool
	filters cli.FilterFlags
}

func NewCommand() cli.Command {
	return &popularCommand{}
}

func (c *popularCommand) Description() string {
	return "List popular movies and filter them"
}

func (c *popularCommand) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "show overview and runtime")
	c.filters.Register(fs)
}

func (c *popularCommand) Run(ctx context.Context, env *cli.Env) error {
	resp, err := env.Catalog.PopularMovies(ctx)
	if err != nil {
		return fmt.Errorf("unable to fetch popular movies: %w", err)
	}

	movies, err := c.filters.Refine(ctx, env, resp.Results)
	if err != nil {
		return err
	}

	return cli.RenderMovies(env.Out, movies, c.verbose)
}
