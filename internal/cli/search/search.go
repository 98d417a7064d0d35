package search

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/GustavoCaso/movienight/internal/cli"
)

type searchCommand struct {
	query   string
	verbose bool
	filters cli.FilterFlags
}

func NewCommand() cli.Command {
	return &searchCommand{}
}

func (c *searchCommand) Description() string {
	return "Search movies in the catalog and filter the results"
}

func (c *searchCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.query, "q", "", "text to search for")
	fs.BoolVar(&c.verbose, "v", false, "show overview and runtime")
	c.filters.Register(fs)
}

func (c *searchCommand) Run(ctx context.Context, env *cli.Env) error {
	query := strings.TrimSpace(c.query)
	if query == "" {
		return fmt.Errorf("you must provide a query to use for the search")
	}

	resp, err := env.Catalog.SearchMovies(ctx, query)
	if err != nil {
		return fmt.Errorf("unable to search the catalog: %w", err)
	}

	movies, err := c.filters.Refine(ctx, env, resp.Results)
	if err != nil {
		return err
	}

	env.Logger.Info("Search finished", "query", query, "results", len(movies))

	return cli.RenderMovies(env.Out, movies, c.verbose)
}
