package filters

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/GustavoCaso/movienight/internal/cli"
	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/util"
)

type filtersCommand struct {
	filters cli.FilterFlags
}

func NewCommand() cli.Command {
	return &filtersCommand{}
}

func (c *filtersCommand) Description() string {
	return "Show the configured filters and the selections of a preset or -f flags"
}

func (c *filtersCommand) SetFlags(fs *flag.FlagSet) {
	c.filters.Register(fs)
}

func (c *filtersCommand) Run(ctx context.Context, env *cli.Env) error {
	cfg := env.Config.Filters

	for _, d := range cfg {
		if _, err := fmt.Fprintln(env.Out, describe(d)); err != nil {
			return err
		}
	}

	st, err := c.filters.State(ctx, cfg, env.Storage)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintln(env.Out); err != nil {
		return err
	}

	return cli.RenderState(env.Out, st, cfg)
}

func describe(d filter.Descriptor) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s) %s on %s", util.ColorOutput(d.Label, "bold"), d.ID, d.Kind, d.Field)

	switch d.Kind {
	case filter.KindRange:
		if d.Range != nil {
			fmt.Fprintf(&b, ": %v..%v step %v", d.Range.Min, d.Range.Max, d.Range.Step)
		}
		if d.Year {
			b.WriteString(" (year)")
		}
	case filter.KindMultiSelect, filter.KindSelect:
		if len(d.Options) > 0 {
			b.WriteString(": ")
			writeOptions(&b, d.Options)
		}
	}

	return b.String()
}

func writeOptions(w io.Writer, options []filter.Option) {
	for i, o := range options {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%v=%s", o.Value, o.Label)
	}
}
