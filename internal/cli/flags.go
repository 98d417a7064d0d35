package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/movie"
	"github.com/GustavoCaso/movienight/internal/storage"
)

// assignments collects repeated -f flags.
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, " ")
}

func (a *assignments) Set(value string) error {
	*a = append(*a, value)
	return nil
}

// FilterFlags are the flags shared by the commands that narrow movie results.
type FilterFlags struct {
	Assignments assignments
	Preset      string
	Query       string
	Sort        string
	Exclude     string
	Event       int64
}

func (f *FilterFlags) Register(fs *flag.FlagSet) {
	fs.Var(&f.Assignments, "f", "filter as id=value, repeatable (e.g. rating=7..10, genres=28,878)")
	fs.StringVar(&f.Preset, "p", "", "start from the named preset")
	fs.StringVar(&f.Query, "query", "", "filters as URL query parameters (e.g. 'rating_min=7&genres=28&genres=878')")
	fs.StringVar(&f.Sort, "s", filter.DefaultSortOptions().String(), "sort as field:direction")
	fs.StringVar(&f.Exclude, "exclude", "", "comma separated movie ids to leave out")
	fs.Int64Var(&f.Event, "event", 0, "leave out the movies already proposed for this event")
}

// State builds the filter state: the defaults of cfg, overridden by the
// preset when one is named, then by the -query parameters, then by every
// -f assignment in order.
func (f *FilterFlags) State(ctx context.Context, cfg filter.Config, stor storage.Storage) (filter.State, error) {
	params, err := url.ParseQuery(strings.TrimPrefix(f.Query, "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid -query: %w", err)
	}

	var st filter.State
	if f.Preset == "" {
		if st, err = filter.ParseQuery(params, cfg); err != nil {
			return nil, err
		}
	} else {
		p, presetErr := stor.GetPreset(ctx, f.Preset)
		if presetErr != nil {
			var notFound *storage.NotFoundError
			if errors.As(presetErr, &notFound) {
				return nil, fmt.Errorf("preset %q does not exist", f.Preset)
			}
			return nil, fmt.Errorf("failed to load preset %q: %w", f.Preset, presetErr)
		}
		if st, err = filter.UpdateFromQuery(filter.Initialize(cfg, p.State()), params, cfg); err != nil {
			return nil, err
		}
	}

	for _, a := range f.Assignments {
		id, v, err := filter.ParseAssignment(cfg, a)
		if err != nil {
			return nil, err
		}
		st = st.Update(id, v)
	}

	return st, nil
}

func (f *FilterFlags) SortOptions() (*filter.SortOptions, error) {
	if f.Sort == "" {
		return filter.DefaultSortOptions(), nil
	}
	return filter.ParseSort(f.Sort)
}

// ExcludedIDs parses the -exclude flag.
func (f *FilterFlags) ExcludedIDs() ([]int64, error) {
	ids := []int64{}
	for _, raw := range strings.Split(f.Exclude, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid movie id %q in -exclude", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Excluded returns the -exclude ids followed by the movie options of the
// -event event.
func (f *FilterFlags) Excluded(ctx context.Context, env *Env) ([]int64, error) {
	ids, err := f.ExcludedIDs()
	if err != nil {
		return nil, err
	}
	if f.Event == 0 {
		return ids, nil
	}
	if env.Events == nil {
		return nil, errors.New("-event needs access to the events backend")
	}

	e, err := env.Events.Event(ctx, f.Event)
	if err != nil {
		return nil, fmt.Errorf("unable to load event %d: %w", f.Event, err)
	}

	return append(ids, e.MovieOptions...), nil
}

// Refine drops excluded movies, applies the filter state and sorts what is left.
func (f *FilterFlags) Refine(ctx context.Context, env *Env, movies []movie.Movie) ([]movie.Movie, error) {
	cfg := env.Config.Filters

	st, err := f.State(ctx, cfg, env.Storage)
	if err != nil {
		return nil, err
	}

	opts, err := f.SortOptions()
	if err != nil {
		return nil, err
	}

	excluded, err := f.Excluded(ctx, env)
	if err != nil {
		return nil, err
	}

	kept, err := filter.Apply(movie.Exclude(movies, excluded), st, cfg)
	if err != nil {
		return nil, err
	}

	env.Logger.Debug("Filtered movies",
		"received", len(movies),
		"kept", len(kept),
		"active", st.Active(cfg),
		"sort", opts.String())

	return filter.SortItems(kept, opts), nil
}
