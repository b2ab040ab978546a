package selection

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Fetcher loads option lists. *directory.Client implements it.
type Fetcher interface {
	Countries(ctx context.Context) ([]string, error)
	States(ctx context.Context, country string) ([]string, error)
	Cities(ctx context.Context, country, state string) ([]string, error)
}

// Fetch performs req with f and packages the outcome as a Result.
func Fetch(f Fetcher, req Request) Result {
	ctx := req.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		opts []string
		err  error
	)
	switch req.Level {
	case Country:
		opts, err = f.Countries(ctx)
	case State:
		opts, err = f.States(ctx, req.Country)
	case City:
		opts, err = f.Cities(ctx, req.Country, req.State)
	default:
		err = fmt.Errorf("unknown level %d", req.Level)
	}
	return Result{Level: req.Level, Token: req.Token, Options: opts, Err: err}
}

// NotFoundError means a value is not among the options offered for its
// level.
type NotFoundError struct {
	Level Level
	Value string
	Scope string
}

func (e *NotFoundError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("%s %q not found", e.Level, e.Value)
	}
	return fmt.Sprintf("%s %q not found in %s", e.Level, e.Value, e.Scope)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Resolve drives a Machine without a UI: it loads each level in turn and
// selects the given values, failing when a fetch fails or a value is not
// offered by the service.
func Resolve(ctx context.Context, f Fetcher, country, state, city string) (Selection, error) {
	m := New(WithContext(ctx))
	defer m.Close()

	steps := []struct {
		level Level
		value string
		scope string
	}{
		{Country, country, ""},
		{State, state, country},
		{City, city, state + ", " + country},
	}

	reqs := m.Mount()
	for _, step := range steps {
		for _, req := range reqs {
			m.Settle(Fetch(f, req))
		}
		if err := ctx.Err(); err != nil {
			return Selection{}, err
		}
		if msg := m.Err(); msg != "" {
			return Selection{}, errors.New(msg)
		}
		if step.value == "" {
			return Selection{}, fmt.Errorf("%s is required", step.level)
		}
		if !slices.Contains(m.Options(step.level), step.value) {
			return Selection{}, &NotFoundError{Level: step.level, Value: step.value, Scope: step.scope}
		}
		reqs = m.Select(step.level, step.value)
	}

	return m.Selection(), nil
}
