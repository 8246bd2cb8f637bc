package main

import (
	"context"
	"fmt"
	"io"

	"github.com/iamnorbiato/F1App/importer"
)

type params struct {
	year  int
	round int
}

// runner is the subset of *importer.Importer the CLI drives.
type runner interface {
	Seasons(ctx context.Context) (*importer.Summary, error)
	Circuits(ctx context.Context) (*importer.Summary, error)
	Statuses(ctx context.Context) (*importer.Summary, error)
	Constructors(ctx context.Context, year int) (*importer.Summary, error)
	Drivers(ctx context.Context, year int) (*importer.Summary, error)
	Races(ctx context.Context, year int) (*importer.Summary, error)
	Results(ctx context.Context, year int) (*importer.Summary, error)
	SprintResults(ctx context.Context, year int) (*importer.Summary, error)
	Qualifying(ctx context.Context, year int) (*importer.Summary, error)
	DriverStandings(ctx context.Context, year, round int) (*importer.Summary, error)
	ConstructorStandings(ctx context.Context, year, round int) (*importer.Summary, error)
	PitStops(ctx context.Context, year, round int) (*importer.Summary, error)
	LapTimes(ctx context.Context, year, round int) (*importer.Summary, error)
}

var _ runner = (*importer.Importer)(nil)

type task struct {
	name string
	run  func(ctx context.Context, r runner, p params) (*importer.Summary, error)
}

// tasks is in dependency order; "all" runs them top to bottom.
var tasks = []task{
	{"seasons", func(ctx context.Context, r runner, _ params) (*importer.Summary, error) { return r.Seasons(ctx) }},
	{"circuits", func(ctx context.Context, r runner, _ params) (*importer.Summary, error) { return r.Circuits(ctx) }},
	{"status", func(ctx context.Context, r runner, _ params) (*importer.Summary, error) { return r.Statuses(ctx) }},
	{"constructors", func(ctx context.Context, r runner, p params) (*importer.Summary, error) {
		return r.Constructors(ctx, p.year)
	}},
	{"drivers", func(ctx context.Context, r runner, p params) (*importer.Summary, error) { return r.Drivers(ctx, p.year) }},
	{"races", func(ctx context.Context, r runner, p params) (*importer.Summary, error) { return r.Races(ctx, p.year) }},
	{"results", func(ctx context.Context, r runner, p params) (*importer.Summary, error) { return r.Results(ctx, p.year) }},
	{"sprint", func(ctx context.Context, r runner, p params) (*importer.Summary, error) {
		return r.SprintResults(ctx, p.year)
	}},
	{"qualifying", func(ctx context.Context, r runner, p params) (*importer.Summary, error) {
		return r.Qualifying(ctx, p.year)
	}},
	{"driverstandings", func(ctx context.Context, r runner, p params) (*importer.Summary, error) {
		return r.DriverStandings(ctx, p.year, p.round)
	}},
	{"constructorstandings", func(ctx context.Context, r runner, p params) (*importer.Summary, error) {
		return r.ConstructorStandings(ctx, p.year, p.round)
	}},
	{"pitstops", func(ctx context.Context, r runner, p params) (*importer.Summary, error) {
		return r.PitStops(ctx, p.year, p.round)
	}},
	{"laptimes", func(ctx context.Context, r runner, p params) (*importer.Summary, error) {
		return r.LapTimes(ctx, p.year, p.round)
	}},
}

// selectTasks maps command-line entity names to tasks, keeping dependency
// order regardless of the order given.
func selectTasks(args []string) ([]task, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no entity given")
	}
	want := map[string]bool{}
	for _, a := range args {
		if a == "all" {
			return tasks, nil
		}
		want[a] = true
	}

	var out []task
	for _, t := range tasks {
		if want[t.name] {
			out = append(out, t)
			delete(want, t.name)
		}
	}
	for name := range want {
		return nil, fmt.Errorf("unknown entity %q", name)
	}
	return out, nil
}

// runTasks runs each task in turn, printing its summary to w. A failed run
// does not stop the ones after it; cancellation does.
func runTasks(ctx context.Context, r runner, selected []task, p params, w io.Writer) (failed bool) {
	for _, t := range selected {
		s, err := t.run(ctx, r, p)
		if s != nil {
			s.Print(w)
		}
		if err != nil {
			failed = true
			fmt.Fprintf(w, "%s: %v\n", t.name, err)
			if stopOnCancel(ctx, err) {
				return true
			}
		}
	}
	return failed
}
