package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iamnorbiato/F1App/ergast"
)

func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func reqInt(field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s %q: not an integer", field, s)
	}
	return n, nil
}

func optInt(field, s string) (*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := reqInt(field, s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optFloat(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s %q: not a number", field, s)
	}
	return &f, nil
}

func intPtr(n int) *int { return &n }

// raceKey parses the season/round a flattened record belongs to.
func raceKey(ref ergast.RaceRef) (year, round int, err error) {
	if year, err = reqInt("season", ref.Season); err != nil {
		return 0, 0, err
	}
	if round, err = reqInt("round", ref.Round); err != nil {
		return 0, 0, err
	}
	return year, round, nil
}
