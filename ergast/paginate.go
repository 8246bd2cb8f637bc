package ergast

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// extractor pulls the leaf items out of one decoded page.
type extractor[T any] func(*MRData) ([]T, error)

// fetchAll walks limit/offset pages of path until the accumulated item count
// reaches the first page's total or a page comes back empty. Any failure
// discards what was accumulated and returns a *FetchError.
// A non-nil pace is waited on before every page request.
func fetchAll[T any](ctx context.Context, c *Client, path string, pace *rate.Limiter, extract extractor[T]) ([]T, error) {
	var (
		items  []T
		total  = -1
		offset = 0
	)

	fail := func(reqURL string, err error) ([]T, error) {
		known := total
		if known < 0 {
			known = 0
		}
		return nil, &FetchError{URL: reqURL, Total: known, Err: err}
	}

	for {
		reqURL := c.pageURL(path, offset)

		if pace != nil {
			if err := pace.Wait(ctx); err != nil {
				return fail(reqURL, err)
			}
		}

		c.log.Debug("fetching page", zap.String("url", reqURL))
		page, err := c.page(ctx, reqURL)
		if err != nil {
			return fail(reqURL, err)
		}
		if total < 0 {
			total = int(page.Total)
		}

		got, err := extract(page)
		if err != nil {
			return fail(reqURL, err)
		}
		items = append(items, got...)

		if len(got) == 0 || len(items) >= total {
			break
		}
		offset += c.pageSize
	}

	c.log.Debug("fetched resource",
		zap.String("path", path),
		zap.Int("total", total),
		zap.Int("items", len(items)))
	return items, nil
}

func missing(table string) error {
	return fmt.Errorf("%s: %w", table, ErrUnexpectedShape)
}

// races returns the RaceTable of a page.
func races(p *MRData) ([]Race, error) {
	if p.RaceTable == nil {
		return nil, missing("RaceTable")
	}
	return p.RaceTable.Races, nil
}

// standings returns the StandingsLists of a page.
func standings(p *MRData) ([]StandingsList, error) {
	if p.StandingsTable == nil {
		return nil, missing("StandingsTable")
	}
	return p.StandingsTable.StandingsLists, nil
}

func refOf(r Race) RaceRef {
	return RaceRef{Season: r.Season, Round: r.Round}
}
