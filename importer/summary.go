package importer

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Outcome classifies what reconciliation did with one record.
type Outcome int

const (
	Created Outcome = iota
	Updated
	Existing
	Errored
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Existing:
		return "existing"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Summary tallies the outcomes of one importer run.
type Summary struct {
	Entity   string
	Created  int
	Updated  int
	Existing int
	Errored  int
	Started  time.Time
	Finished time.Time
}

// Add counts one record outcome.
func (s *Summary) Add(o Outcome) {
	switch o {
	case Created:
		s.Created++
	case Updated:
		s.Updated++
	case Existing:
		s.Existing++
	default:
		s.Errored++
	}
}

// Total is the number of records accounted for.
func (s *Summary) Total() int {
	return s.Created + s.Updated + s.Existing + s.Errored
}

func (s *Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Print writes the human-readable end-of-run block.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\n--- %s import summary ---\n", s.Entity)
	fmt.Fprintf(w, "Created:                  %d\n", s.Created)
	fmt.Fprintf(w, "Updated:                  %d\n", s.Updated)
	fmt.Fprintf(w, "Skipped (already exists): %d\n", s.Existing)
	fmt.Fprintf(w, "Errors:                   %d\n", s.Errored)
	fmt.Fprintf(w, "Took:                     %s\n", s.Duration().Round(time.Millisecond))
}

// Fields returns the summary as zap fields.
func (s *Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.String("entity", s.Entity),
		zap.Int("created", s.Created),
		zap.Int("updated", s.Updated),
		zap.Int("existing", s.Existing),
		zap.Int("errored", s.Errored),
		zap.Duration("took", s.Duration()),
	}
}
