package analytics

import (
	"strings"
	"time"
)

// Criteria is a conjunction of deal predicates. A zero value for any field
// means "no restriction on that dimension"; in particular an empty selector
// slice matches everything, never nothing.
type Criteria struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`

	Managers []string `json:"managers,omitempty"`
	Products []string `json:"products,omitempty"`
	Stages   []string `json:"stages,omitempty"`
	Statuses []Status `json:"statuses,omitempty"`

	// MinAmount applies to the deal's potential value.
	MinAmount float64 `json:"min_amount,omitempty"`

	// ClientContains is a case-insensitive substring match on client name.
	ClientContains string `json:"client_contains,omitempty"`
}

// Filter returns the deals matching every supplied predicate. The source
// slice is never mutated; the result may be empty, which is a valid
// terminal state rather than an error.
func Filter(deals []Deal, c Criteria) []Deal {
	managers := toSet(c.Managers)
	products := toSet(c.Products)
	stages := toSet(c.Stages)

	statuses := make(map[Status]bool, len(c.Statuses))
	for _, s := range c.Statuses {
		statuses[s] = true
	}

	clientSub := strings.ToLower(strings.TrimSpace(c.ClientContains))

	out := make([]Deal, 0, len(deals))
	for _, d := range deals {
		if !c.From.IsZero() && dateOnly(d.Date).Before(dateOnly(c.From)) {
			continue
		}
		if !c.To.IsZero() && dateOnly(d.Date).After(dateOnly(c.To)) {
			continue
		}
		if len(managers) > 0 && !managers[d.Manager] {
			continue
		}
		if len(products) > 0 && !products[d.Product] {
			continue
		}
		if len(stages) > 0 && !stages[d.StageLabel] {
			continue
		}
		if len(statuses) > 0 && !statuses[d.Status] {
			continue
		}
		if c.MinAmount > 0 && d.PotentialValue < c.MinAmount {
			continue
		}
		if clientSub != "" && !strings.Contains(strings.ToLower(d.Client), clientSub) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// PreviousPeriod returns the immediately preceding period of identical
// length in days: prevEnd is the day before start and prevStart keeps the
// inclusive day count equal. A single-day period yields a single-day
// previous period.
func PreviousPeriod(start, end time.Time) (time.Time, time.Time) {
	start = dateOnly(start)
	end = dateOnly(end)

	lengthDays := int(end.Sub(start).Hours()/24) + 1
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(lengthDays - 1))
	return prevStart, prevEnd
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
