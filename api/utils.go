package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"salesboard/analytics"
)

const queryDateLayout = "2006-01-02"

// parseCriteria builds filter criteria from query parameters. Absent
// parameters leave their dimension unrestricted.
//
//	from, to    ISO dates (inclusive)
//	managers, products, stages, statuses  comma-separated selectors
//	min_amount  minimum potential value
//	client      case-insensitive client-name substring
func parseCriteria(r *http.Request) (analytics.Criteria, error) {
	var c analytics.Criteria
	q := r.URL.Query()

	var err error
	if c.From, err = parseDateParam(q.Get("from")); err != nil {
		return c, err
	}
	if c.To, err = parseDateParam(q.Get("to")); err != nil {
		return c, err
	}
	if !c.From.IsZero() && !c.To.IsZero() && c.To.Before(c.From) {
		return c, fmt.Errorf("'to' date is before 'from' date")
	}

	c.Managers = splitParam(q.Get("managers"))
	c.Products = splitParam(q.Get("products"))
	c.Stages = splitParam(q.Get("stages"))
	for _, s := range splitParam(q.Get("statuses")) {
		switch analytics.Status(strings.ToLower(s)) {
		case analytics.StatusWon, analytics.StatusOpen, analytics.StatusLost:
			c.Statuses = append(c.Statuses, analytics.Status(strings.ToLower(s)))
		default:
			return c, fmt.Errorf("unknown status %q", s)
		}
	}

	c.MinAmount = getFloatParam(r, "min_amount", 0)
	c.ClientContains = strings.TrimSpace(q.Get("client"))

	return c, nil
}

func parseDateParam(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(queryDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func splitParam(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getFloatParam retrieves a float query parameter with default value
func getFloatParam(r *http.Request, key string, defaultVal float64) float64 {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return defaultVal
	}
	return val
}

// getBoolParam retrieves a boolean query parameter
func getBoolParam(r *http.Request, key string) bool {
	return strings.EqualFold(r.URL.Query().Get(key), "true")
}
