package analytics

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleDeals() []Deal {
	deals := []Deal{
		{Date: date(2024, 1, 5), Manager: "Ivanov", Client: "Acme Corp", Product: "CRM", StageLabel: "Сделка", PlanAmount: 1000, FactAmount: 1000},
		{Date: date(2024, 1, 20), Manager: "Petrov", Client: "Globex", Product: "ERP", StageLabel: "Переговоры", PlanAmount: 5000},
		{Date: date(2024, 2, 10), Manager: "Ivanov", Client: "Initech", Product: "CRM", StageLabel: "Проигрыш", PlanAmount: 2000},
		{Date: date(2024, 2, 15), Manager: "Sidorov", Client: "acme industrial", Product: "BI", StageLabel: "Лид", PlanAmount: 300},
	}
	return Enrich(deals, DefaultOpenProbability)
}

func TestFilterConjunction(t *testing.T) {
	deals := sampleDeals()

	tests := []struct {
		name     string
		criteria Criteria
		expected int
	}{
		{"no restriction", Criteria{}, 4},
		{"date range", Criteria{From: date(2024, 1, 1), To: date(2024, 1, 31)}, 2},
		{"manager set", Criteria{Managers: []string{"Ivanov"}}, 2},
		{"empty selector means all", Criteria{Managers: nil, Products: nil}, 4},
		{"status set", Criteria{Statuses: []Status{StatusOpen}}, 2},
		{"min amount", Criteria{MinAmount: 1500}, 2},
		{"client substring case-insensitive", Criteria{ClientContains: "ACME"}, 2},
		{"conjunction of all", Criteria{
			From:           date(2024, 1, 1),
			To:             date(2024, 12, 31),
			Managers:       []string{"Ivanov", "Petrov"},
			Statuses:       []Status{StatusWon, StatusOpen},
			MinAmount:      500,
			ClientContains: "acme",
		}, 1},
		{"over-restrictive returns empty, not error", Criteria{Managers: []string{"Nobody"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(deals, tt.criteria)
			if len(got) != tt.expected {
				t.Errorf("len(Filter(...)) = %d, want %d", len(got), tt.expected)
			}
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	deals := sampleDeals()
	c := Criteria{Managers: []string{"Ivanov"}, MinAmount: 500}

	once := Filter(deals, c)
	twice := Filter(once, c)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter is not idempotent: %v vs %v", once, twice)
	}
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	deals := sampleDeals()
	snapshot := make([]Deal, len(deals))
	copy(snapshot, deals)

	Filter(deals, Criteria{Managers: []string{"Ivanov"}})

	if !reflect.DeepEqual(deals, snapshot) {
		t.Error("Filter mutated the source slice")
	}
}

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		prevStart time.Time
		prevEnd   time.Time
	}{
		{
			name:      "month-long period",
			start:     date(2024, 2, 1),
			end:       date(2024, 2, 29),
			prevStart: date(2024, 1, 3),
			prevEnd:   date(2024, 1, 31),
		},
		{
			name:      "single day",
			start:     date(2024, 3, 15),
			end:       date(2024, 3, 15),
			prevStart: date(2024, 3, 14),
			prevEnd:   date(2024, 3, 14),
		},
		{
			name:      "week",
			start:     date(2024, 1, 8),
			end:       date(2024, 1, 14),
			prevStart: date(2024, 1, 1),
			prevEnd:   date(2024, 1, 7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := PreviousPeriod(tt.start, tt.end)
			if !gotStart.Equal(tt.prevStart) || !gotEnd.Equal(tt.prevEnd) {
				t.Errorf("PreviousPeriod() = (%v, %v), want (%v, %v)",
					gotStart, gotEnd, tt.prevStart, tt.prevEnd)
			}
		})
	}
}
