package analytics

import "testing"

func TestClassifyStage(t *testing.T) {
	tests := []struct {
		label    string
		expected Status
	}{
		{"Сделка", StatusWon},
		{"Оплачено", StatusWon},
		{"Closed Won", StatusWon},
		{"Проигрыш", StatusLost},
		{"Отказ клиента", StatusLost},
		{"closed lost", StatusLost},
		{"Отменена", StatusLost},
		{"Переговоры", StatusOpen},
		{"Первичный контакт", StatusOpen},
		{"Коммерческое предложение", StatusOpen},
		{"Some unknown stage", StatusOpen},
		{"", StatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := ClassifyStage(tt.label); got != tt.expected {
				t.Errorf("ClassifyStage(%q) = %s, want %s", tt.label, got, tt.expected)
			}
		})
	}
}

func TestStageProbability(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		status   Status
		expected float64
	}{
		{"negotiation hint", "Переговоры", StatusOpen, 0.65},
		{"won label hint", "Сделка", StatusWon, 1.0},
		{"lead hint", "Новый лид", StatusOpen, 0.10},
		{"contact hint", "Первичный контакт", StatusOpen, 0.20},
		{"proposal hint", "Коммерческое предложение", StatusOpen, 0.55},
		{"contract hint", "Согласование договора", StatusOpen, 0.80},
		{"invoice hint", "Выставлен счет", StatusOpen, 0.90},
		// Earlier funnel hints win when several substrings match.
		{"hint order tie-break", "Переговоры по договору", StatusOpen, 0.65},
		// No hint: fallback depends on status.
		{"won fallback", "Выигранная возможность", StatusWon, 1.0},
		{"lost fallback", "Проигрыш", StatusLost, 0.0},
		{"open fallback", "Some unknown stage", StatusOpen, 0.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StageProbability(tt.label, tt.status, DefaultOpenProbability)
			if got != tt.expected {
				t.Errorf("StageProbability(%q) = %v, want %v", tt.label, got, tt.expected)
			}
		})
	}
}

func TestClassificationIsDeterministic(t *testing.T) {
	labels := []string{"Переговоры", "Сделка", "Проигрыш", "что-то ещё", ""}

	for _, label := range labels {
		first := ClassifyStage(label)
		second := ClassifyStage(label)
		if first != second {
			t.Errorf("ClassifyStage(%q) is not deterministic: %s vs %s", label, first, second)
		}

		p1 := StageProbability(label, first, DefaultOpenProbability)
		p2 := StageProbability(label, second, DefaultOpenProbability)
		if p1 != p2 {
			t.Errorf("StageProbability(%q) is not deterministic: %v vs %v", label, p1, p2)
		}
	}
}
