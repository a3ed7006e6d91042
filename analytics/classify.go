package analytics

import "strings"

// DefaultOpenProbability is the close-probability estimate assigned to
// in-progress deals whose stage label matches no funnel hint. The value is
// a mid-funnel heuristic and is exposed through configuration.
const DefaultOpenProbability = 0.35

// Won keywords are checked before lost keywords; the first set containing a
// substring of the lowered label decides the status. Labels matching
// neither set classify as open.
var wonKeywords = []string{
	"сделка",
	"оплач",
	"оплата",
	"выигр",
	"успешн",
	"won",
	"paid",
	"success",
}

var lostKeywords = []string{
	"проигр",
	"отказ",
	"отмен",
	"не реализ",
	"нереализ",
	"lost",
	"reject",
	"cancel",
	"fail",
}

type stageHint struct {
	substr      string
	probability float64
}

// stageHints covers the deal funnel from earliest stage to latest. The list
// is evaluated top to bottom and the first substring found in the label
// wins, so order is a correctness-relevant tie-break, not cosmetics.
var stageHints = []stageHint{
	{"лид", 0.10},
	{"lead", 0.10},
	{"контакт", 0.20},
	{"contact", 0.20},
	{"квалифи", 0.30},
	{"qualif", 0.30},
	{"презентац", 0.45},
	{"демо", 0.45},
	{"demo", 0.45},
	{"presentation", 0.45},
	{"предложен", 0.55},
	{"proposal", 0.55},
	{"quote", 0.55},
	{"переговор", 0.65},
	{"negotiat", 0.65},
	{"договор", 0.80},
	{"согласован", 0.80},
	{"contract", 0.80},
	{"счет", 0.90},
	{"счёт", 0.90},
	{"invoice", 0.90},
	{"сделка", 1.0},
	{"оплат", 1.0},
	{"won", 1.0},
	{"paid", 1.0},
}

// ClassifyStage maps a free-text stage label to its closed status.
func ClassifyStage(label string) Status {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, kw := range wonKeywords {
		if strings.Contains(l, kw) {
			return StatusWon
		}
	}
	for _, kw := range lostKeywords {
		if strings.Contains(l, kw) {
			return StatusLost
		}
	}
	return StatusOpen
}

// StageProbability estimates the close probability for a stage label.
// defaultOpen is the fallback for open deals with an unrecognized label;
// won and lost deals fall back to 1 and 0 respectively.
func StageProbability(label string, status Status, defaultOpen float64) float64 {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, h := range stageHints {
		if strings.Contains(l, h.substr) {
			return h.probability
		}
	}
	switch status {
	case StatusWon:
		return 1.0
	case StatusLost:
		return 0.0
	default:
		return defaultOpen
	}
}
