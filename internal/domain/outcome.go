package domain

// Outcome - итог стадии: отличает "ничего не нашлось" от "провайдер упал"
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeEmpty   Outcome = "empty"
	OutcomeFailed  Outcome = "failed"
)

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSuccess, OutcomePartial, OutcomeEmpty, OutcomeFailed:
		return true
	}
	return false
}

func (o Outcome) String() string { return string(o) }

// CombineOutcomes сводит итоги дочерних стадий:
// все failed -> failed, есть failed вместе с удачными -> partial,
// хоть один success -> success, иначе empty.
func CombineOutcomes(outcomes ...Outcome) Outcome {
	if len(outcomes) == 0 {
		return OutcomeEmpty
	}

	var failed, succeeded, partial int
	for _, o := range outcomes {
		switch o {
		case OutcomeFailed:
			failed++
		case OutcomeSuccess:
			succeeded++
		case OutcomePartial:
			partial++
		}
	}

	switch {
	case failed == len(outcomes):
		return OutcomeFailed
	case failed > 0 || partial > 0:
		return OutcomePartial
	case succeeded > 0:
		return OutcomeSuccess
	}
	return OutcomeEmpty
}
