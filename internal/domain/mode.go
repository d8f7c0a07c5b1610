package domain

import "errors"

var (
	ErrInvalidModeType       = errors.New("invalid search mode")
	ErrInvalidModeMaxPages   = errors.New("mode max pages must be between 1 and 5")
	ErrInvalidModeMaxQueries = errors.New("mode max queries must be between 1 and 3")
)

// MaxQueriesPerPlatform - верхняя граница запросов на одну платформу
const MaxQueriesPerPlatform = 3

type ModeType string

const (
	ModeQuick    ModeType = "quick"
	ModeStandard ModeType = "standard"
	ModeDeep     ModeType = "deep"
)

func (m ModeType) IsValid() bool {
	switch m {
	case ModeQuick, ModeStandard, ModeDeep:
		return true
	}
	return false
}

func (m ModeType) String() string { return string(m) }

// SearchMode - пресет глубины прогона
type SearchMode struct {
	Type       ModeType
	MaxPages   int
	MaxQueries int
	Enrich     bool
}

func (m SearchMode) Validate() error {
	if !m.Type.IsValid() {
		return ErrInvalidModeType
	}
	if m.MaxPages < 1 || m.MaxPages > MaxPagesLimit {
		return ErrInvalidModeMaxPages
	}
	if m.MaxQueries < 1 || m.MaxQueries > MaxQueriesPerPlatform {
		return ErrInvalidModeMaxQueries
	}
	return nil
}

// Apply подставляет MaxPages режима, если в критериях он не задан.
// Явное значение сохраняется, только quick всегда смотрит одну страницу.
func (m SearchMode) Apply(c SearchCriteria) SearchCriteria {
	switch {
	case c.MaxPages <= 0:
		c.MaxPages = m.MaxPages
	case m.Type == ModeQuick && c.MaxPages > m.MaxPages:
		c.MaxPages = m.MaxPages
	}
	return c
}

func QuickMode() SearchMode {
	return SearchMode{Type: ModeQuick, MaxPages: 1, MaxQueries: 1, Enrich: false}
}

func StandardMode() SearchMode {
	return SearchMode{Type: ModeStandard, MaxPages: DefaultMaxPages, MaxQueries: 3, Enrich: false}
}

func DeepMode() SearchMode {
	return SearchMode{Type: ModeDeep, MaxPages: 5, MaxQueries: 3, Enrich: true}
}

// ModeByType возвращает пресет, для неизвестного типа - standard
func ModeByType(t ModeType) SearchMode {
	switch t {
	case ModeQuick:
		return QuickMode()
	case ModeDeep:
		return DeepMode()
	}
	return StandardMode()
}
