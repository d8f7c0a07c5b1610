package domain

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	DefaultMaxPages = 3
	MaxPagesLimit   = 5
	MaxPlatforms    = 10
)

type Platform string

const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformReddit   Platform = "reddit"
	PlatformTwitter  Platform = "twitter"
)

func DefaultPlatforms() []Platform {
	return []Platform{PlatformLinkedIn, PlatformReddit, PlatformTwitter}
}

var platformPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$|^[a-z0-9]$`)

// ParsePlatform принимает имя платформы или домен (с site:, схемой, www.)
func ParsePlatform(raw string) (Platform, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "site:")
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return "", ErrInvalidPlatform
		}
		s = u.Host
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimSuffix(s, "/")

	switch s {
	case "linkedin", "linkedin.com":
		return PlatformLinkedIn, nil
	case "reddit", "reddit.com":
		return PlatformReddit, nil
	case "twitter", "twitter.com", "x.com":
		return PlatformTwitter, nil
	}

	if !platformPattern.MatchString(s) || strings.Contains(s, "..") {
		return "", ErrInvalidPlatform
	}
	return Platform(s), nil
}

func (p Platform) IsBuiltin() bool {
	switch p {
	case PlatformLinkedIn, PlatformReddit, PlatformTwitter:
		return true
	}
	return false
}

// Domain - домен для site: оператора. Для кастомных имён без точки добавляется .com
func (p Platform) Domain() string {
	switch p {
	case PlatformLinkedIn:
		return "linkedin.com"
	case PlatformReddit:
		return "reddit.com"
	case PlatformTwitter:
		return "twitter.com"
	}
	s := string(p)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".com"
}

func (p Platform) String() string { return string(p) }

type TimeRange string

const (
	TimeRangeAny       TimeRange = ""
	TimeRangeHour      TimeRange = "h"
	TimeRangeTenHours  TimeRange = "h10"
	TimeRangeDay       TimeRange = "d"
	TimeRangeThreeDays TimeRange = "d3"
	TimeRangeWeek      TimeRange = "w"
	TimeRangeMonth     TimeRange = "m"
	TimeRangeYear      TimeRange = "y"
)

func (t TimeRange) IsValid() bool {
	switch t {
	case TimeRangeAny, TimeRangeHour, TimeRangeTenHours, TimeRangeDay,
		TimeRangeThreeDays, TimeRangeWeek, TimeRangeMonth, TimeRangeYear:
		return true
	}
	return false
}

// DateRestrict переводит токен в значение dateRestrict поискового API.
// Часовой гранулярности у API нет, поэтому h и h10 округляются до суток.
func (t TimeRange) DateRestrict() string {
	switch t {
	case TimeRangeHour, TimeRangeTenHours, TimeRangeDay:
		return "d1"
	case TimeRangeThreeDays:
		return "d3"
	case TimeRangeWeek:
		return "w1"
	case TimeRangeMonth:
		return "m1"
	case TimeRangeYear:
		return "y1"
	}
	return ""
}

type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

func (l Location) IsEmpty() bool {
	return l.City == "" && l.State == "" && l.Country == ""
}

// Primary - самая точная из заполненных частей
func (l Location) Primary() string {
	switch {
	case l.City != "":
		return l.City
	case l.State != "":
		return l.State
	}
	return l.Country
}

func (l Location) Parts() []string {
	var parts []string
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func (l Location) String() string {
	return strings.Join(l.Parts(), ", ")
}

// SearchCriteria - параметры одного прогона. После Sanitize не меняется.
type SearchCriteria struct {
	Industry        []string   `json:"industry,omitempty"`
	Location        Location   `json:"location"`
	CompanySize     string     `json:"companySize,omitempty"`
	JobTitle        string     `json:"jobTitle,omitempty"`
	Keywords        []string   `json:"keywords,omitempty"`
	CustomTags      []string   `json:"customTags,omitempty"`
	Field           string     `json:"field,omitempty"`
	EmailRequired   bool       `json:"emailRequired,omitempty"`
	PhoneRequired   bool       `json:"phoneRequired,omitempty"`
	TargetPlatforms []Platform `json:"targetPlatforms,omitempty"`
	MaxPages        int        `json:"maxPages,omitempty"`
	TimeRange       TimeRange  `json:"timeRange,omitempty"`
}

// HasAnyField - заполнено ли хоть одно поле, влияющее на запросы
func (c SearchCriteria) HasAnyField() bool {
	return len(c.Industry) > 0 ||
		!c.Location.IsEmpty() ||
		c.CompanySize != "" ||
		c.JobTitle != "" ||
		len(c.Keywords) > 0 ||
		len(c.CustomTags) > 0 ||
		c.Field != ""
}

func (c SearchCriteria) PrimaryIndustry() string {
	if len(c.Industry) == 0 {
		return ""
	}
	return c.Industry[0]
}

// Sanitize возвращает копию с обрезанными пробелами, без пустых значений,
// с платформами и числом страниц по умолчанию.
func (c SearchCriteria) Sanitize() SearchCriteria {
	out := c
	out.Industry = cleanList(c.Industry)
	out.Keywords = cleanList(c.Keywords)
	out.CustomTags = cleanList(c.CustomTags)
	out.Location = Location{
		City:    strings.TrimSpace(c.Location.City),
		State:   strings.TrimSpace(c.Location.State),
		Country: strings.TrimSpace(c.Location.Country),
	}
	out.CompanySize = strings.TrimSpace(c.CompanySize)
	out.JobTitle = strings.TrimSpace(c.JobTitle)
	out.Field = strings.TrimSpace(c.Field)
	out.TimeRange = TimeRange(strings.ToLower(strings.TrimSpace(string(c.TimeRange))))

	seen := make(map[Platform]bool)
	out.TargetPlatforms = nil
	for _, p := range c.TargetPlatforms {
		p = Platform(strings.ToLower(strings.TrimSpace(string(p))))
		if parsed, err := ParsePlatform(string(p)); err == nil {
			p = parsed
		}
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out.TargetPlatforms = append(out.TargetPlatforms, p)
	}
	if len(out.TargetPlatforms) == 0 {
		out.TargetPlatforms = DefaultPlatforms()
	}

	if out.MaxPages <= 0 {
		out.MaxPages = DefaultMaxPages
	}
	if out.MaxPages > MaxPagesLimit {
		out.MaxPages = MaxPagesLimit
	}
	return out
}

func (c SearchCriteria) Validate() error {
	if !c.HasAnyField() && len(c.TargetPlatforms) == 0 {
		return ErrEmptyCriteria
	}
	if c.MaxPages < 1 || c.MaxPages > MaxPagesLimit {
		return ErrInvalidMaxPages
	}
	if !c.TimeRange.IsValid() {
		return ErrInvalidTimeRange
	}
	if len(c.TargetPlatforms) > MaxPlatforms {
		return ErrTooManyPlatforms
	}
	for _, p := range c.TargetPlatforms {
		if _, err := ParsePlatform(string(p)); err != nil {
			return err
		}
	}
	return nil
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
