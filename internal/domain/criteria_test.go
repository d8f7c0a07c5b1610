package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Platform
		wantErr bool
	}{
		{name: "builtin linkedin", raw: "LinkedIn", want: PlatformLinkedIn},
		{name: "linkedin domain", raw: "linkedin.com", want: PlatformLinkedIn},
		{name: "x.com is twitter", raw: "x.com", want: PlatformTwitter},
		{name: "site prefix", raw: "site:github.com", want: "github.com"},
		{name: "url with scheme", raw: "https://www.crunchbase.com/", want: "crunchbase.com"},
		{name: "bare custom name", raw: "angel", want: "angel"},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "spaces inside", raw: "foo bar", wantErr: true},
		{name: "double dot", raw: "foo..com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlatform(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPlatform) {
					t.Fatalf("expected ErrInvalidPlatform, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePlatform(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPlatform_Domain(t *testing.T) {
	tests := []struct {
		platform Platform
		want     string
	}{
		{PlatformLinkedIn, "linkedin.com"},
		{PlatformReddit, "reddit.com"},
		{PlatformTwitter, "twitter.com"},
		{"github.com", "github.com"},
		{"angel", "angel.com"},
	}
	for _, tt := range tests {
		if got := tt.platform.Domain(); got != tt.want {
			t.Errorf("%q.Domain() = %q, want %q", tt.platform, got, tt.want)
		}
	}
}

func TestTimeRange_DateRestrict(t *testing.T) {
	tests := map[TimeRange]string{
		TimeRangeAny:       "",
		TimeRangeHour:      "d1",
		TimeRangeTenHours:  "d1",
		TimeRangeDay:       "d1",
		TimeRangeThreeDays: "d3",
		TimeRangeWeek:      "w1",
		TimeRangeMonth:     "m1",
		TimeRangeYear:      "y1",
	}
	for tr, want := range tests {
		if got := tr.DateRestrict(); got != want {
			t.Errorf("%q.DateRestrict() = %q, want %q", tr, got, want)
		}
	}
	if TimeRange("fortnight").IsValid() {
		t.Error("unknown token should be invalid")
	}
}

func TestSearchCriteria_Sanitize(t *testing.T) {
	c := SearchCriteria{
		Industry:        []string{" Technology ", "", "  "},
		Location:        Location{City: " Pune "},
		Keywords:        []string{"saas", " "},
		TargetPlatforms: []Platform{"LinkedIn", "linkedin.com", "site:github.com", ""},
		MaxPages:        9,
		TimeRange:       " W ",
	}

	got := c.Sanitize()

	if !reflect.DeepEqual(got.Industry, []string{"Technology"}) {
		t.Errorf("Industry = %v", got.Industry)
	}
	if got.Location.City != "Pune" {
		t.Errorf("City = %q", got.Location.City)
	}
	if !reflect.DeepEqual(got.Keywords, []string{"saas"}) {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	wantPlatforms := []Platform{PlatformLinkedIn, "github.com"}
	if !reflect.DeepEqual(got.TargetPlatforms, wantPlatforms) {
		t.Errorf("TargetPlatforms = %v, want %v", got.TargetPlatforms, wantPlatforms)
	}
	if got.MaxPages != MaxPagesLimit {
		t.Errorf("MaxPages = %d, want %d", got.MaxPages, MaxPagesLimit)
	}
	if got.TimeRange != TimeRangeWeek {
		t.Errorf("TimeRange = %q", got.TimeRange)
	}

	// исходник не трогаем
	if c.Industry[0] != " Technology " {
		t.Error("Sanitize mutated the receiver")
	}
}

func TestSearchCriteria_SanitizeDefaults(t *testing.T) {
	got := SearchCriteria{}.Sanitize()
	if !reflect.DeepEqual(got.TargetPlatforms, DefaultPlatforms()) {
		t.Errorf("TargetPlatforms = %v", got.TargetPlatforms)
	}
	if got.MaxPages != DefaultMaxPages {
		t.Errorf("MaxPages = %d, want %d", got.MaxPages, DefaultMaxPages)
	}
}

func TestSearchCriteria_Validate(t *testing.T) {
	valid := SearchCriteria{
		Industry:        []string{"Technology"},
		TargetPlatforms: []Platform{PlatformLinkedIn},
		MaxPages:        1,
	}

	tests := []struct {
		name    string
		modify  func(c *SearchCriteria)
		wantErr error
	}{
		{name: "valid", modify: func(c *SearchCriteria) {}},
		{
			name:    "empty criteria",
			modify:  func(c *SearchCriteria) { *c = SearchCriteria{MaxPages: 1} },
			wantErr: ErrEmptyCriteria,
		},
		{
			name:   "platforms only is enough",
			modify: func(c *SearchCriteria) { c.Industry = nil },
		},
		{
			name:    "zero pages",
			modify:  func(c *SearchCriteria) { c.MaxPages = 0 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "six pages",
			modify:  func(c *SearchCriteria) { c.MaxPages = 6 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "bad time range",
			modify:  func(c *SearchCriteria) { c.TimeRange = "decade" },
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "too many platforms",
			modify: func(c *SearchCriteria) {
				c.TargetPlatforms = make([]Platform, MaxPlatforms+1)
				for i := range c.TargetPlatforms {
					c.TargetPlatforms[i] = PlatformReddit
				}
			},
			wantErr: ErrTooManyPlatforms,
		},
		{
			name:    "bad platform",
			modify:  func(c *SearchCriteria) { c.TargetPlatforms = []Platform{"not a site"} },
			wantErr: ErrInvalidPlatform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			c.TargetPlatforms = append([]Platform(nil), valid.TargetPlatforms...)
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	l := Location{State: "Maharashtra", Country: "India"}
	if l.Primary() != "Maharashtra" {
		t.Errorf("Primary() = %q", l.Primary())
	}
	if l.String() != "Maharashtra, India" {
		t.Errorf("String() = %q", l.String())
	}
	if !(Location{}).IsEmpty() {
		t.Error("zero location should be empty")
	}
}
