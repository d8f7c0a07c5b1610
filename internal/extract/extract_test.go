package extract

import (
	"reflect"
	"testing"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

func TestEmails(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple snippet",
			text: "Contact: jane.doe@example.com or call",
			want: []string{"jane.doe@example.com"},
		},
		{
			name: "several with duplicates in other case",
			text: "a.b@acme.io, A.B@ACME.IO; sales@acme.io.",
			want: []string{"a.b@acme.io", "sales@acme.io"},
		},
		{
			name: "disposable dropped",
			text: "x@tempmail.com y@guerrillamail.org z@real.dev",
			want: []string{"z@real.dev"},
		},
		{
			name: "image file name dropped",
			text: "logo@2x.png banner@hero.jpg",
			want: nil,
		},
		{
			name: "no address",
			text: "write to us at example dot com",
			want: nil,
		},
		{
			name: "no tld",
			text: "user@localhost",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Emails(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Emails(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPhones(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "country code dashes", text: "call +1-555-123-4567 today", want: []string{"15551234567"}},
		{name: "parens", text: "(555) 123-4567", want: []string{"5551234567"}},
		{name: "dots", text: "555.987.6543", want: []string{"5559876543"}},
		{name: "dedup", text: "555-123-4567 / 555 123 4567", want: []string{"5551234567"}},
		{name: "repeated digits", text: "000-000-0000", want: nil},
		{name: "too short", text: "123-4567", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Phones(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Phones(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPersonNames(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "plain", text: "John Smith, CTO at Acme Inc", want: []string{"John Smith"}},
		{name: "business suffix rejected", text: "Acme Inc", want: nil},
		{name: "group rejected", text: "Consulting Group", want: nil},
		{name: "stop word rejected", text: "The Company", want: nil},
		{name: "city rejected", text: "based in New York", want: nil},
		{name: "lowercase not a name", text: "john smith", want: nil},
		{name: "two names", text: "Jane Doe and Mark Twain", want: []string{"Jane Doe", "Mark Twain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PersonNames(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PersonNames(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompanyNames(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "role prefix trimmed", text: "John Smith, CTO at Acme Inc, john@acme.com", want: []string{"Acme Inc"}},
		{name: "role directly before", text: "CTO Acme Inc.", want: []string{"Acme Inc"}},
		{name: "multi word llc", text: "works for Blue Ocean Labs LLC now", want: []string{"Blue Ocean Labs LLC"}},
		{name: "ltd and corp", text: "Foo Ltd and Bar Corp.", want: []string{"Foo Ltd", "Bar Corp"}},
		{name: "company word is not co", text: "Acme Company", want: nil},
		{name: "nothing", text: "just some words", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompanyNames(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CompanyNames(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestGuessJobTitle(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"John Smith - CTO - Acme Inc | LinkedIn", "CTO"},
		{"Engineering Manager at Foo", "Manager"},
		{"Head of Growth", "Head"},
		{"Leadership coach", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := GuessJobTitle(tt.text); got != tt.want {
			t.Errorf("GuessJobTitle(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestInferEmail(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://www.acme.com/about", "contact@acme.com"},
		{"https://linkedin.com/in/jane", ""},
		{"https://in.linkedin.com/in/jane", ""},
		{"https://www.reddit.com/r/jobs", ""},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := InferEmail(tt.link); got != tt.want {
			t.Errorf("InferEmail(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestCompanyFromURL(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://www.acme.com/team", "Acme"},
		{"https://blog.example.org", "Blog"},
		{"::", ""},
	}
	for _, tt := range tests {
		if got := CompanyFromURL(tt.link); got != tt.want {
			t.Errorf("CompanyFromURL(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestContacts(t *testing.T) {
	item := Item{
		Title:   "John Smith - CTO - Acme Inc | LinkedIn",
		Snippet: "John Smith, CTO at Acme Inc, john@acme.com, +1-555-123-4567, Pune",
		Link:    "https://www.linkedin.com/in/johnsmith",
	}

	got := Contacts(item)
	want := domain.ContactInfo{
		Emails:    []string{"john@acme.com"},
		Phones:    []string{"15551234567"},
		Names:     []string{"John Smith"},
		Companies: []string{"Acme Inc"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Contacts() = %+v, want %+v", got, want)
	}
	if !HasContacts(got) {
		t.Error("expected contacts")
	}
}

func TestHasContacts_PhoneAloneIsNotEnough(t *testing.T) {
	info := FromText("call 555-123-4567 now")
	if HasContacts(info) {
		t.Errorf("phone only should not count: %+v", info)
	}
}

func TestMerge(t *testing.T) {
	a := domain.ContactInfo{Emails: []string{"a@x.com"}, Names: []string{"Jane Doe"}}
	b := domain.ContactInfo{Emails: []string{"A@X.COM", "b@x.com"}, Phones: []string{"5551234567"}}

	got := Merge(a, b)
	if !reflect.DeepEqual(got.Emails, []string{"a@x.com", "b@x.com"}) {
		t.Errorf("Emails = %v", got.Emails)
	}
	if !reflect.DeepEqual(got.Phones, []string{"5551234567"}) {
		t.Errorf("Phones = %v", got.Phones)
	}
	if !reflect.DeepEqual(got.Names, []string{"Jane Doe"}) {
		t.Errorf("Names = %v", got.Names)
	}
}
