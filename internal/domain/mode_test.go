package domain

import "testing"

func TestModeType_IsValid(t *testing.T) {
	tests := []struct {
		name string
		mode ModeType
		want bool
	}{
		{name: "quick is valid", mode: "quick", want: true},
		{name: "standard is valid", mode: "standard", want: true},
		{name: "deep is valid", mode: "deep", want: true},
		{name: "empty is invalid", mode: "", want: false},
		{name: "ultra is invalid", mode: "ultra", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.IsValid(); got != tt.want {
				t.Errorf("ModeType.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPresetModes_AreValid(t *testing.T) {
	for _, m := range []SearchMode{QuickMode(), StandardMode(), DeepMode()} {
		if err := m.Validate(); err != nil {
			t.Errorf("%s: unexpected error %v", m.Type, err)
		}
	}
}

func TestSearchMode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mode    SearchMode
		wantErr error
	}{
		{name: "bad type", mode: SearchMode{Type: "x", MaxPages: 1, MaxQueries: 1}, wantErr: ErrInvalidModeType},
		{name: "zero pages", mode: SearchMode{Type: ModeQuick, MaxPages: 0, MaxQueries: 1}, wantErr: ErrInvalidModeMaxPages},
		{name: "too many queries", mode: SearchMode{Type: ModeQuick, MaxPages: 1, MaxQueries: 4}, wantErr: ErrInvalidModeMaxQueries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mode.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchMode_Apply(t *testing.T) {
	tests := []struct {
		name     string
		mode     SearchMode
		maxPages int
		want     int
	}{
		{name: "unset takes mode pages", mode: DeepMode(), maxPages: 0, want: 5},
		{name: "lower explicit value kept", mode: DeepMode(), maxPages: 2, want: 2},
		{name: "quick caps pages", mode: QuickMode(), maxPages: 4, want: 1},
		{name: "standard default", mode: StandardMode(), maxPages: 0, want: 3},
		{name: "standard keeps explicit five", mode: StandardMode(), maxPages: 5, want: 5},
		{name: "deep keeps explicit one", mode: DeepMode(), maxPages: 1, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mode.Apply(SearchCriteria{MaxPages: tt.maxPages})
			if got.MaxPages != tt.want {
				t.Errorf("MaxPages = %d, want %d", got.MaxPages, tt.want)
			}
		})
	}
}

func TestModeByType(t *testing.T) {
	if ModeByType(ModeDeep).Type != ModeDeep {
		t.Error("expected deep")
	}
	if ModeByType("bogus").Type != ModeStandard {
		t.Error("unknown type should fall back to standard")
	}
}
