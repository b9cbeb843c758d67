package domain

import "testing"

func TestParsePriorityTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want Priority
		ok   bool
	}{
		{"news1", Priority{Type: PriorityNews, Rank: 2}, true},
		{"ichi2", Priority{Type: PriorityIchi, Rank: 1}, true},
		{"spec1", Priority{Type: PrioritySpec, Rank: 2}, true},
		{"gai1", Priority{Type: PriorityGai, Rank: 2}, true},
		{"nf01", Priority{Type: PriorityNf, Rank: 48}, true},
		{"nf48", Priority{Type: PriorityNf, Rank: 1}, true},
		{"nf49", Priority{}, false},
		{"news3", Priority{}, false},
		{"news", Priority{}, false},
		{"bogus1", Priority{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()
			got, ok := ParsePriorityTag(tt.tag)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParsePriorityTag(%q) = %+v, %v; want %+v, %v", tt.tag, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPriorityType_IsCommon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  PriorityType
		want bool
	}{
		{PriorityNews, true},
		{PriorityIchi, true},
		{PrioritySpec, true},
		{PriorityGai, false},
		{PriorityNf, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()
			if got := tt.typ.IsCommon(); got != tt.want {
				t.Errorf("PriorityType(%q).IsCommon() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestMaxRankAndIsCommon(t *testing.T) {
	t.Parallel()

	tags := []Priority{{Type: PriorityNf, Rank: 40}, {Type: PriorityGai, Rank: 2}}
	if got := MaxRank(tags); got != 40 {
		t.Errorf("MaxRank = %d, want 40", got)
	}
	if IsCommon(tags) {
		t.Error("nf and gai are not common")
	}
	if MaxRank(nil) != 0 {
		t.Error("MaxRank(nil) should be 0")
	}
	if !IsCommon(append(tags, Priority{Type: PriorityIchi, Rank: 2})) {
		t.Error("ichi is common")
	}
}
