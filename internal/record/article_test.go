package record

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseArticleNumber(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantUCN    string
		wantPolicy string
		wantSuffix int
		wantRoot   string
		wantErr    bool
	}{
		{
			name:       "Given a full article number When parsed Then all parts are split",
			input:      "001018471~00073572.001",
			wantUCN:    "001018471",
			wantPolicy: "00073572",
			wantSuffix: 1,
			wantRoot:   "001018471~00073572",
		},
		{
			name:       "Given a high suffix When parsed Then the numeric value is kept",
			input:      "001018471~00073572.014",
			wantUCN:    "001018471",
			wantPolicy: "00073572",
			wantSuffix: 14,
			wantRoot:   "001018471~00073572",
		},
		{
			name:       "Given surrounding whitespace When parsed Then it is trimmed",
			input:      "  001018471~00073572.002 ",
			wantUCN:    "001018471",
			wantPolicy: "00073572",
			wantSuffix: 2,
			wantRoot:   "001018471~00073572",
		},
		{
			name:    "Given no dot separator When parsed Then it is rejected",
			input:   "001018471~00073572",
			wantErr: true,
		},
		{
			name:    "Given a non-numeric suffix When parsed Then it is rejected",
			input:   "001018471~00073572.abc",
			wantErr: true,
		},
		{
			name:    "Given an empty string When parsed Then it is rejected",
			input:   "",
			wantErr: true,
		},
		{
			name:    "Given a bare dot When parsed Then it is rejected",
			input:   ".",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArticleNumber(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseArticleNumber(%q) expected error, got %+v", tt.input, got)
				}
				if !errors.Is(err, ErrBadArticleNumber) {
					t.Errorf("error should wrap ErrBadArticleNumber, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseArticleNumber(%q) unexpected error: %v", tt.input, err)
			}
			if got.UCN != tt.wantUCN || got.Policy != tt.wantPolicy {
				t.Errorf("parts = (%q, %q), want (%q, %q)", got.UCN, got.Policy, tt.wantUCN, tt.wantPolicy)
			}
			if got.SuffixInt() != tt.wantSuffix {
				t.Errorf("SuffixInt() = %d, want %d", got.SuffixInt(), tt.wantSuffix)
			}
			if got.Root() != tt.wantRoot {
				t.Errorf("Root() = %q, want %q", got.Root(), tt.wantRoot)
			}
		})
	}
}

func TestIsRoot(t *testing.T) {
	root, err := ParseArticleNumber("001018471~00073572.001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !root.IsRoot() {
		t.Errorf("suffix .001 should be root")
	}

	child, err := ParseArticleNumber("001018471~00073572.002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if child.IsRoot() {
		t.Errorf("suffix .002 should not be root")
	}

	for _, suffix := range []string{"1", "0001", "01"} {
		odd, err := ParseArticleNumber("001018471~00073572." + suffix)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if odd.IsRoot() {
			t.Errorf("suffix .%s should not be root; only .001 is", suffix)
		}
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "Given free text with two tokens When scanned Then both are found in order",
			input: "Related to: 001018471~00073572.003 and also 001018845~00091011",
			want:  []string{"001018471~00073572.003", "001018845~00091011"},
		},
		{
			name:  "Given text without tokens When scanned Then nothing is found",
			input: "see attached amendment",
			want:  nil,
		},
		{
			name:  "Given empty text When scanned Then nothing is found",
			input: "",
			want:  nil,
		},
		{
			name:  "Given a short UCN When scanned Then it does not match",
			input: "1234~00073572.001",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
