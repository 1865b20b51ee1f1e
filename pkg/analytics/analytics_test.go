package analytics

import (
	"reflect"
	"strings"
	"testing"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "only whitespace", text: " \n\t  ", want: 0},
		{name: "single word", text: "masthead", want: 1},
		{name: "leading and trailing whitespace", text: "  cover lines  ", want: 2},
		{name: "mixed whitespace runs", text: "a\n\nb\t\tc   d\r\ne", want: 5},
		{name: "punctuation stays attached", text: "£3.50 - Special Edition!", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCountWordsWhitespaceCollapse(t *testing.T) {
	src := "The  spring\n\nissue\t\tfeatures   three   new   bands \n"
	collapsed := strings.Join(strings.Fields(src), " ")
	if CountWords(src) != CountWords(collapsed) {
		t.Errorf("CountWords changed after collapsing whitespace: %d vs %d", CountWords(src), CountWords(collapsed))
	}
}

func TestTopNWords(t *testing.T) {
	a := &Analytics{}
	text := "Guitar guitar drums. The drums, the GUITAR and bass! bass zebra"

	got := a.TopNWords(text, 3)
	want := []string{"guitar", "bass", "drums"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopNWords() = %v, want %v", got, want)
	}

	if got := a.TopNWords("", 5); len(got) != 0 {
		t.Errorf("TopNWords(empty) = %v, want none", got)
	}
}

func TestStopwords(t *testing.T) {
	if !isStopword("The") {
		t.Error("isStopword(\"The\") = false, want true")
	}
	if isStopword("masthead") {
		t.Error("isStopword(\"masthead\") = true, want false")
	}
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		n             int
		want          string
		wantTruncated bool
	}{
		{name: "shorter than limit", text: "abc", n: 5, want: "abc"},
		{name: "exactly the limit", text: "abcde", n: 5, want: "abcde"},
		{name: "longer than limit", text: "abcdef", n: 5, want: "abcde", wantTruncated: true},
		{name: "counts runes not bytes", text: "££££", n: 2, want: "££", wantTruncated: true},
		{name: "zero limit", text: "abc", n: 0, want: "", wantTruncated: true},
		{name: "empty text", text: "", n: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Prefix(tt.text, tt.n)
			if got != tt.want || truncated != tt.wantTruncated {
				t.Errorf("Prefix(%q, %d) = (%q, %v), want (%q, %v)", tt.text, tt.n, got, truncated, tt.want, tt.wantTruncated)
			}
		})
	}
}
