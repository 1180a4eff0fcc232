package services

import (
	"reflect"
	"testing"
)

func TestExtractMentions(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
	}{
		{"none", "no mentions here", nil},
		{"single", "thanks @alice!", []string{"alice"}},
		{"multiple", "cc @alice and @bob_2", []string{"alice", "bob_2"}},
		{"deduplicated", "@alice @alice @alice", []string{"alice"}},
		{"start of line", "@alice hi", []string{"alice"}},
		{"email is not a mention", "write to me@example.com", nil},
		{"order of appearance", "@zoe then @anna", []string{"zoe", "anna"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractMentions(tc.body)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ExtractMentions(%q) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}
