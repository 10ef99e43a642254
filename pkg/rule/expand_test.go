// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedup(t *testing.T) {
	a := Rule{From: "a", To: "b"}
	b := Rule{From: "b", To: "c"}
	aWord := Rule{From: "a", To: "b", WholeWord: true}

	tests := []struct {
		name  string
		rules []Rule
		want  []Rule
	}{
		{
			name:  "empty",
			rules: []Rule{},
			want:  []Rule{},
		},
		{
			name:  "no_duplicates",
			rules: []Rule{a, b, aWord},
			want:  []Rule{a, b, aWord},
		},
		{
			name:  "last_survives",
			rules: []Rule{a, b, a},
			want:  []Rule{b, a},
		},
		{
			name:  "flags_make_rules_distinct",
			rules: []Rule{a, aWord},
			want:  []Rule{a, aWord},
		},
		{
			name:  "run_of_duplicates",
			rules: []Rule{a, a, a, b, b},
			want:  []Rule{a, b},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dedup(tt.rules)
			assert.Equal(t, tt.want, got, "deduped rules should match")
			assert.Equal(t, got, Dedup(got), "dedup should be idempotent")
		})
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		want  []Rule
	}{
		{
			name: "four_distinct_variants",
			rules: []Rule{
				{From: "hello world", To: "goodbye", SmartCase: true},
			},
			want: []Rule{
				{From: "Hello World", To: "Goodbye", SmartCase: true},
				{From: "Hello world", To: "Goodbye", SmartCase: true},
				{From: "HELLO WORLD", To: "GOODBYE", SmartCase: true},
				{From: "hello world", To: "goodbye", SmartCase: true},
			},
		},
		{
			name: "single_word_collapses_title_and_sentence",
			rules: []Rule{
				{From: "cat", To: "dog", SmartCase: true, WholeWord: true},
			},
			want: []Rule{
				{From: "Cat", To: "Dog", SmartCase: true, WholeWord: true},
				{From: "CAT", To: "DOG", SmartCase: true, WholeWord: true},
				{From: "cat", To: "dog", SmartCase: true, WholeWord: true},
			},
		},
		{
			name: "ignore_case_disables_expansion",
			rules: []Rule{
				{From: "cat", To: "dog", SmartCase: true, IgnoreCase: true},
			},
			want: []Rule{
				{From: "cat", To: "dog", SmartCase: true, IgnoreCase: true},
			},
		},
		{
			name: "plain_rules_pass_through_in_order",
			rules: []Rule{
				{From: "one", To: "1"},
				{From: "two", To: "deux", SmartCase: true},
				{From: "three", To: "3"},
			},
			want: []Rule{
				{From: "one", To: "1"},
				{From: "Two", To: "Deux", SmartCase: true},
				{From: "TWO", To: "DEUX", SmartCase: true},
				{From: "two", To: "deux", SmartCase: true},
				{From: "three", To: "3"},
			},
		},
		{
			name: "caseless_text_collapses_to_one",
			rules: []Rule{
				{From: "123", To: "456", SmartCase: true},
			},
			want: []Rule{
				{From: "123", To: "456", SmartCase: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.rules), "expanded rules should match")
		})
	}
}
