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

// 🧹 Dedup removes structurally identical rules. Of every group of equal
// rules only the last occurrence is kept; relative order is preserved.
func Dedup(rules []Rule) []Rule {
	deduped := make([]Rule, 0, len(rules))
	for i, a := range rules {
		unique := true
		for _, b := range rules[i+1:] {
			if a.Equal(b) {
				unique = false
				break
			}
		}
		if unique {
			deduped = append(deduped, a)
		}
	}
	return deduped
}

// 🔠 Expand replaces every smart-case rule with its title, sentence, upper
// and lower case variants. Variants that collapse onto each other are
// deduplicated within the group. Rules that ignore case pass through as is.
func Expand(rules []Rule) []Rule {
	expanded := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !r.SmartCase || r.IgnoreCase {
			expanded = append(expanded, r)
			continue
		}
		expanded = append(expanded, Dedup(variants(r))...)
	}
	return expanded
}

func variants(r Rule) []Rule {
	transforms := []func(string) string{
		TitleCase,
		SentenceCase,
		UpperCase,
		LowerCase,
	}
	out := make([]Rule, 0, len(transforms))
	for _, fn := range transforms {
		v := r
		v.From = fn(r.From)
		v.To = fn(r.To)
		out = append(out, v)
	}
	return out
}
