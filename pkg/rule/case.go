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
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tokens are separated by exactly one space; runs of spaces yield empty tokens
const tokenSep = " "

// UpperCase upper-cases the whole string using locale-independent mappings.
func UpperCase(s string) string {
	return cases.Upper(language.Und).String(s)
}

// LowerCase lower-cases the whole string using locale-independent mappings.
func LowerCase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// TitleCase upper-cases the first letter of every space-separated token and
// leaves the rest of each token alone.
//
//	"this is some text" => "This Is Some Text"
func TitleCase(s string) string {
	parts := strings.Split(s, tokenSep)
	for i, part := range parts {
		parts[i] = capitalize(part)
	}
	return strings.Join(parts, tokenSep)
}

// SentenceCase title-cases the first token and lower-cases all others.
//
//	"this IS some text" => "This is some text"
func SentenceCase(s string) string {
	parts := strings.Split(s, tokenSep)
	for i, part := range parts {
		if i == 0 {
			parts[i] = TitleCase(part)
		} else {
			parts[i] = LowerCase(part)
		}
	}
	return strings.Join(parts, tokenSep)
}

func capitalize(token string) string {
	if token == "" {
		return token
	}
	r, size := utf8.DecodeRuneInString(token)
	return UpperCase(string(r)) + token[size:]
}
