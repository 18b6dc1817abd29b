// Package language holds the fixed table of languages offered by both
// selectors of the translation window.
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Entry pairs a display name with its ISO 639-1 code.
type Entry struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Code)
}

// entries is ordered by display name, the order the selectors show.
var entries = [...]Entry{
	{Name: "English", Code: "en"},
	{Name: "French", Code: "fr"},
	{Name: "German", Code: "de"},
	{Name: "Russian", Code: "ru"},
	{Name: "Spanish", Code: "es"},
}

// Len returns the number of entries in the table.
func Len() int {
	return len(entries)
}

// All returns a copy of the table.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries[:])
	return out
}

// At returns the entry at index i.
func At(i int) (Entry, bool) {
	if i < 0 || i >= len(entries) {
		return Entry{}, false
	}
	return entries[i], true
}

func Codes() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Code
	}
	return out
}

func Names() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// ByName returns the first entry whose display name matches name,
// ignoring case, and its index.
func ByName(name string) (Entry, int, bool) {
	name = strings.TrimSpace(name)
	for i, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e, i, true
		}
	}
	return Entry{}, -1, false
}

// ByCode returns the entry for a language code and its index. The code may
// be any BCP 47 tag whose base language is in the table ("RU", "ru-RU").
func ByCode(code string) (Entry, int, bool) {
	base, err := Normalize(code)
	if err != nil {
		return Entry{}, -1, false
	}
	for i, e := range entries {
		if e.Code == base {
			return e, i, true
		}
	}
	return Entry{}, -1, false
}

// Lookup resolves either a code or a display name.
func Lookup(s string) (Entry, int, bool) {
	if e, i, ok := ByName(s); ok {
		return e, i, true
	}
	return ByCode(s)
}

// Normalize returns the ISO 639-1 base language of a BCP 47 tag.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}
