// Package reference provides the canonical name lists values are validated
// against, such as Colombian departments and municipalities.
package reference

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/peekknuf/govdataqa/internal/textnorm"
)

// Set is an immutable set of canonical names. Membership ignores case,
// diacritics, whitespace and punctuation, so "Bogotá, D. C." matches
// "BOGOTA D.C.".
type Set struct {
	name    string
	members map[string]struct{}
}

// Canonical trims and title-cases v.
func Canonical(v string) string {
	return textnorm.Title(v)
}

func key(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, textnorm.Fold(Canonical(v)))
}

// NewSet builds a set from names. Blank names are ignored.
func NewSet(name string, names ...string) *Set {
	s := &Set{name: name, members: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		s.members[key(n)] = struct{}{}
	}
	return s
}

// ReadSet reads one name per line; blank lines and lines starting with '#'
// are skipped.
func ReadSet(name string, r io.Reader) (*Set, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewSet(name, names...), nil
}

func (s *Set) Name() string { return s.name }

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Contains canonicalizes v before the membership test.
func (s *Set) Contains(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[key(v)]
	return ok
}
