package compiler

import (
	"fmt"
	"strings"
	"unicode"
)

var cKeywords = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extern": {}, "float": {}, "for": {}, "goto": {},
	"if": {}, "inline": {}, "int": {}, "long": {}, "register": {},
	"restrict": {}, "return": {}, "short": {}, "signed": {}, "sizeof": {},
	"static": {}, "struct": {}, "switch": {}, "typedef": {}, "union": {},
	"unsigned": {}, "void": {}, "volatile": {}, "while": {}, "bool": {},
	"true": {}, "false": {}, "main": {},
}

func sanitizeIdent(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		if r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			if i == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	out := b.String()
	if _, ok := cKeywords[out]; ok {
		return "_" + out
	}
	return out
}

// nameMangler maps source names to output names. Distinct source names that
// sanitize to the same text get suffixes so they stay distinct.
type nameMangler struct {
	assigned map[string]string
	taken    map[string]string
	seen     map[string]int
}

func newNameMangler() *nameMangler {
	return &nameMangler{
		assigned: make(map[string]string),
		taken:    make(map[string]string),
		seen:     make(map[string]int),
	}
}

// name returns the output name for source and whether it differs from the
// source text.
func (m *nameMangler) name(source string) (string, bool) {
	if m == nil {
		return source, false
	}
	if out, ok := m.assigned[source]; ok {
		return out, out != source
	}
	base := sanitizeIdent(source)
	out := base
	for {
		owner, clash := m.taken[out]
		if !clash || owner == source {
			break
		}
		out = m.unique(base)
	}
	m.assigned[source] = out
	m.taken[out] = source
	return out, out != source
}

func (m *nameMangler) unique(base string) string {
	count := m.seen[base] + 1
	m.seen[base] = count
	return fmt.Sprintf("%s_%d", base, count)
}
