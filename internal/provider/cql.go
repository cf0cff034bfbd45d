// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"strconv"
	"strings"

	"github.com/pdiddy/metasearch/pkg/types"
)

// CQL index names for the legal-document SRU provider.
const (
	cqlTitle       = "dc.title"
	cqlDescription = "dc.description"
	cqlType        = "dc.type"
	cqlIdentifier  = "dc.identifier"
	cqlDate        = "dc.date"
	cqlCoverage    = "dc.coverage"
	cqlCreator     = "dc.creator"
)

// buildCQL assembles one boolean CQL expression from the independent
// filter dimensions. Dimensions join with "and"; values within a dimension
// join with "or". A dimension that yields nothing is skipped, and an empty
// result means the provider has no usable query.
//
// Matching convention: "adj" is an exact-phrase match, "any" a broader
// single-token match. Quoting and escaping go through cqlClause so the
// builder output is deterministic for identical input.
func buildCQL(f *types.FilterSet) string {
	if f == nil {
		return ""
	}

	var dims []string
	add := func(clause string) {
		if clause != "" {
			dims = append(dims, clause)
		}
	}

	add(termClause(f.Term))
	add(typesClause(f.Types))
	add(numberClause(f.Number))
	add(yearClause(f.Years))
	add(fieldClause(cqlCoverage, f.Locality))
	add(fieldClause(cqlCreator, f.Authority))
	add(excludeClause(f.Exclude))

	return strings.Join(dims, " and ")
}

// termClause matches the whole term as a phrase against title or
// description. The term is never split into words.
func termClause(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return "(" + cqlClause(cqlTitle, "adj", term) + " or " + cqlClause(cqlDescription, "adj", term) + ")"
}

// typesClause splits the comma-separated document types and ORs one clause
// per type: exact phrase when the type contains whitespace, broader token
// match otherwise.
func typesClause(raw string) string {
	var clauses []string
	for _, tok := range splitComma(raw) {
		clauses = append(clauses, cqlClause(cqlType, matchOp(tok), tok))
	}
	return orGroup(clauses)
}

// numberClause matches an official number against the identifier index or
// the title.
func numberClause(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return ""
	}
	return "(" + cqlClause(cqlIdentifier, "any", number) + " or " + cqlClause(cqlTitle, "any", number) + ")"
}

// yearClause parses a single year or an inclusive "Y1-Y2" range. A range
// with a side that does not parse as an integer is dropped silently; a
// broken clause is never emitted.
func yearClause(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "-") {
		parts := strings.SplitN(raw, "-", 2)
		y1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		y2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return ""
		}
		return "(" + cqlDate + " >= " + strconv.Itoa(y1) + " and " + cqlDate + " <= " + strconv.Itoa(y2) + ")"
	}
	return cqlClause(cqlDate, "any", raw)
}

// fieldClause emits a single-value dimension: exact phrase for values with
// whitespace, broader token match otherwise.
func fieldClause(index, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return cqlClause(index, matchOp(value), value)
}

// excludeClause splits the exclusion input (comma-separated when a comma is
// present, whitespace otherwise), builds a title/description clause per
// token like termClause but with per-token match width, ORs them, and
// negates the group.
func excludeClause(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var tokens []string
	if strings.Contains(raw, ",") {
		tokens = splitComma(raw)
	} else {
		tokens = strings.Fields(raw)
	}

	var clauses []string
	for _, tok := range tokens {
		op := matchOp(tok)
		clauses = append(clauses, "("+cqlClause(cqlTitle, op, tok)+" or "+cqlClause(cqlDescription, op, tok)+")")
	}
	group := orGroup(clauses)
	if group == "" {
		return ""
	}
	return "not " + group
}

// cqlClause emits `index op "value"` with inner quotes escaped.
func cqlClause(index, op, value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return index + " " + op + " \"" + escaped + "\""
}

// matchOp picks the match operator: exact phrase for multi-word values,
// broader token match for single tokens.
func matchOp(value string) string {
	if strings.ContainsAny(value, " \t") {
		return "adj"
	}
	return "any"
}

// orGroup joins clauses with "or" and parenthesizes the result. A single
// clause is still parenthesized when it joined a multi-value dimension.
func orGroup(clauses []string) string {
	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	default:
		return "(" + strings.Join(clauses, " or ") + ")"
	}
}

// splitComma splits on commas, trims each token, and drops empties.
func splitComma(raw string) []string {
	var out []string
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
