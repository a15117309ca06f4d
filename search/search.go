// Package search evaluates SEARCH segment predicates against nodes.
package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/path"
)

// Matches reports whether haystack satisfies the comparison.  Numeric
// haystacks coerce the needle to their own kind for the relational
// methods; a needle that cannot be coerced simply fails to match.  The
// substring and regex methods always compare the scalar rendering.
func Matches(
	method path.SearchMethod, needle string, haystack *ir.Node,
) (bool, error) {
	if haystack == nil {
		return false, nil
	}

	if haystack.Type == ir.NumberType {
		switch method {
		case path.EqualsMethod,
			path.GreaterThanMethod,
			path.LessThanMethod,
			path.GreaterThanOrEqualMethod,
			path.LessThanOrEqualMethod:
			return matchesNumber(method, needle, haystack), nil
		}
	}

	return MatchesString(method, needle, haystack.Scalar())
}

// MatchesString compares two strings; relational methods order them
// lexically.  This is the form used for map keys and anchor names.
func MatchesString(
	method path.SearchMethod, needle, haystack string,
) (bool, error) {
	switch method {
	case path.EqualsMethod:
		return haystack == needle, nil
	case path.StartsWithMethod:
		return strings.HasPrefix(haystack, needle), nil
	case path.EndsWithMethod:
		return strings.HasSuffix(haystack, needle), nil
	case path.ContainsMethod:
		return strings.Contains(haystack, needle), nil
	case path.GreaterThanMethod:
		return haystack > needle, nil
	case path.LessThanMethod:
		return haystack < needle, nil
	case path.GreaterThanOrEqualMethod:
		return haystack >= needle, nil
	case path.LessThanOrEqualMethod:
		return haystack <= needle, nil
	case path.RegexMethod:
		matcher, err := regexp.Compile(needle)
		if err != nil {
			return false, err
		}
		// An unanchored search, not a full match.
		return matcher.MatchString(haystack), nil
	}
	return false, nil
}

func matchesNumber(
	method path.SearchMethod, needle string, haystack *ir.Node,
) bool {
	if haystack.Int64 != nil {
		parsed, err := strconv.ParseInt(needle, 10, 64)
		if err != nil {
			return false
		}
		return compareOrdered(method, *haystack.Int64, parsed)
	}
	if haystack.Float64 != nil {
		parsed, err := strconv.ParseFloat(needle, 64)
		if err != nil {
			return false
		}
		return compareOrdered(method, *haystack.Float64, parsed)
	}
	return false
}

func compareOrdered[T int64 | float64](
	method path.SearchMethod, haystack, needle T,
) bool {
	switch method {
	case path.EqualsMethod:
		return haystack == needle
	case path.GreaterThanMethod:
		return haystack > needle
	case path.LessThanMethod:
		return haystack < needle
	case path.GreaterThanOrEqualMethod:
		return haystack >= needle
	case path.LessThanOrEqualMethod:
		return haystack <= needle
	}
	return false
}
