package path

import (
	"fmt"
	"strings"
)

// SearchMethod is the comparison operator of a SEARCH segment.
type SearchMethod int

const (
	EqualsMethod SearchMethod = iota
	StartsWithMethod
	EndsWithMethod
	ContainsMethod
	GreaterThanMethod
	LessThanMethod
	GreaterThanOrEqualMethod
	LessThanOrEqualMethod
	RegexMethod
)

var searchMethodOps = map[SearchMethod]string{
	EqualsMethod:             "=",
	StartsWithMethod:         "^",
	EndsWithMethod:           "$",
	ContainsMethod:           "%",
	GreaterThanMethod:        ">",
	LessThanMethod:           "<",
	GreaterThanOrEqualMethod: ">=",
	LessThanOrEqualMethod:    "<=",
	RegexMethod:              "=~",
}

func (m SearchMethod) String() string {
	op, ok := searchMethodOps[m]
	if !ok {
		return fmt.Sprintf("SearchMethod(%d)", int(m))
	}
	return op
}

// SearchTerms captures one SEARCH segment: an optional inversion, the
// comparison method, the attribute to compare (the haystack), and the
// term to compare it against (the needle).  An attribute of "." refers
// to the candidate node's own value or name rather than a child.
type SearchTerms struct {
	Inverted  bool
	Method    SearchMethod
	Attribute string
	Term      string
}

func (st *SearchTerms) String() string {
	var safeTerm string
	if st.Method == RegexMethod {
		safeTerm = "/" + strings.ReplaceAll(st.Term, "/", `\/`) + "/"
	} else {
		// Escape unescaped spaces.
		parts := strings.Split(st.Term, `\ `)
		for i, part := range parts {
			parts[i] = strings.ReplaceAll(part, " ", `\ `)
		}
		safeTerm = strings.Join(parts, `\ `)
	}

	inverted := ""
	if st.Inverted {
		inverted = "!"
	}
	return "[" + st.Attribute + inverted + st.Method.String() + safeTerm + "]"
}

// SearchKeyword names a keyword-search predicate.
type SearchKeyword int

const (
	DistinctKeyword SearchKeyword = iota
	HasChildKeyword
	NameKeyword
	MaxKeyword
	MinKeyword
	ParentKeyword
	UniqueKeyword
)

var keywordNames = map[SearchKeyword]string{
	DistinctKeyword: "distinct",
	HasChildKeyword: "has_child",
	NameKeyword:     "name",
	MaxKeyword:      "max",
	MinKeyword:      "min",
	ParentKeyword:   "parent",
	UniqueKeyword:   "unique",
}

var namedKeywords = func() map[string]SearchKeyword {
	res := make(map[string]SearchKeyword, len(keywordNames))
	for k, n := range keywordNames {
		res[n] = k
	}
	return res
}()

func (k SearchKeyword) String() string {
	n, ok := keywordNames[k]
	if !ok {
		return fmt.Sprintf("SearchKeyword(%d)", int(k))
	}
	return n
}

// Keywords returns the allowed keyword names for diagnostics.
func Keywords() []string {
	return []string{
		"distinct", "has_child", "name", "max", "min", "parent", "unique",
	}
}

// ParseKeyword resolves keyword text; ok is false for unknown names.
func ParseKeyword(name string) (SearchKeyword, bool) {
	k, ok := namedKeywords[name]
	return k, ok
}

// SearchKeywordTerms captures one SEARCH_KEYWORD segment.  The raw
// parameter text is split on demand: parameters are comma-separated,
// quote-aware, and backslash-escaped, and the split result is cached.
type SearchKeywordTerms struct {
	Inverted   bool
	Keyword    SearchKeyword
	Parameters string

	parsed []string
	done   bool
}

func (kt *SearchKeywordTerms) String() string {
	inverted := ""
	if kt.Inverted {
		inverted = "!"
	}
	return "[" + inverted + kt.Keyword.String() + "(" + kt.Parameters + ")]"
}

// Params returns the parsed parameter list.
func (kt *SearchKeywordTerms) Params() ([]string, error) {
	if kt.done {
		return kt.parsed, nil
	}

	var (
		param       strings.Builder
		params      []string
		escapeNext  bool
		demarcStack []rune
	)
	for _, char := range kt.Parameters {
		demarcCount := len(demarcStack)

		switch {
		case escapeNext:
			escapeNext = false

		case char == '\\':
			escapeNext = true
			continue

		case char == ' ' && demarcCount < 1:
			// Ignore undemarcated whitespace.
			continue

		case char == '"' || char == '\'':
			if demarcCount > 0 {
				if char == demarcStack[demarcCount-1] {
					demarcStack = demarcStack[:demarcCount-1]
					if demarcCount-1 < 1 {
						// Final close; seek the next delimiter.
						continue
					}
				}
				// The other quote character is literal text here.
			} else {
				demarcStack = append(demarcStack, char)
				continue
			}

		case demarcCount < 1 && char == ',':
			params = append(params, param.String())
			param.Reset()
			continue
		}

		param.WriteRune(char)
	}

	if len(demarcStack) > 0 {
		return nil, fmt.Errorf(
			"keyword search parameters contain one or more unmatched"+
				" demarcation symbol(s): %s", string(demarcStack))
	}

	if param.Len() > 0 {
		params = append(params, param.String())
	}

	kt.parsed = params
	kt.done = true
	return kt.parsed, nil
}

// CollectorOperator relates a collector to its predecessor.
type CollectorOperator int

const (
	NoneOperator CollectorOperator = iota
	AdditionOperator
	SubtractionOperator
	IntersectionOperator
)

func (o CollectorOperator) String() string {
	switch o {
	case AdditionOperator:
		return "+"
	case SubtractionOperator:
		return "-"
	case IntersectionOperator:
		return "&"
	}
	return ""
}

// CollectorTerms captures one COLLECTOR segment: the sub-path
// expression and the set operation joining it to the prior collector.
type CollectorTerms struct {
	Expression string
	Operation  CollectorOperator
}

func (ct *CollectorTerms) String() string {
	return ct.Operation.String() + "(" + ct.Expression + ")"
}

// IndexTerms captures one INDEX segment: either a single integer index
// or a half-open slice.  Slice bounds stay lexical because mappings and
// sets admit non-integer slicing; sequences parse them as integers at
// resolution time.
type IndexTerms struct {
	Raw   string
	Index int
	Slice bool
	Min   string
	Max   string
}

func (it *IndexTerms) String() string {
	return it.Raw
}
