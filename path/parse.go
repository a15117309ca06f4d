package path

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSegments breaks a YAML Path apart into its typed segments.
//
// The walk is a single pass over the path's runes, tracking open
// demarcations (quotes, brackets, collector parens, the user-chosen
// regex delimiter) on a stack.  When stripEscapes is true, leading
// backslashes are removed from the captured text, producing the form
// used for matching; when false they are preserved for display.
//
// Parsing is all-or-nothing: any malformed construct returns a
// SyntaxError and no segments.
func parseSegments(
	original string, sep Separator, stripEscapes bool,
) ([]Segment, error) {
	chars := []rune(original)
	if len(chars) == 0 {
		return nil, nil
	}

	var (
		segments   []Segment
		segmentID  strings.Builder
		segType    SegmentType
		hasType    bool
		demarcs    []rune
		escapeNext bool

		searchInverted bool
		searchMethod   SearchMethod
		hasMethod      bool
		searchAttr     string
		searchKeyword  SearchKeyword
		hasKeyword     bool

		seekingRegexDelim bool
		capturingRegex    bool

		collectorLevel    int
		collectorOperator CollectorOperator
		seekingCollector  bool

		nextMust    rune
		hasNextMust bool
	)
	pathsep := []rune(sep.String())[0]

	// flush records the pending segment text, defaulting its type to
	// KEY and expanding any splats it contains.
	flush := func() error {
		if segmentID.Len() == 0 {
			return nil
		}
		if !hasType {
			segType = KeySegment
		}
		seg, err := expandSplats(original, segmentID.String(), segType)
		if err != nil {
			return err
		}
		segments = append(segments, seg)
		segmentID.Reset()
		return nil
	}

	// Infer the first possible position for a top-level anchor mark.
	firstAnchorPos := 0
	if sep == SlashSeparator && len(chars) > 1 {
		firstAnchorPos = 1
	}
	seekingAnchorMark := chars[firstAnchorPos] == '&'

	for charIdx, char := range chars {
		demarcCount := len(demarcs)
		top := func() rune {
			return demarcs[len(demarcs)-1]
		}
		if hasNextMust && char == nextMust {
			hasNextMust = false
		}

		switch {
		case escapeNext:
			// Pass-through; capture this escaped character.
			escapeNext = false

		case capturingRegex:
			if char == top() {
				// Stop the regex capture.  The body is taken verbatim,
				// so the delimiter itself cannot be escaped; the user
				// picks a delimiter that does not occur in the regex.
				capturingRegex = false
				demarcs = demarcs[:len(demarcs)-1]
				continue
			}

		// The escape test comes after the regex capture test so regex
		// bodies need no double-escaping.
		case char == '\\':
			escapeNext = true
			if stripEscapes {
				continue
			}

		case char == ' ' &&
			(demarcCount < 1 || (top() != '\'' && top() != '"')):
			// Ignore unescaped, non-demarcated whitespace.
			continue

		case seekingRegexDelim:
			// This first non-space symbol is the regex delimiter.
			seekingRegexDelim = false
			capturingRegex = true
			demarcs = append(demarcs, char)
			continue

		case seekingAnchorMark && char == '&':
			seekingAnchorMark = false
			segType, hasType = AnchorSegment, true
			continue

		case seekingCollector && (char == '+' || char == '-' || char == '&'):
			seekingCollector = false
			nextMust, hasNextMust = '(', true
			switch char {
			case '+':
				collectorOperator = AdditionOperator
			case '-':
				collectorOperator = SubtractionOperator
			case '&':
				collectorOperator = IntersectionOperator
			}
			continue

		case hasNextMust && char != nextMust:
			return nil, syntaxErr(original, fmt.Sprintf(
				"%q must be %q", char, nextMust), charIdx)

		case char == '"' || char == '\'':
			if demarcCount > 0 {
				if char == top() {
					// Close a matching pair.
					demarcs = demarcs[:len(demarcs)-1]
					demarcCount--

					// Record the segment when all pairs have closed.
					// Demarcation forces KEY typing, so a quoted splat
					// or integer stays a literal key.
					if demarcCount < 1 {
						if segmentID.Len() > 0 {
							if !hasType {
								segType = KeySegment
							}
							segments = append(segments, Segment{
								Type: segType, Key: segmentID.String(),
							})
							segmentID.Reset()
						}
						hasType = false
						continue
					}
				} else {
					// Embed a nested, demarcated component.
					demarcs = append(demarcs, char)
				}
			} else {
				// Fresh demarcated value.
				demarcs = append(demarcs, char)
				continue
			}

		case char == '(':
			if demarcCount == 1 && top() == '[' && segmentID.Len() > 0 {
				keyword, known := ParseKeyword(segmentID.String())
				if !known {
					return nil, &SyntaxError{
						Path: original,
						Position: charIdx -
							len([]rune(segmentID.String())),
						Segment: segmentID.String(),
						Reason: fmt.Sprintf(
							"unknown search keyword %q, allowed: %s",
							segmentID.String(),
							strings.Join(Keywords(), ", ")),
					}
				}
				demarcs = append(demarcs, char)
				segType, hasType = KeywordSegment, true
				searchKeyword, hasKeyword = keyword, true
				segmentID.Reset()
				continue
			}

			if collectorLevel == 0 {
				if err := flush(); err != nil {
					return nil, err
				}
			}

			seekingCollector = false
			collectorLevel++
			demarcs = append(demarcs, char)
			segType, hasType = CollectorSegment, true

			// Preserve nested collectors verbatim.
			if collectorLevel == 1 {
				continue
			}

		case demarcCount > 0 && char == ')' && top() == '(' &&
			hasType && segType == KeywordSegment:
			demarcs = demarcs[:len(demarcs)-1]
			nextMust, hasNextMust = ']', true
			seekingCollector = false
			continue

		case demarcCount > 0 && char == ')' && top() == '(' &&
			collectorLevel > 0:
			collectorLevel--
			demarcs = demarcs[:len(demarcs)-1]

			if collectorLevel < 1 {
				segments = append(segments, Segment{
					Type: CollectorSegment,
					Collector: &CollectorTerms{
						Expression: segmentID.String(),
						Operation:  collectorOperator,
					},
				})
				segmentID.Reset()
				hasType = false
				collectorOperator = NoneOperator
				seekingCollector = true
				continue
			}

		case demarcCount == 0 && char == '[':
			// Sequence INDEX/SLICE or SEARCH.
			if err := flush(); err != nil {
				return nil, err
			}
			demarcs = append(demarcs, char)
			segType, hasType = IndexSegment, true
			seekingCollector = false
			seekingAnchorMark = true
			searchInverted = false
			hasMethod = false
			searchAttr = ""
			continue

		case demarcCount == 1 && top() == '[' &&
			strings.ContainsRune("=^$%!><~", char):
			// Attribute search operator.
			switch char {
			case '!':
				if searchInverted {
					return nil, syntaxErr(original,
						"double search inversion is meaningless", charIdx)
				}
				searchInverted = true
				continue

			case '=':
				// Exact value match, or the tail of >=, <=, ==, =~.
				segType, hasType = SearchSegment, true
				switch {
				case hasMethod && searchMethod == LessThanMethod:
					searchMethod = LessThanOrEqualMethod
				case hasMethod && searchMethod == GreaterThanMethod:
					searchMethod = GreaterThanOrEqualMethod
				case hasMethod && searchMethod == EqualsMethod:
					// Allow ==.
				case !hasMethod:
					searchMethod, hasMethod = EqualsMethod, true
					if segmentID.Len() < 1 {
						return nil, syntaxErr(original,
							"missing search operand before operator",
							charIdx)
					}
					searchAttr = segmentID.String()
					segmentID.Reset()
				default:
					return nil, syntaxErr(original,
						"unsupported search operator combination", charIdx)
				}
				continue

			case '~':
				if hasMethod && searchMethod == EqualsMethod {
					searchMethod = RegexMethod
					seekingRegexDelim = true
				} else {
					return nil, syntaxErr(original, fmt.Sprintf(
						"unexpected use of %q operator; try =~ to search"+
							" with a regular expression", char), charIdx)
				}
				continue
			}

			// The remaining operators require an operand.
			if segmentID.Len() < 1 {
				return nil, syntaxErr(original,
					"missing search operand before operator", charIdx)
			}
			segType, hasType = SearchSegment, true
			searchAttr = segmentID.String()
			segmentID.Reset()
			switch char {
			case '^':
				searchMethod, hasMethod = StartsWithMethod, true
			case '$':
				searchMethod, hasMethod = EndsWithMethod, true
			case '%':
				searchMethod, hasMethod = ContainsMethod, true
			case '>':
				searchMethod, hasMethod = GreaterThanMethod, true
			case '<':
				searchMethod, hasMethod = LessThanMethod, true
			}
			continue

		case char == '[':
			// Track bracket nesting within demarcated content.
			demarcs = append(demarcs, char)

		case demarcCount == 1 && char == ']' && top() == '[':
			seg, err := closeBracket(
				original, charIdx, segmentID.String(), segType, hasType,
				searchInverted, searchMethod, hasMethod, searchAttr,
				searchKeyword, hasKeyword)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			segmentID.Reset()
			hasType = false
			demarcs = demarcs[:len(demarcs)-1]
			hasMethod = false
			searchInverted = false
			hasKeyword = false
			continue

		case char == ']':
			// Track bracket de-nesting within demarcated content.
			if demarcCount < 1 {
				return nil, syntaxErr(original,
					"unmatched ] demarcation mark", charIdx)
			}
			demarcs = demarcs[:len(demarcs)-1]

		case demarcCount < 1 && char == pathsep:
			// Do not store empty elements.
			if err := flush(); err != nil {
				return nil, err
			}
			hasType = false
			seekingAnchorMark = true
			continue
		}

		segmentID.WriteRune(char)
		seekingAnchorMark = false
		seekingCollector = false
	}

	// Check for unmatched sub-path demarcations.
	if collectorLevel > 0 {
		return nil, syntaxErr(original,
			"unmatched () collector pair", -1)
	}
	if capturingRegex {
		return nil, syntaxErr(original,
			"unterminated regular expression", -1)
	}
	if len(demarcs) > 0 {
		return nil, syntaxErr(original, fmt.Sprintf(
			"at least one unmatched demarcation mark remains open: %s",
			string(demarcs)), -1)
	}

	// Store the final segment, which must have been a KEY unless
	// already typed.
	if err := flush(); err != nil {
		return nil, err
	}

	// A repeated traversal would re-evaluate every descendant of every
	// descendant, so it is rejected before any document access.  Two
	// adjacent collectors likewise have no meaning without a joining
	// operator.
	for i := 1; i < len(segments); i++ {
		if segments[i].Type == TraverseSegment &&
			segments[i-1].Type == TraverseSegment {
			return nil, syntaxErr(original,
				"repeating the ** traversal operator is meaningless", -1)
		}
		if segments[i].Type == CollectorSegment &&
			segments[i-1].Type == CollectorSegment &&
			segments[i].Collector.Operation == NoneOperator {
			return nil, syntaxErr(original,
				"adjoining collectors without an operator have no meaning",
				-1)
		}
	}

	return segments, nil
}

// closeBracket finalizes the segment pending at an outer "]".
func closeBracket(
	original string, charIdx int, segmentID string,
	segType SegmentType, hasType bool,
	searchInverted bool, searchMethod SearchMethod, hasMethod bool,
	searchAttr string, searchKeyword SearchKeyword, hasKeyword bool,
) (Segment, error) {
	switch {
	case hasType && segType == IndexSegment &&
		!strings.Contains(segmentID, ":"):
		idx, err := strconv.Atoi(segmentID)
		if err != nil {
			return Segment{}, &SyntaxError{
				Path:     original,
				Position: charIdx,
				Segment:  segmentID,
				Reason:   "not an integer index",
			}
		}
		return Segment{
			Type:  IndexSegment,
			Index: &IndexTerms{Raw: segmentID, Index: idx},
		}, nil

	case hasType && segType == SearchSegment && hasMethod:
		// Undemarcate the search term, if it is so.
		term := segmentID
		if len(term) > 1 &&
			(term[0] == '\'' || term[0] == '"') &&
			term[len(term)-1] == term[0] {
			term = term[1 : len(term)-1]
		}
		return Segment{
			Type: SearchSegment,
			Search: &SearchTerms{
				Inverted:  searchInverted,
				Method:    searchMethod,
				Attribute: searchAttr,
				Term:      term,
			},
		}, nil

	case hasType && segType == KeywordSegment && hasKeyword:
		return Segment{
			Type: KeywordSegment,
			Keyword: &SearchKeywordTerms{
				Inverted:   searchInverted,
				Keyword:    searchKeyword,
				Parameters: segmentID,
			},
		}, nil

	case hasType && segType == IndexSegment:
		minPart, maxPart, _ := strings.Cut(segmentID, ":")
		return Segment{
			Type: IndexSegment,
			Index: &IndexTerms{
				Raw:   segmentID,
				Slice: true,
				Min:   minPart,
				Max:   maxPart,
			},
		}, nil

	case hasType && segType == AnchorSegment:
		return Segment{Type: AnchorSegment, Key: segmentID}, nil
	}

	return Segment{}, &SyntaxError{
		Path:     original,
		Position: charIdx,
		Segment:  segmentID,
		Reason:   "unexpected demarcation mark closure",
	}
}

// expandSplats coalesces * wildcards within undemarcated segment text:
// a lone * matches all children, ** traverses all descendants, and
// leading, trailing, or interior stars become value searches.
func expandSplats(
	original, segmentID string, segType SegmentType,
) (Segment, error) {
	if !strings.Contains(segmentID, "*") {
		return Segment{Type: segType, Key: segmentID}, nil
	}

	id := []rune(segmentID)
	splatCount := strings.Count(segmentID, "*")
	splatPos := -1
	for i, char := range id {
		if char == '*' {
			splatPos = i
			break
		}
	}

	switch {
	case splatCount == 1 && len(id) == 1:
		return Segment{Type: MatchAllSegment}, nil

	case splatCount == 1 && splatPos == 0:
		// *text matches values ending with text.
		return Segment{Type: SearchSegment, Search: &SearchTerms{
			Method:    EndsWithMethod,
			Attribute: ".",
			Term:      string(id[1:]),
		}}, nil

	case splatCount == 1 && splatPos == len(id)-1:
		// text* matches values starting with text.
		return Segment{Type: SearchSegment, Search: &SearchTerms{
			Method:    StartsWithMethod,
			Attribute: ".",
			Term:      string(id[:splatPos]),
		}}, nil

	case splatCount == 1:
		// te*xt becomes an anchored regular expression.
		return Segment{Type: SearchSegment, Search: &SearchTerms{
			Method:    RegexMethod,
			Attribute: ".",
			Term: fmt.Sprintf("^%s.*%s$",
				string(id[:splatPos]), string(id[splatPos+1:])),
		}}, nil

	case splatCount == 2 && len(id) == 2:
		return Segment{Type: TraverseSegment}, nil
	}

	// Multi-wildcard search.
	var term strings.Builder
	term.WriteString("^")
	wasSplat := false
	for _, char := range id {
		if char == '*' {
			if wasSplat {
				return Segment{}, &SyntaxError{
					Path:    original,
					Segment: segmentID,
					Reason: "the ** traversal operator has no meaning" +
						" when combined with other characters",
					Position: -1,
				}
			}
			wasSplat = true
			term.WriteString(".*")
			continue
		}
		wasSplat = false
		term.WriteRune(char)
	}
	term.WriteString("$")

	return Segment{Type: SearchSegment, Search: &SearchTerms{
		Method:    RegexMethod,
		Attribute: ".",
		Term:      term.String(),
	}}, nil
}
