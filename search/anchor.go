package search

import (
	"fmt"

	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/path"
)

// AnchorMatch classifies the outcome of matching a node's anchor
// against search terms, distinguishing the defining occurrence of an
// anchor from later aliases to it.
type AnchorMatch int

const (
	// NoAnchor means the node carries no anchor at all.
	NoAnchor AnchorMatch = iota
	// Match means the defining occurrence satisfied the terms.
	Match
	// NoMatch means the defining occurrence did not satisfy them.
	NoMatch
	// AliasIncluded means an alias matched and aliases are wanted.
	AliasIncluded
	// AliasExcluded means an alias matched but aliases are unwanted.
	AliasExcluded
	// UnsearchableAnchor means anchor searching is disabled and this
	// is the defining occurrence.
	UnsearchableAnchor
	// UnsearchableAlias means anchor searching is disabled and this
	// is an alias.
	UnsearchableAlias
)

var anchorMatchNames = map[AnchorMatch]string{
	NoAnchor:           "no-anchor",
	Match:              "match",
	NoMatch:            "no-match",
	AliasIncluded:      "alias-included",
	AliasExcluded:      "alias-excluded",
	UnsearchableAnchor: "unsearchable-anchor",
	UnsearchableAlias:  "unsearchable-alias",
}

func (m AnchorMatch) String() string {
	n, ok := anchorMatchNames[m]
	if !ok {
		return fmt.Sprintf("AnchorMatch(%d)", int(m))
	}
	return n
}

// MatchAnchor matches a node's anchor name against search terms.  The
// seen set distinguishes defining occurrences from aliases: the first
// sighting of each anchor name is its definition and is recorded, any
// later sighting is an alias.  Anchor matching only applies when
// searchAnchors is set; aliases only match when includeAliases is too.
func MatchAnchor(
	node *ir.Node,
	terms *path.SearchTerms,
	seen map[string]bool,
	searchAnchors, includeAliases bool,
) (AnchorMatch, error) {
	if node == nil || node.Anchor == "" {
		return NoAnchor, nil
	}

	isAlias := seen[node.Anchor]
	if !isAlias {
		seen[node.Anchor] = true
	}

	if !searchAnchors {
		if isAlias {
			return UnsearchableAlias, nil
		}
		return UnsearchableAnchor, nil
	}

	if isAlias && !includeAliases {
		return AliasExcluded, nil
	}

	matched, err := MatchesString(terms.Method, terms.Term, node.Anchor)
	if err != nil {
		return NoMatch, err
	}
	if matched != terms.Inverted {
		if isAlias {
			return AliasIncluded, nil
		}
		return Match, nil
	}
	return NoMatch, nil
}
