package path

import "fmt"

// Separator is the symbol demarcating YAML Path segments.
type Separator int

const (
	// AutoSeparator defers to inference from the path's first
	// character.
	AutoSeparator Separator = iota
	// DotSeparator separates segments with dots (.).
	DotSeparator
	// SlashSeparator separates segments with forward slashes (/).
	SlashSeparator
)

func (s Separator) String() string {
	if s == SlashSeparator {
		return "/"
	}
	return "."
}

// ParseSeparator resolves a user-supplied separator spelling.
func ParseSeparator(name string) (Separator, error) {
	switch name {
	case ".", "dot":
		return DotSeparator, nil
	case "/", "fslash", "slash":
		return SlashSeparator, nil
	case "", "auto":
		return AutoSeparator, nil
	}
	return AutoSeparator, fmt.Errorf(
		"unknown path separator %q, allowed: auto, dot, fslash, ., /", name)
}

// InferSeparator picks the separator implied by a path's first
// character: a leading slash means slash-separated, anything else means
// dot-separated.  Empty paths stay AutoSeparator.
func InferSeparator(path string) Separator {
	if path == "" {
		return AutoSeparator
	}
	if path[0] == '/' {
		return SlashSeparator
	}
	return DotSeparator
}
