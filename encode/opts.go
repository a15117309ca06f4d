package encode

type EncState struct {
	indent   int
	comments bool
	colors   *Colors
}

func getEncState(opts []EncodeOption) *EncState {
	es := &EncState{indent: 2, comments: true}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

type EncodeOption func(*EncState)

// Indent sets the number of spaces per nesting level.
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// EncodeComments controls whether comments are written back out; they
// are kept by default.
func EncodeComments(v bool) EncodeOption {
	return func(es *EncState) { es.comments = v }
}

// EncodeColors colorizes the output for terminal display.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.colors = c }
}
