package parse

type parseOpts struct {
	comments bool
}

func getParseOpts(opts []ParseOption) *parseOpts {
	o := &parseOpts{comments: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type ParseOption func(*parseOpts)

// ParseComments controls whether comments are carried into the tree;
// they are kept by default.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}
