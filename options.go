package yamlpath

import (
	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/path"
)

type opts struct {
	mustExist    bool
	defaultValue any
	style        ir.Style
	tag          string
	separator    path.Separator
	anchorName   string
}

func getOpts(options []Option) *opts {
	o := &opts{style: ir.DefaultStyle, separator: path.AutoSeparator}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Option adjusts one query or mutation.
type Option func(*opts)

// MustExist makes the operation fail when the path matches nothing
// instead of creating the missing nodes.
func MustExist() Option {
	return func(o *opts) { o.mustExist = true }
}

// WithDefault supplies the value written into nodes a query creates on
// demand.
func WithDefault(value any) Option {
	return func(o *opts) { o.defaultValue = value }
}

// WithStyle forces the written value's presentation style.
func WithStyle(style ir.Style) Option {
	return func(o *opts) { o.style = style }
}

// WithTag assigns a data-type tag to the written value.
func WithTag(tag string) Option {
	return func(o *opts) { o.tag = tag }
}

// WithSeparator forces the path's segment separator; set it only when
// inference from the path text would guess wrong.
func WithSeparator(sep path.Separator) Option {
	return func(o *opts) { o.separator = sep }
}

// WithAnchorName overrides the automatically chosen anchor name when
// aliasing nodes.
func WithAnchorName(name string) Option {
	return func(o *opts) { o.anchorName = name }
}
