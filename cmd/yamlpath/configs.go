package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/yamlpath/encode"
	"github.com/signadot/yamlpath/path"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`
	JSON  bool `cli:"name=json aliases=j desc='encode results as JSON'"`

	Separator path.Separator

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) sepOpt(_ *cli.Context, a string) (any, error) {
	sep, err := path.ParseSeparator(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Separator = sep
	return sep, nil
}

func (cfg *MainConfig) path(expr string) *path.Path {
	return path.NewWithSeparator(expr, cfg.Separator)
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	var res []encode.EncodeOption
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type GetConfig struct {
	*MainConfig

	MustExist bool   `cli:"name=mustexist aliases=m desc='fail when the path matches nothing'"`
	Default   string `cli:"name=default desc='value for nodes created on demand'"`
	Paths     bool   `cli:"name=paths desc='print the path of each match instead of its value'"`

	Get *cli.Command
}

type SetConfig struct {
	*MainConfig

	MustExist bool   `cli:"name=mustexist aliases=m desc='fail instead of creating missing nodes'"`
	Tag       string `cli:"name=tag desc='assign this data-type tag to the written value'"`
	Style     string `cli:"name=style desc='presentation style for the written value'"`
	Rename    bool   `cli:"name=name desc='rename the matched key instead of setting its value'"`

	Set *cli.Command
}

type DeleteConfig struct {
	*MainConfig

	Delete *cli.Command
}

type TagConfig struct {
	*MainConfig

	Tag *cli.Command
}

type AliasConfig struct {
	*MainConfig

	Name string `cli:"name=name desc='anchor name to assign to the target'"`

	Alias *cli.Command
}

type MergeConfig struct {
	*MainConfig

	Name string `cli:"name=name desc='anchor name to assign to the merge source'"`

	Merge *cli.Command
}
