package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	yamlpath "github.com/signadot/yamlpath"
	"github.com/signadot/yamlpath/encode"
	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/parse"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

func ypMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func readArg(arg string) (*ir.Node, error) {
	var reader io.Reader
	if arg == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return nil, fmt.Errorf("error opening %s: %w", arg, err)
		}
		defer f.Close()
		reader = f
	}
	rd, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	doc, err := parse.Parse(rd)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return doc, nil
}

func writeNode(cfg *MainConfig, w io.Writer, node *ir.Node) error {
	if cfg.JSON {
		j, err := yaml.YAMLToJSON([]byte(encode.MustString(node)))
		if err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
		_, err = w.Write(append(j, '\n'))
		return err
	}
	if err := encode.Encode(node, w, cfg.encOpts(w)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

// mutateArg loads one document, applies the edit, and renders the whole
// document to the output.
func mutateArg(
	cfg *MainConfig, w io.Writer, arg string,
	fn func(pr *yamlpath.Processor) error,
) error {
	doc, err := readArg(arg)
	if err != nil {
		return err
	}
	pr := yamlpath.NewProcessor(doc)
	if err := fn(pr); err != nil {
		return err
	}
	return writeNode(cfg, w, pr.Data)
}

func mutateArgs(
	cfg *MainConfig, w io.Writer, args []string,
	fn func(pr *yamlpath.Processor) error,
) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, arg := range args {
		if i > 0 {
			if _, err := w.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		if err := mutateArg(cfg, w, arg, fn); err != nil {
			return fmt.Errorf("error editing %s: %w", arg, err)
		}
	}
	return nil
}
