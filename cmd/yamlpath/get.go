package main

import (
	"fmt"
	"io"

	yamlpath "github.com/signadot/yamlpath"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf(
			"%w: get requires one argument, a YAML Path", cli.ErrUsage)
	}
	expr := args[0]
	args = args[1:]
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		if err := getArg(cfg, cc.Out, arg, expr); err != nil {
			return fmt.Errorf("error querying %s with %s: %w", arg, expr, err)
		}
	}
	return nil
}

func getArg(cfg *GetConfig, w io.Writer, arg, expr string) error {
	doc, err := readArg(arg)
	if err != nil {
		return err
	}
	pr := yamlpath.NewProcessor(doc)

	var options []yamlpath.Option
	if cfg.MustExist {
		options = append(options, yamlpath.MustExist())
	}
	if cfg.Default != "" {
		options = append(options, yamlpath.WithDefault(cfg.Default))
	}
	for nc, err := range pr.GetNodes(cfg.path(expr), options...) {
		if err != nil {
			return err
		}
		if cfg.Paths {
			if _, err := fmt.Fprintln(w, nc.String()); err != nil {
				return err
			}
			continue
		}
		if err := writeNode(cfg.MainConfig, w, nc.Unwrap()); err != nil {
			return err
		}
	}
	return nil
}
