package main

import (
	"fmt"

	yamlpath "github.com/signadot/yamlpath"
	"github.com/signadot/yamlpath/ir"

	"github.com/scott-cotton/cli"
)

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf(
			"%w: set requires two arguments, a YAML Path and a value",
			cli.ErrUsage)
	}
	expr, value := args[0], args[1]
	if cfg.Rename {
		expr = expr + "[name()]"
	}

	var options []yamlpath.Option
	if cfg.MustExist {
		options = append(options, yamlpath.MustExist())
	}
	if cfg.Tag != "" {
		options = append(options, yamlpath.WithTag(cfg.Tag))
	}
	if cfg.Style != "" {
		style, err := ir.ParseStyle(cfg.Style)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		options = append(options, yamlpath.WithStyle(style))
	}

	return mutateArgs(cfg.MainConfig, cc.Out, args[2:],
		func(pr *yamlpath.Processor) error {
			return pr.SetValue(cfg.path(expr), value, options...)
		})
}

func del(cfg *DeleteConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Delete.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf(
			"%w: delete requires one argument, a YAML Path", cli.ErrUsage)
	}
	expr := args[0]
	return mutateArgs(cfg.MainConfig, cc.Out, args[1:],
		func(pr *yamlpath.Processor) error {
			_, err := pr.DeleteNodes(cfg.path(expr))
			return err
		})
}

func tag(cfg *TagConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tag.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf(
			"%w: tag requires two arguments, a YAML Path and a tag",
			cli.ErrUsage)
	}
	expr, tagText := args[0], args[1]
	return mutateArgs(cfg.MainConfig, cc.Out, args[2:],
		func(pr *yamlpath.Processor) error {
			_, err := pr.TagNodes(cfg.path(expr), tagText)
			return err
		})
}

func alias(cfg *AliasConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Alias.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf(
			"%w: alias requires two arguments, a YAML Path and an anchor path",
			cli.ErrUsage)
	}
	expr, anchorExpr := args[0], args[1]
	options := anchorOptions(cfg.Name)
	return mutateArgs(cfg.MainConfig, cc.Out, args[2:],
		func(pr *yamlpath.Processor) error {
			return pr.AliasNodes(
				cfg.path(expr), cfg.path(anchorExpr), options...)
		})
}

func merge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf(
			"%w: merge requires two arguments, a YAML Path and an anchor path",
			cli.ErrUsage)
	}
	expr, anchorExpr := args[0], args[1]
	options := anchorOptions(cfg.Name)
	return mutateArgs(cfg.MainConfig, cc.Out, args[2:],
		func(pr *yamlpath.Processor) error {
			return pr.MergeKeyNodes(
				cfg.path(expr), cfg.path(anchorExpr), options...)
		})
}

func anchorOptions(name string) []yamlpath.Option {
	if name == "" {
		return nil
	}
	return []yamlpath.Option{yamlpath.WithAnchorName(name)}
}
