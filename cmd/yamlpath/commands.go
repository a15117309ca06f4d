package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		{
			Name:        "s",
			Aliases:     []string{"separator"},
			Description: "path separator: auto, dot/., fslash//",
			Type:        cli.NamedFuncOpt(cfg.sepOpt, "(separator)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "yamlpath").
		WithSynopsis("yamlpath [opts] command [opts]").
		WithDescription("yamlpath queries and edits YAML documents with YAML Paths.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ypMain(cfg, cc, args)
		}).
		WithSubs(
			GetCommand(cfg),
			SetCommand(cfg),
			DeleteCommand(cfg),
			TagCommand(cfg),
			AliasCommand(cfg),
			MergeCommand(cfg))
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("get").
		WithAliases("g", "ge").
		WithSynopsis("get [opts] <yamlpath> [files]").
		WithDescription("get every node a YAML Path matches").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
	cfg.Get = cmd
	return cmd
}

func SetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("set").
		WithAliases("s", "se").
		WithSynopsis("set [opts] <yamlpath> <value> [files]").
		WithDescription("write a value into every node a YAML Path matches").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return set(cfg, cc, args)
		})
	cfg.Set = cmd
	return cmd
}

func DeleteCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DeleteConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Delete, "delete").
		WithAliases("d", "del", "rm").
		WithSynopsis("delete <yamlpath> [files]").
		WithDescription("remove every node a YAML Path matches").
		WithRun(func(cc *cli.Context, args []string) error {
			return del(cfg, cc, args)
		})
}

func TagCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TagConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Tag, "tag").
		WithAliases("t").
		WithSynopsis("tag <yamlpath> <tag> [files]").
		WithDescription("assign a data-type tag to every node a YAML Path matches").
		WithRun(func(cc *cli.Context, args []string) error {
			return tag(cfg, cc, args)
		})
}

func AliasCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AliasConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("alias").
		WithAliases("a", "al").
		WithSynopsis("alias [opts] <yamlpath> <anchorpath> [files]").
		WithDescription("alias matched nodes to the node another YAML Path names").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return alias(cfg, cc, args)
		})
	cfg.Alias = cmd
	return cmd
}

func MergeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MergeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("merge").
		WithAliases("ymk").
		WithSynopsis("merge [opts] <yamlpath> <anchorpath> [files]").
		WithDescription("add a merge key (<<:) to matched maps, sourcing another YAML Path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return merge(cfg, cc, args)
		})
	cfg.Merge = cmd
	return cmd
}
