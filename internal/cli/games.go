package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/record"
)

type operationCommand struct {
	name  string
	short string
	// scheduled operations take --previous
	scheduled bool
	// needAll operations take --summary
	needAll bool
}

type gameCommand struct {
	use        string
	aliases    []string
	short      string
	game       model.Game
	operations []operationCommand
}

var gameCommands = []gameCommand{
	{
		use:     "genshin",
		aliases: []string{"gi"},
		short:   "Genshin Impact records",
		game:    model.GameGenshin,
		operations: []operationCommand{
			{name: "index", short: "Account summary and characters"},
			{name: "note", short: "Resin, commissions and expeditions"},
			{name: "abyss", short: "Spiral Abyss results", scheduled: true},
		},
	},
	{
		use:     "starrail",
		aliases: []string{"hsr", "hkrpg"},
		short:   "Honkai: Star Rail records",
		game:    model.GameStarRail,
		operations: []operationCommand{
			{name: "index", short: "Account summary and characters"},
			{name: "note", short: "Trailblaze power and assignments"},
			{name: "forgotten-hall", short: "Memory of Chaos results", scheduled: true, needAll: true},
			{name: "pure-fiction", short: "Pure Fiction results", scheduled: true, needAll: true},
			{name: "apocalyptic-shadow", short: "Apocalyptic Shadow results", scheduled: true, needAll: true},
		},
	},
	{
		use:     "zenless",
		aliases: []string{"zzz", "nap"},
		short:   "Zenless Zone Zero records",
		game:    model.GameZenless,
		operations: []operationCommand{
			{name: "index", short: "Account summary and agents"},
			{name: "note", short: "Battery, engagement and video store"},
			{name: "deadly-assault", short: "Deadly Assault results", scheduled: true},
			{name: "shiyu", short: "Shiyu Defense results", scheduled: true},
			{name: "hollow-zero", short: "Hollow Zero summary"},
		},
	},
}

func newGameCmd(gc gameCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:     gc.use,
		Aliases: gc.aliases,
		Short:   gc.short,
	}

	for _, op := range gc.operations {
		cmd.AddCommand(newOperationCmd(gc.game, op))
	}

	return cmd
}

func newOperationCmd(game model.Game, op operationCommand) *cobra.Command {
	var previous, summary bool

	cmd := &cobra.Command{
		Use:   op.name,
		Short: op.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := record.DefaultOptions()
			if previous {
				opts.Schedule = record.SchedulePrevious
			}
			opts.NeedAll = !summary

			data, err := active.Run(cmd.Context(), game, op.name, opts, cfg.Refresh)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			return out.PrintRecord(game, op.name, data)
		},
	}

	if op.scheduled {
		cmd.Flags().BoolVar(&previous, "previous", false, "Fetch the previous rotation")
	}
	if op.needAll {
		cmd.Flags().BoolVar(&summary, "summary", false, "Skip per-floor details (need_all=false)")
	}

	return cmd
}
