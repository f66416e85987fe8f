package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/magefree/realms-server-go/internal/game"
	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rng"
	"github.com/magefree/realms-server-go/internal/game/rules"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type simulateOptions struct {
	players   int
	seed      uint64
	setup     string
	limit     int
	replayDir string
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a match between scripted players and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, root.logger, opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.players, "players", 2, "number of seats")
	flags.Uint64Var(&opts.seed, "seed", 0, "shuffle seed; 0 picks one from the clock")
	flags.StringVar(&opts.setup, "setup", cards.SetupBase, "card setup to deal")
	flags.IntVar(&opts.limit, "limit", 5000, "maximum number of actions")
	flags.StringVar(&opts.replayDir, "replay-dir", "", "write a replay file to this directory")
	return cmd
}

func runSimulate(cmd *cobra.Command, logger *zap.Logger, opts simulateOptions) error {
	setup, err := cards.SetupByName(opts.setup)
	if err != nil {
		return err
	}
	if opts.players < 2 {
		return fmt.Errorf("--players must be at least 2, got %d", opts.players)
	}
	if opts.seed == 0 {
		opts.seed = uint64(time.Now().UnixNano())
	}
	names := game.DefaultNames(opts.players)
	board, err := game.NewBoard(names, setup, rng.New(opts.seed))
	if err != nil {
		return err
	}

	gameID := uuid.New().String()
	replay := game.NewReplay(gameID, opts.seed, opts.setup, names)
	stats := rules.NewStatsWatcher(opts.players)

	logger.Info("simulating",
		zap.String("game_id", gameID),
		zap.Int("players", opts.players),
		zap.Uint64("seed", opts.seed),
		zap.String("setup", opts.setup),
	)
	steps, err := game.Simulate(board, opts.limit, func(actor int, a rules.Action, deltas []rules.Delta) error {
		replay.RecordStep(actor, a, len(deltas))
		for _, d := range deltas {
			stats.Watch(d)
		}
		logger.Debug("step", zap.Int("actor", actor), zap.Stringer("action", a), zap.Int("deltas", len(deltas)))
		return nil
	})
	if err != nil {
		return err
	}

	sum, err := board.ComputeChecksum()
	if err != nil {
		return err
	}
	replay.Finish(sum.Hash)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "seed %d, %d actions, checksum %s\n", opts.seed, steps, sum.Hash)
	if winner, ok := board.Winner(); ok {
		fmt.Fprintf(out, "winner: %s (seat %d)\n", names[winner], winner)
	} else {
		fmt.Fprintf(out, "no winner after %d actions\n", opts.limit)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEAT\tNAME\tLIVES\tTURNS\tDAMAGE TAKEN\tACQUIRED\tSACRIFICED\tCHAMPIONS LOST")
	for i, s := range stats.Snapshot() {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			i, names[i], board.Mats[i].Lives, s.Turns, s.DamageTaken, s.CardsAcquired, s.CardsSacrificed, s.ChampionsLost)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if opts.replayDir != "" {
		if err := replay.SaveToFile(opts.replayDir); err != nil {
			return err
		}
		fmt.Fprintf(out, "replay: %s\n", game.ReplayPath(opts.replayDir, gameID))
	}
	return nil
}
