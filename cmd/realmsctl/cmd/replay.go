package cmd

import (
	"fmt"
	"io"

	"github.com/magefree/realms-server-go/internal/game"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReplayCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Inspect recorded matches",
	}
	cmd.AddCommand(newReplayVerifyCmd(root), newReplayShowCmd())
	return cmd
}

func newReplayVerifyCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>...",
		Short: "Re-run replays and check they reach their recorded final state",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				replay, err := game.ReadReplayFile(path)
				if err == nil {
					_, err = replay.Verify()
				}
				if err != nil {
					failed++
					root.logger.Warn("replay failed verification", zap.String("file", path), zap.Error(err))
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d steps)\n", path, replay.Size())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d replays failed", failed, len(args))
			}
			return nil
		},
	}
}

type showOptions struct {
	step    int
	reverse bool
}

func newReplayShowCmd() *cobra.Command {
	opts := showOptions{}

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a replay's header and its recorded actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replay, err := game.ReadReplayFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "game %s, setup %s, seed %d\n", replay.GameID, replay.Setup, replay.Seed)
			fmt.Fprintf(out, "players: %v\n", replay.Names)

			if cmd.Flags().Changed("step") {
				step, ok := replay.GetStepAt(opts.step)
				if !ok {
					return fmt.Errorf("step %d out of range, replay has %d steps", opts.step, replay.Size())
				}
				printStep(out, opts.step, step)
				return nil
			}

			replay.Start()
			i := 0
			for {
				step, ok := replay.Next()
				if !ok {
					break
				}
				if !opts.reverse {
					printStep(out, i, step)
				}
				i++
			}
			if opts.reverse {
				for {
					step, ok := replay.Previous()
					if !ok {
						break
					}
					i--
					printStep(out, i, step)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.step, "step", 0, "print only the step at this index")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "print steps from last to first")
	return cmd
}

func printStep(out io.Writer, i int, step game.ReplayStep) {
	fmt.Fprintf(out, "%4d  seat %d  %s  (%d deltas)\n", i, step.Actor, step.Action, step.Deltas)
}
