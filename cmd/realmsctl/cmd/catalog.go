package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var faction string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List every card with its cost and abilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var only *cards.Faction
			if faction != "" {
				var f cards.Faction
				if err := f.UnmarshalText([]byte(faction)); err != nil {
					return err
				}
				only = &f
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tFACTION\tKIND\tCOST\tDEFENSE\tABILITIES")
			for _, c := range cards.All() {
				if only != nil && c.Faction() != *only {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					c.Key(), c.Name(), c.Faction(), kindOf(c), costOf(c), defenseOf(c), abilitiesOf(c))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&faction, "faction", "", "only list cards of this faction")
	return cmd
}

func kindOf(c cards.Card) string {
	switch {
	case c.IsGuard():
		return "guard"
	case c.IsChampion():
		return "champion"
	case c.IsObject():
		return "object"
	default:
		return "action"
	}
}

func costOf(c cards.Card) string {
	cost, ok := c.Cost()
	if !ok {
		return "-"
	}
	return strconv.Itoa(cost)
}

func defenseOf(c cards.Card) string {
	if !c.IsChampion() {
		return "-"
	}
	return strconv.Itoa(c.Defense())
}

func abilitiesOf(c cards.Card) string {
	var parts []string
	for _, a := range []cards.Ability{cards.AbilityPrimary, cards.AbilityExpend, cards.AbilityAlly, cards.AbilitySacrifice} {
		if effects, ok := c.Effects(a); ok {
			parts = append(parts, strings.ToLower(a.String())+": "+cards.Describe(effects))
		}
	}
	return strings.Join(parts, "; ")
}
