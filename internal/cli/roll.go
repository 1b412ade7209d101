package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmunhall/dice-sack/internal/model"
)

func newRollCmd() *cobra.Command {
	var (
		dice  int
		sides int
		times int
		lock  []int
	)

	cmd := &cobra.Command{
		Use:   "roll",
		Short: "Play one turn non-interactively and save it to history",
		Long: `Start a turn, lock the dice at the given positions, roll the rest the
given number of times, then end the turn and print the saved group.

Locked dice keep the face they were dealt when the turn started.`,
		Example: `  dicesack roll
  dicesack roll --dice 5 --sides 20
  dicesack roll --times 3 --lock 1,2 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if !cmd.Flags().Changed("dice") {
				dice = s.settings.DiceCount
			}
			if !cmd.Flags().Changed("sides") {
				sides = s.settings.Sides
			}
			if times < 0 {
				return fmt.Errorf("%w: times must be >= 0, got %d", model.ErrInvalidArgument, times)
			}

			turns := s.app.TurnController
			if err := turns.NewTurn(dice, sides); err != nil {
				return err
			}

			locked := make(map[int]bool)
			for _, pos := range lock {
				if locked[pos] {
					continue
				}
				if err := turns.ToggleLockAt(pos - 1); err != nil {
					return err
				}
				locked[pos] = true
			}

			for i := 0; i < times; i++ {
				if err := turns.RollAll(); err != nil {
					return err
				}
			}

			if err := turns.EndTurn(cmd.Context()); err != nil {
				return err
			}

			s.out.Print(NewGroupView(turns.Group()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&dice, "dice", "n", 6, "Number of dice (env: DICESACK_DICE_COUNT)")
	cmd.Flags().IntVarP(&sides, "sides", "s", 6, "Sides per die (env: DICESACK_SIDES)")
	cmd.Flags().IntVarP(&times, "times", "t", 1, "Rolls after locking; 0 keeps the dealt faces")
	cmd.Flags().IntSliceVar(&lock, "lock", nil, "1-based positions of dice to lock, e.g. 1,3")

	return cmd
}
