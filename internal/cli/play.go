package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmunhall/dice-sack/internal/tui"
)

func newPlayCmd() *cobra.Command {
	var noAnimate bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the interactive dice table",
		Long: `Open the interactive dice table.

Keys:
  1-9      hold or release die N
  r/space  roll every die that is not held
  e        end the turn and save it (starts a new turn once ended)
  n        start a new turn
  h        show or hide history
  c        clear history (while history is shown)
  q        quit

Logs are discarded unless --log-file is set, since the table owns the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			return tui.Run(cmd.Context(), tui.Deps{
				Turns:   s.app.TurnController,
				History: s.app.HistoryService,
				Hub:     s.app.Hub,
			}, tui.Options{
				Animate: s.settings.Animate && !noAnimate,
			})
		},
	}

	cmd.Flags().BoolVar(&noAnimate, "no-animate", false, "Roll instantly instead of animating")

	return cmd
}
