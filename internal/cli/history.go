package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmunhall/dice-sack/internal/model"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Roll history commands",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryClearCmd())
	cmd.AddCommand(newHistoryDeleteCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved rolls, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("%w: limit must be >= 0, got %d", model.ErrInvalidArgument, limit)
			}

			s, err := openSession(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			groups, err := s.app.HistoryService.List(cmd.Context())
			if err != nil {
				return err
			}

			result := HistoryView{
				Groups: []GroupView{},
				Total:  len(groups),
			}
			for i, g := range groups {
				if limit > 0 && i >= limit {
					break
				}
				result.Groups = append(result.Groups, NewGroupView(g))
			}

			s.out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Show at most this many rolls (0 = all)")

	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved roll",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			count, err := s.app.HistoryService.Count(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.app.HistoryService.ClearAll(cmd.Context()); err != nil {
				return err
			}

			s.out.Print(ClearResult{Removed: count})
			return nil
		},
	}
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one saved roll",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			s, err := openSession(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := s.app.HistoryService.Delete(cmd.Context(), id); err != nil {
				return err
			}

			s.out.PrintMessage(fmt.Sprintf("Deleted roll %s", id))
			return nil
		},
	}
}
