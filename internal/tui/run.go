package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the table until the user quits or ctx is cancelled
func Run(ctx context.Context, deps Deps, opts Options) error {
	sub := deps.Hub.Subscribe("tui")
	defer deps.Hub.Unsubscribe(sub)

	p := tea.NewProgram(New(ctx, deps, sub, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		// A signal cancels ctx; that is a normal exit
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run dice table: %w", err)
	}
	return nil
}
