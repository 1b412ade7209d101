package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmunhall/dice-sack/internal/config"
	"github.com/mmunhall/dice-sack/internal/factory"
)

// session is one command's wired application
type session struct {
	settings  config.Config
	app       *factory.App
	out       *Output
	logCloser io.Closer
}

// openSession resolves configuration and wires the application. Logs go to
// logOut unless a log file is configured.
func openSession(cmd *cobra.Command, logOut io.Writer) (*session, error) {
	settings, err := opts.Resolve()
	if err != nil {
		return nil, err
	}

	logger, closer, err := opts.NewLogger(settings, logOut)
	if err != nil {
		return nil, err
	}

	app, err := factory.New(factoryConfig(settings, logger))
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &session{
		settings:  settings,
		app:       app,
		out:       NewOutput(opts.Output, cmd.OutOrStdout(), cmd.ErrOrStderr()),
		logCloser: closer,
	}, nil
}

// Close releases storage and the log file
func (s *session) Close() error {
	return errors.Join(s.app.Close(), s.logCloser.Close())
}
