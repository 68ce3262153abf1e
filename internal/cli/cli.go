package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"checklist/internal/config"
	"checklist/internal/item"
	"checklist/internal/logging"
	"checklist/internal/storage"
	"checklist/internal/store"
	"checklist/internal/ui"
	"checklist/internal/view"
)

type App struct {
	ConfigPath string
}

// session is everything a command needs once config and storage are open.
type session struct {
	cfg    config.Config
	slot   storage.Slot
	store  *store.Store
	logger *log.Logger
	closer io.Closer
}

func (s *session) Close() error {
	err := s.slot.Close()
	if cerr := s.closer.Close(); err == nil {
		err = cerr
	}
	return err
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "checklist",
		Short:        "Checklist with a segmented progress bar",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  checklist

  # Scriptable commands
  checklist add Learn Go
  checklist ls
  checklist toggle 1712345678901
  checklist clear
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(app, nil)
			if err != nil {
				return err
			}
			defer s.Close()
			return ui.Run(s.store, s.cfg, s.logger)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $"+config.EnvConfigPath+" or the user config dir)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newClearCmd(app))

	return cmd
}

func open(app *App, logOut io.Writer) (*session, error) {
	path := app.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Prefix: "checklist",
	}, logOut)
	if err != nil {
		return nil, err
	}
	slot, err := storage.Open(cfg.Backend, cfg.DataPath, cfg.Slot)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	st := store.Load(slot, store.WithLogger(logger))
	return &session{cfg: cfg, slot: slot, store: st, logger: logger, closer: closer}, nil
}

// withSession opens storage for a subcommand, logging to stderr.
func withSession(app *App, cmd *cobra.Command, fn func(*session) error) error {
	s, err := open(app, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(app, cmd, func(s *session) error {
				items, err := s.store.Add(strings.Join(args, " "))
				if errors.Is(err, item.ErrEmptyInput) {
					return fmt.Errorf("please enter something to learn: %w", err)
				}
				if err != nil {
					return err
				}
				return printProjection(cmd.OutOrStdout(), items)
			})
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show items and progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(app, cmd, func(s *session) error {
				return printProjection(cmd.OutOrStdout(), s.store.Items())
			})
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip an item between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(app, cmd, func(s *session) error {
				items, err := s.store.Toggle(id)
				if err != nil {
					return err
				}
				return printProjection(cmd.OutOrStdout(), items)
			})
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(app, cmd, func(s *session) error {
				items, err := s.store.Delete(id)
				if err != nil {
					return err
				}
				return printProjection(cmd.OutOrStdout(), items)
			})
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every item (asks for confirmation)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(app, cmd, func(s *session) error {
				out := cmd.OutOrStdout()
				_, total := s.store.Progress()
				ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Clear all %d items? [y/N] ", total))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Clear cancelled")
					return nil
				}
				items, err := s.store.Clear()
				if err != nil {
					return err
				}
				return printProjection(out, items)
			})
		},
	}
}

// confirm asks question and reports whether the answer was yes. EOF counts
// as no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	fmt.Fprintln(out)
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an item id: %q", raw)
	}
	return id, nil
}

func printProjection(w io.Writer, items []item.Item) error {
	lv, pv := view.Project(items)
	opt := ui.RenderOptions{Width: 40, Cursor: -1, ShowIDs: true}
	_, err := fmt.Fprintf(w, "%s\n\n%s\n", ui.RenderProgress(pv, opt), ui.RenderList(lv, opt))
	return err
}
