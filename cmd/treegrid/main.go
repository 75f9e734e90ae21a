package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/treegrid/internal/config"
	"github.com/jask/treegrid/internal/logging"
	"github.com/jask/treegrid/internal/seed"
	"github.com/jask/treegrid/internal/treestore"
	"github.com/jask/treegrid/internal/tui"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "treegrid: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "treegrid",
		Short: "browse and edit a parent-linked tree with undo",
		Long: `
Treegrid loads a flat list of items that point at their parent and shows them
as a collapsible grid. Press e to switch to edit mode, where rows can be added,
renamed and deleted, and every edit can be undone and redone.
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGrid,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ~/.config/treegrid/config.toml)")
	pf.String("seed", "", "seed file (toml, yaml, json or sqlite); empty uses the demo tree")
	pf.String("seed-format", "", "seed format, detected from the extension when empty")
	pf.String("seed-table", seed.DefaultTable, "table to read from a sqlite seed")
	pf.String("log-level", "info", "log level")
	pf.String("log-file", "", "log file; the grid discards logs when empty")
	pf.Bool("edit", false, "start in edit mode")
	pf.Bool("expand-all", false, "start with every group expanded")

	root.AddCommand(newDumpCmd(), newCheckCmd(), newVersionCmd())
	return root
}

// session is the loaded state shared by every command.
type session struct {
	cfg   config.Config
	log   *logrus.Logger
	store *treestore.Store
	close func() error
}

// open loads config, logging and the seed. logOut receives logs when no log
// file is configured.
func open(ctx context.Context, cmd *cobra.Command, logOut io.Writer, strict bool) (*session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	items, err := seed.Load(ctx, seed.Source{
		Path:   cfg.Seed.Path,
		Format: seed.Format(cfg.Seed.Format),
		Table:  cfg.Seed.Table,
	})
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	report := seed.Validate(items)
	if strict && report.Fatal() {
		_ = closeLog()
		return nil, report.Err()
	}
	for _, p := range report.Problems() {
		log.WithField("seed", cfg.Seed.Path).Warn(p)
	}
	log.WithFields(logrus.Fields{"items": len(items), "seed": cfg.Seed.Path}).Info("seed loaded")
	return &session{
		cfg:   cfg,
		log:   log,
		store: treestore.New(items, treestore.WithLogger(log)),
		close: closeLog,
	}, nil
}

func runGrid(cmd *cobra.Command, _ []string) error {
	s, err := open(cmd.Context(), cmd, io.Discard, true)
	if err != nil {
		return err
	}
	defer s.close()

	keys, err := tui.NewKeymap(s.cfg.Keys)
	if err != nil {
		return err
	}
	m := tui.New(s.store, tui.Options{
		Keys:      keys,
		Logger:    s.log,
		EditMode:  s.cfg.UI.StartInEditMode,
		ExpandAll: s.cfg.UI.ExpandAll,
		IDStyle:   s.cfg.UI.IDStyle,
		NewLabel:  s.cfg.UI.NewLabel,
	})
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return errors.Wrap(err, "run grid")
	}
	return nil
}

func newDumpCmd() *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "print the seed as an indented table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context(), cmd, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer s.close()
			dump(cmd.OutOrStdout(), s.store, maxDepth)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "depth", -1, "deepest level to print, -1 for all")
	return cmd
}

func dump(w io.Writer, store *treestore.Store, maxDepth int) {
	expanded := map[string]bool{}
	for _, it := range store.All() {
		if store.IsGroup(it.ID) {
			expanded[it.ID.String()] = true
		}
	}
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"ID", "Parent", "Kind", "Label"})
	tbl.SetAutoWrapText(false)
	for _, it := range store.OrderedRoots(expanded) {
		depth := len(store.AllParents(it.ID))
		if maxDepth >= 0 && depth > maxDepth {
			continue
		}
		parent := "-"
		if !it.IsRoot() {
			parent = it.Parent.String()
		}
		kind := "Item"
		if store.IsGroup(it.ID) {
			kind = "Group"
		}
		tbl.Append([]string{it.ID.String(), parent, kind, strings.Repeat("  ", depth) + it.Label})
	}
	tbl.Render()
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "validate the seed and list its problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context(), cmd, io.Discard, false)
			if err != nil {
				return err
			}
			defer s.close()

			report := seed.Validate(s.store.All())
			out := cmd.OutOrStdout()
			if report.OK() {
				fmt.Fprintf(out, "ok: %d items\n", s.store.Len())
				return nil
			}
			for _, p := range report.Problems() {
				fmt.Fprintln(out, p)
			}
			return report.Err()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
