package main

import (
	"os"
	"path/filepath"

	"github.com/denismitr/shelf/internal/agenda"
	"github.com/denismitr/shelf/internal/inventory"
	"github.com/denismitr/shelf/internal/library"
	"github.com/denismitr/shelf/internal/menu"
	"github.com/denismitr/shelf/internal/todo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func inventoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Manage products and stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			path := a.cfg.Path(a.cfg.Files.Inventory)
			if err := ensureDir(filepath.Dir(path)); err != nil {
				return err
			}

			s, closer, err := inventory.Open(path, a.cfg.StoreOptions(a.logger))
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, closer()) }()

			a.logger.Info("inventory opened", zap.String("path", path), zap.Int("products", s.Count()))
			return menu.Inventory(s, a.format, a.logger).Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func libraryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "library",
		Short: "Manage books, users and loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			dir := a.cfg.Path(a.cfg.Files.Library)
			if err := ensureDir(dir); err != nil {
				return err
			}

			lib, closer, err := library.Open(dir, a.cfg.StoreOptions(a.logger))
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, closer()) }()

			a.logger.Info("library opened", zap.String("dir", dir))
			return menu.Library(lib, a.format, a.logger).Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func tasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"todo"},
		Short:   "Manage a to-do list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			path := a.cfg.Path(a.cfg.Files.Tasks)
			if err := ensureDir(filepath.Dir(path)); err != nil {
				return err
			}

			l, closer, err := todo.Open(path, a.cfg.StoreOptions(a.logger))
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, closer()) }()

			return menu.Tasks(l, a.format, a.logger).Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func agendaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "agenda",
		Aliases: []string{"events"},
		Short:   "Keep a personal agenda of dated events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			path := a.cfg.Path(a.cfg.Files.Agenda)
			if err := ensureDir(filepath.Dir(path)); err != nil {
				return err
			}

			ag, closer, err := agenda.Open(path, a.cfg.StoreOptions(a.logger))
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, closer()) }()

			a.logger.Info("agenda opened", zap.String("path", path), zap.Int("events", ag.Store().Count()))
			return menu.Agenda(ag, a.format, a.logger).Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "could not create %s", dir)
	}
	return nil
}
