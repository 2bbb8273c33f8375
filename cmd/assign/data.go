package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"airassign/internal/assign"
	"airassign/internal/config"
	"airassign/internal/dataset"
	"airassign/internal/store"
)

func newInitCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "init DIR",
		Short: "Write the reference dataset as CSV tables into DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := dataset.WriteDir(args[0], assign.ReferenceDataset(), cfg.Files); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote reference dataset to %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd(load func() (config.Config, error)) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import DIR",
		Short: "Load the tables in DIR into Postgres (DATABASE_URL) as a named dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("import needs DATABASE_URL or database_url in the config")
			}
			ds, err := dataset.Load(args[0], cfg.Files)
			if err != nil {
				return err
			}
			if name != "" {
				ds.Name = name
			}
			pg, err := store.NewPostgres(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := pg.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := pg.SaveDataset(cmd.Context(), ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d aircraft, %d routes\n", ds.Name, len(ds.Aircraft), len(ds.Routes))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "dataset name (default: directory name)")
	return cmd
}
