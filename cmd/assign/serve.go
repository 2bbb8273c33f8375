package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"airassign/internal/api"
	"airassign/internal/buildinfo"
	"airassign/internal/config"
)

func newServeCmd(load func() (config.Config, error)) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP solve service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			s, err := api.NewServer(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			srv := &http.Server{Addr: ":" + cfg.Port, Handler: s.Routes(), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				<-cmd.Context().Done()
				_ = srv.Close()
			}()
			log.Printf("API %s listening on %s (solver=%s)", buildinfo.Version, srv.Addr, cfg.Solver.Backend)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: config port)")
	return cmd
}
