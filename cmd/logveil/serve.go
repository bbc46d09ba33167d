package logveil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/logveil/logveil/internal/config"
	"github.com/logveil/logveil/internal/profiles"
	"github.com/logveil/logveil/internal/serve"
	"github.com/spf13/cobra"
)

func init() {
	var addr, profilesDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sanitization HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				if c, err := config.LoadGlobal(); err == nil && c.ServeAddr != nil {
					addr = *c.ServeAddr
				}
			}
			if addr == "" {
				addr = "127.0.0.1:8787"
			}

			manager := profiles.NewManager()
			if profilesDir != "" {
				if err := manager.LoadDir(profilesDir); err != nil {
					return fmt.Errorf("load profiles: %w", err)
				}
			}

			log := logger().Named("serve")
			mux := http.NewServeMux()
			serve.New(manager, log).Register(mux)

			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
			}
			go func() {
				<-cmd.Context().Done()
				_ = srv.Close()
			}()
			log.Info("listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default 127.0.0.1:8787)")
	cmd.Flags().StringVar(&profilesDir, "profiles-dir", "", "load additional profiles from this directory")
	rootCmd.AddCommand(cmd)
}
