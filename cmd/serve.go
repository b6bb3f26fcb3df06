package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capitolstream/hearings-cli/internal/report"
	"github.com/capitolstream/hearings-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the match report viewer and JSON API",
	Long:  "Serves the HTML viewer at / and the report document under /api. The report JSON is reloaded from disk per request, so a re-run of 'hearings match' shows up without a restart.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		reportPath := filepath.Join(cfg.Report.Dir, report.DefaultFilename)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, reportPath),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("report", reportPath),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(st store.Store, reportPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		doc, err := report.LoadJSON(reportPath)
		if err != nil {
			http.Error(w, "no report yet: run 'hearings match' first", http.StatusNotFound)
			return
		}
		page, err := report.RenderHTML(doc)
		if err != nil {
			zap.L().Error("serve: render viewer", zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/report", func(w http.ResponseWriter, req *http.Request) {
			doc, err := report.LoadJSON(reportPath)
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no report"})
				return
			}
			writeJSON(w, http.StatusOK, doc)
		})

		r.Get("/matches", func(w http.ResponseWriter, req *http.Request) {
			doc, err := report.LoadJSON(reportPath)
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no report"})
				return
			}
			writeJSON(w, http.StatusOK, doc.Matches)
		})

		r.Get("/unmatched", func(w http.ResponseWriter, req *http.Request) {
			doc, err := report.LoadJSON(reportPath)
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no report"})
				return
			}
			writeJSON(w, http.StatusOK, doc.Unmatched)
		})

		r.Get("/runs/latest", func(w http.ResponseWriter, req *http.Request) {
			run, err := st.LatestRun(req.Context())
			if err != nil {
				zap.L().Error("serve: latest run", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store error"})
				return
			}
			if run == nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no runs"})
				return
			}
			writeJSON(w, http.StatusOK, run)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
