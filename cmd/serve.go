package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ppp-cli/internal/loan"
	"github.com/sells-group/ppp-cli/internal/query"
	"github.com/sells-group/ppp-cli/internal/source"
)

var servePort int

const defaultLoanLimit = 100

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve PPP loan queries over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ds, err := loadDataset(ctx, cfg, false)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(ds, cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Int("loans", len(ds.Records)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildRouter exposes the in-memory dataset. ds is only read.
func buildRouter(ds *source.Dataset, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Get("/loans", func(w http.ResponseWriter, r *http.Request) {
		results, err := filterRequest(ds, r)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, err)
			return
		}

		limit, err := intParam(r, "limit", defaultLoanLimit)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, err)
			return
		}
		page := results
		if limit >= 0 && len(page) > limit {
			page = page[:limit]
		}

		render.JSON(w, r, map[string]any{
			"count":       len(results),
			"total_value": query.TotalValue(results),
			"loans":       page,
		})
	})

	r.Get("/naics/{code}", func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		_, known := ds.Codes.Lookup(code)
		render.JSON(w, r, map[string]any{
			"code":  code,
			"title": ds.Codes.Label(code),
			"known": known,
		})
	})

	r.Get("/report", func(w http.ResponseWriter, r *http.Request) {
		results, err := filterRequest(ds, r)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, err)
			return
		}

		fieldName := r.URL.Query().Get("field")
		if fieldName == "" {
			fieldName = loan.FieldNAICSCode.String()
		}
		field, err := loan.ParseField(fieldName)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, err)
			return
		}
		top, err := intParam(r, "top", 20)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, err)
			return
		}

		render.JSON(w, r, map[string]any{
			"count":       len(results),
			"total_value": query.TotalValue(results),
			"field":       field.String(),
			"top":         query.TopFrequencies(results, field, top),
		})
	})

	return r
}

// Query parameters that are not record fields.
var reservedParams = map[string]bool{"limit": true, "field": true, "top": true}

// filterRequest applies one filter pass per field named in the query string.
func filterRequest(ds *source.Dataset, r *http.Request) ([]loan.Record, error) {
	var steps []query.Step
	for key, values := range r.URL.Query() {
		if reservedParams[key] {
			continue
		}
		field, err := loan.ParseField(key)
		if err != nil {
			return nil, err
		}
		if terms := query.SplitTerms(values); len(terms) > 0 {
			steps = append(steps, query.Step{Field: field, Terms: terms})
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Field < steps[j].Field })

	return query.Plan{Steps: steps}.Apply(ds.Records), nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}

func renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
