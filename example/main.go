package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm/hxview"
	"github.com/pthm/hxview/example/components"
	"github.com/pthm/hxview/lib/config"
	"github.com/pthm/hxview/lib/fragment"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// HXVIEW_CONFIG may point at a YAML or JSONC file
	cfg, err := config.LoadFromEnvironment()
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}
	hxview.Configure(cfg)

	metrics := prometheus.NewRegistry()
	fragments, err := fragment.NewFromConfig(cfg.Fragments, metrics, logger)
	if err != nil {
		logger.Error("creating fragment store", "error", err)
		os.Exit(1)
	}

	store := NewStore()
	components.Init(store, fragments)

	for _, k := range []*hxview.Class{components.Index, components.TodoList} {
		key, err := k.CacheKey()
		if err != nil {
			logger.Error("component dependencies", "class", k.FullName(), "error", err)
			os.Exit(1)
		}
		logger.Info("component", "class", k.FullName(), "key", key.Short())
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", hxview.Handler(func(r *http.Request) *hxview.Component {
		return components.Index.New(hxview.Attrs{"status": r.URL.Query().Get("status")})
	}))
	mux.HandleFunc("POST /todos/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
		if !store.Toggle(r.PathValue("id")) {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))

	addr := ":8080"
	fmt.Printf("Starting server at http://localhost%s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
