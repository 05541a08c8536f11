package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"aspectstudio/internal/codec"
	"aspectstudio/internal/config"
	"aspectstudio/internal/domain"
	"aspectstudio/internal/handler"
	"aspectstudio/internal/hub"
	"aspectstudio/internal/namespace"
	"aspectstudio/internal/rdf"
	"aspectstudio/internal/repository/sqlite"
	"aspectstudio/internal/service"
	"aspectstudio/internal/visual"
	"aspectstudio/internal/watcher"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "aspectstudio",
		Short:        "Graphical editor for aspect models",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newExportCmd())
	root.AddCommand(newValidateCmd(&configPath))
	return root
}

func loadConfig(configPath string) (*config.Config, error) {
	var cfg *config.Config
	var path string
	var err error
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Printf("Config loaded from %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the editor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}

func serve(cfg *config.Config) error {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting aspect model editor server...")

	domain.SetActiveNamespace(cfg.Editor.Namespace, cfg.Editor.NamespaceVersion)

	// Persistence
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Event plumbing
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	go sseHub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sseHub.Bridge(ctx, eventBus)

	// Editor service with the configured layout and starter model
	editor := service.NewEditorService(visual.LayoutByName(cfg.Editor.Layout), eventBus)
	if err := editor.NewDefaultModel(); err != nil {
		return fmt.Errorf("failed to build default model: %w", err)
	}
	if cfg.Editor.Collapsed {
		editor.SetCollapsed(true, "")
	}

	var validation *service.ValidationService
	if cfg.Validator.Endpoint != "" {
		validation = service.NewValidationService(editor, cfg.Validator.Endpoint)
		log.Printf("Validator endpoint: %s", cfg.Validator.Endpoint)
	}

	editorHandler := handler.NewEditorHandler(editor, validation)
	editorHandler.SetRepository(repo)

	// Workspace scanning plus change notifications
	if cfg.Workspace.Dir != "" {
		resolver := namespace.NewResolver(cfg.Workspace.Dir)
		editorHandler.SetResolver(resolver)

		w := watcher.New(cfg.Workspace.Dir, cfg.Workspace.WatchExt, func(path string) {
			log.Printf("Workspace file changed: %s", path)
			resolver.Invalidate(path)
			eventBus.Publish(service.Event{
				Type:    service.EventNamespacesChanged,
				Payload: map[string]string{"path": path},
			})
		})
		go func() {
			if err := w.Watch(ctx); err != nil {
				log.Printf("Workspace watcher stopped: %v", err)
			}
		}()
		log.Printf("Watching workspace: %s", cfg.Workspace.Dir)
	}

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/graph", editorHandler.GetGraph)
	mux.HandleFunc("POST /api/elements", editorHandler.CreateElement)
	mux.HandleFunc("PATCH /api/elements/{urn}", editorHandler.RenameElement)
	mux.HandleFunc("DELETE /api/elements/{urn}", editorHandler.DeleteElement)

	mux.HandleFunc("POST /api/connect", editorHandler.Connect)
	mux.HandleFunc("POST /api/overlay", editorHandler.TriggerOverlay)
	mux.HandleFunc("POST /api/render", editorHandler.RenderElement)
	mux.HandleFunc("POST /api/cells/delete", editorHandler.DeleteCells)

	mux.HandleFunc("GET /api/positions", editorHandler.GetPositions)
	mux.HandleFunc("PUT /api/positions", editorHandler.SavePositions)
	mux.HandleFunc("POST /api/collapse", editorHandler.SetCollapsed)
	mux.HandleFunc("POST /api/format", editorHandler.Format)

	mux.HandleFunc("GET /api/model", editorHandler.ExportModel)
	mux.HandleFunc("PUT /api/model", editorHandler.ImportModel)
	mux.HandleFunc("POST /api/model/new", editorHandler.NewModel)
	mux.HandleFunc("GET /api/model/files", editorHandler.ListModelFiles)
	mux.HandleFunc("POST /api/model/files", editorHandler.SaveModelFile)
	mux.HandleFunc("GET /api/model/files/{namespace}/{version}/{name}", editorHandler.OpenModelFile)
	mux.HandleFunc("DELETE /api/model/files/{namespace}/{version}/{name}", editorHandler.DeleteModelFile)

	mux.HandleFunc("POST /api/validate", editorHandler.Validate)
	mux.HandleFunc("DELETE /api/validate", editorHandler.CancelValidation)
	mux.HandleFunc("GET /api/namespaces", editorHandler.ListNamespaces)
	mux.HandleFunc("POST /api/namespaces/resolve", editorHandler.ResolveNamespace)

	// SSE events endpoint
	mux.Handle("GET /events", sseHub)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

func newExportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export <model.ttl>",
		Short: "Re-export a Turtle model in another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read model: %w", err)
			}
			store, err := rdf.Parse(data)
			if err != nil {
				return fmt.Errorf("parse model: %w", err)
			}

			exporter := codec.ByFormat(format)
			if exporter == nil {
				return fmt.Errorf("unknown format %q", format)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return exporter.Export(store, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: ttl, json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newValidateCmd(configPath *string) *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "validate <model.ttl>",
		Short: "Validate a Turtle model against the validation service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if endpoint == "" {
				cfg, err := loadConfig(*configPath)
				if err != nil {
					return err
				}
				endpoint = cfg.Validator.Endpoint
			}
			if endpoint == "" {
				return fmt.Errorf("no validator endpoint configured")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read model: %w", err)
			}
			// Parse locally first so syntax errors never reach the wire.
			if _, err := rdf.Parse(data); err != nil {
				return fmt.Errorf("parse model: %w", err)
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
				endpoint, strings.NewReader(string(data)))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "text/turtle")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("validation request: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("validator returned %s", resp.Status)
			}

			var violations []service.Violation
			if err := json.NewDecoder(resp.Body).Decode(&violations); err != nil {
				return fmt.Errorf("decode violations: %w", err)
			}

			if len(violations) == 0 {
				fmt.Println("Model is valid.")
				return nil
			}
			for _, v := range violations {
				fmt.Printf("%s: %s\n", v.URN, v.Message)
			}
			return fmt.Errorf("%d violations found", len(violations))
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "validator endpoint (overrides config)")
	return cmd
}
