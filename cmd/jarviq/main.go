package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/astralwake/jarviq/pkg/capability"
	"github.com/astralwake/jarviq/pkg/config"
	"github.com/astralwake/jarviq/pkg/gateway"
	"github.com/astralwake/jarviq/pkg/orchestrator"
	"github.com/astralwake/jarviq/pkg/router"
	"github.com/astralwake/jarviq/pkg/splitter"
)

var (
	debugFlag    bool
	providerFlag string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jarviq",
		Short: "Personal-assistant intent router and agent dispatcher",
		Long: `Jarviq routes natural-language requests to specialized capabilities
	(vision, memory, personal tasks, software, browser, sensors) using an
	LLM classifier with caching, deduplication, and rate limiting.`,
	}

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "classifier provider (anthropic, openai, google, mock)")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(capabilitiesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var images []string
	var audio string
	var showStats bool

	cmd := &cobra.Command{
		Use:   "ask [text]",
		Short: "Route a request end to end and print the merged result",
		Long: `Splits the request into atomic tasks, routes each to its best-fit
	capability, and prints the merged result. Attach images or audio to run
	the vision capability in parallel with the routed one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			gw, err := buildGateway(cfg)
			if err != nil {
				return err
			}

			r, err := router.New(gw, capability.Defaults(), cfg.Router, router.WithLogger(logger))
			if err != nil {
				return err
			}

			registry := capability.NewRegistry()
			if err := registerDemoHandlers(registry); err != nil {
				return err
			}

			opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
			if cfg.TraceDir != "" {
				opts = append(opts, orchestrator.WithTraceDir(cfg.TraceDir))
			}
			machine := orchestrator.New(r, registry, splitter.New(gw, splitter.WithLogger(logger)), opts...)

			result := machine.Run(context.Background(), orchestrator.Request{
				Input:  args[0],
				Images: images,
				Audio:  audio,
			})

			fmt.Println(result.Response)

			if showStats {
				printMetrics(r.Metrics())
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&images, "image", nil, "image path or URL to analyze alongside the request")
	cmd.Flags().StringVar(&audio, "audio", "", "audio payload reference")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print router metrics after the run")
	return cmd
}

func routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route [text]",
		Short: "Classify a request and print the routing decision as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			gw, err := buildGateway(cfg)
			if err != nil {
				return err
			}

			r, err := router.New(gw, capability.Defaults(), cfg.Router, router.WithLogger(logger))
			if err != nil {
				return err
			}

			decision, err := r.Route(context.Background(), args[0])
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(decision, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split [text]",
		Short: "Decompose a compound request into atomic tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			gw, err := buildGateway(cfg)
			if err != nil {
				return err
			}

			tasks := splitter.New(gw, splitter.WithLogger(logger)).Split(context.Background(), args[0])
			for i, task := range tasks {
				fmt.Printf("%d. %s\n", i+1, task)
			}
			return nil
		},
	}
}

func capabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "List the configured capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION\tKEYWORDS")
			for _, d := range capability.Defaults() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Description, strings.Join(d.Keywords, ", "))
			}
			return w.Flush()
		},
	}
}

// buildGateway selects the classifier gateway from the --provider flag or
// config, falling back to the mock gateway when no provider is usable.
func buildGateway(cfg *config.Config) (gateway.Gateway, error) {
	provider := providerFlag
	if provider == "" {
		provider = cfg.ClassifierProvider
	}
	if provider == "" {
		for _, candidate := range []string{"anthropic", "openai", "google"} {
			if cfg.HasProvider(candidate) {
				provider = candidate
				break
			}
		}
	}
	if provider == "" {
		provider = "mock"
	}

	switch provider {
	case "anthropic":
		return gateway.NewAnthropicGateway(cfg.AnthropicAPIKey, cfg.ClassifierModel)
	case "openai":
		return gateway.NewOpenAIGateway(cfg.OpenAIAPIKey, cfg.ClassifierModel)
	case "google":
		return gateway.NewGoogleGateway(cfg.GoogleAPIKey, cfg.ClassifierModel)
	case "mock":
		return gateway.NewMockGateway(), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", provider)
	}
}

// registerDemoHandlers wires a stand-in handler for every built-in
// capability so the CLI works end to end without real integrations.
func registerDemoHandlers(registry *capability.Registry) error {
	for _, d := range capability.Defaults() {
		name := d.Name
		handler := capability.HandlerFunc(func(_ context.Context, input string, extra map[string]string) (string, error) {
			if len(extra) > 0 {
				return fmt.Sprintf("[%s] %s (media: %v)", name, input, extra), nil
			}
			return fmt.Sprintf("[%s] %s", name, input), nil
		})
		if err := registry.Register(name, handler); err != nil {
			return err
		}
	}
	return nil
}

func printMetrics(m router.Metrics) {
	fmt.Fprintf(os.Stderr, "\nrequests=%d errors=%d cache_hits=%d rpm=%.1f\n",
		m.TotalRequests, m.Errors, m.CacheHits, m.RequestsPerMinute)
	for name, count := range m.PerCapability {
		fmt.Fprintf(os.Stderr, "  %s=%d\n", name, count)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if debugFlag {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
