package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimwise/claimwise/internal/factcheck"
	"github.com/claimwise/claimwise/internal/server"
	"github.com/claimwise/claimwise/internal/speech"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the claimwise HTTP API",
	Long: `Serve exposes the fact-checking pipeline over HTTP:

  POST /api/chat                   {"input_text": "..."}
  POST /api/speech/process-audio/  multipart audio upload

The speech endpoint is enabled when HF_API_KEY is set.

Example:
  claimwise serve --addr :8000
  claimwise serve --provider ollama --model llama3.1`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	serveCmd.Flags().IntVar(&searchSteps, "max-steps", 3, "search agent tool budget per claim")
	serveCmd.Flags().IntVar(&checkWorkers, "workers", factcheck.DefaultMaxCheckers, "max concurrent claim checks per request")
	serveCmd.Flags().BoolVar(&noSearchCache, "no-cache", false, "disable search result caching")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.HTTP.Addr = serveAddr
	}

	pipeline, err := factcheck.BuildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	// Speech-to-text is optional; enabled only when a key is present
	var transcriber server.Transcriber
	if apiKey := os.Getenv("HF_API_KEY"); apiKey != "" {
		cfg.Speech.APIKey = apiKey
		t, err := speech.NewTranscriber(cfg.Speech)
		if err != nil {
			return fmt.Errorf("create transcriber: %w", err)
		}
		transcriber = t
	} else if verbose {
		fmt.Fprintln(os.Stderr, "HF_API_KEY not set, speech endpoint disabled")
	}

	srv := server.New(pipeline, transcriber, cfg.HTTP, verbose)

	fmt.Fprintf(os.Stderr, "claimwise listening on %s\n", cfg.HTTP.Addr)
	return srv.ListenAndServe()
}
