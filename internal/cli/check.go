package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/claimwise/claimwise/internal/factcheck"
	"github.com/claimwise/claimwise/internal/model"
)

var (
	checkFile     string
	checkTimeout  time.Duration
	checkPretty   bool
	llmProvider   string
	llmModel      string
	searchSteps   int
	checkWorkers  int
	noSearchCache bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Fact-check a block of text",
	Long: `Check extracts the factual claims from the given text, verifies each
one with a web-search agent, and prints one verification record per
claim as JSON.

Example:
  claimwise check "The Eiffel Tower is in Berlin."
  claimwise check --file notes.txt
  claimwise check --provider ollama --model llama3.1 "..."`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFile, "file", "", "read input text from a file instead of the argument")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&checkPretty, "pretty", true, "pretty-print the JSON output")
	checkCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name")
	checkCmd.Flags().IntVar(&searchSteps, "max-steps", 3, "search agent tool budget per claim")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", factcheck.DefaultMaxCheckers, "max concurrent claim checks")
	checkCmd.Flags().BoolVar(&noSearchCache, "no-cache", false, "disable search result caching")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := checkInput(args)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	pipeline, err := factcheck.BuildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking %d bytes of input...\n", len(text))
	}

	records, err := pipeline.CheckText(ctx, text)
	if err != nil {
		return fmt.Errorf("fact check failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checked %d claims\n", len(records))
	}

	enc := json.NewEncoder(os.Stdout)
	if checkPretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(records)
}

func checkInput(args []string) (string, error) {
	if checkFile != "" {
		data, err := os.ReadFile(checkFile)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("provide text as an argument or use --file")
	}
	return args[0], nil
}

// buildConfig resolves configuration in precedence order: explicit
// flags, then CLAIMWISE_* env vars and the config file via viper, then
// defaults. API keys come from dedicated env vars or the config file.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()

	// Config file and environment
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetString("llm.api_key"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := viper.GetInt("search.max_steps"); v > 0 {
		cfg.Search.MaxSteps = v
	}
	if v := viper.GetInt("concurrency.max_checkers"); v > 0 {
		cfg.Concurrency.MaxCheckers = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("http.addr"); v != "" {
		cfg.HTTP.Addr = v
	}

	// Explicitly set flags win
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("max-steps") {
		cfg.Search.MaxSteps = searchSteps
	}
	if flags.Changed("workers") {
		cfg.Concurrency.MaxCheckers = checkWorkers
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noSearchCache
	}
	cfg.Output.Verbose = verbose

	switch cfg.LLM.Provider {
	case "openai", "":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		}
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}
