package ragdev

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/api"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the RAG service setup",
	Long: `Runs the six setup checks in order: service, environment, database,
schema, documents and a sample query. Every check runs even when an earlier
one fails. The exit code is non-zero when any check failed.`,
	Run: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := newLogger()
	defer logger.Sync()

	apiClient, err := api.NewClient(cfg.API.BaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}
	apiClient.TopK = cfg.API.TopK

	v := validate.New(*cfg, apiClient, logger)
	results := validate.Run(ctx, v.Checks())
	v.Close(ctx)

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s  %-12s %s\n", status, r.Name, r.Message)
	}

	if failed := validate.Failed(results); failed > 0 {
		fmt.Printf("%d of %d checks failed\n", failed, len(results))
		os.Exit(1)
	}
	fmt.Printf("all %d checks passed\n", len(results))
}
