package ragdev

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/api"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the knowledge base",
	Long: `Triggers the service's seed endpoint. Without --file the server seeds its
default document set; with --file the given DocumentChunk JSON list is sent.`,
	Run: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "JSON file with documents to seed (defaults to the server's corpus)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := newLogger()
	defer logger.Sync()

	var docs []api.DocumentChunk
	if seedFile != "" {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &docs); err != nil {
			fmt.Printf("error: invalid document file: %v\n", err)
			os.Exit(1)
		}
		if len(docs) == 0 {
			fmt.Println("error: document file is empty")
			os.Exit(1)
		}
	}

	apiClient, err := api.NewClient(cfg.API.BaseURL, logger)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	resp, err := apiClient.Seed(ctx, docs)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d documents\n", resp.Seeded)
}
