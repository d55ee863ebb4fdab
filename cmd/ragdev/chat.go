package ragdev

import (
	"cmp"
	"context"
	"log"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ShenSeanChen/yt-agentic-rag/pkg/api"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/chat"
	"github.com/ShenSeanChen/yt-agentic-rag/pkg/metrics"
)

var chatMetricsAddr string

var chatCmd = &cobra.Command{
	Use:   "chat [baseURL]",
	Short: "Chat with the RAG service from the terminal",
	Long: `Starts an interactive chat session against the service's agent endpoint.
Slash commands: /help, /seed, /health, /stats, /quit.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address for the session (disabled when empty)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger := newLogger()
	defer logger.Sync()

	baseURL := cfg.API.BaseURL
	if len(args) > 0 {
		baseURL = args[0]
	}

	apiClient, err := api.NewClient(baseURL, logger)
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}
	apiClient.TopK = cfg.API.TopK

	var wg sync.WaitGroup
	if addr := cmp.Or(chatMetricsAddr, cfg.Chat.MetricsAddr); addr != "" {
		metrics.StartPrometheusServer(ctx, &wg, &metrics.PromServerOpts{Addr: addr})
	}

	session := chat.NewSession(apiClient, os.Stdin, os.Stdout, logger)
	runErr := session.Run(ctx)

	cancel()
	wg.Wait()

	if runErr != nil {
		log.Fatalf("Chat session error: %v", runErr)
	}
}
