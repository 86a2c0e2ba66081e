// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-mentor/internal/agent"
	"github.com/pdiddy/research-mentor/internal/provider"
)

const chatSystemPrompt = `You are a research assistant with access to academic paper search.
Use the search_papers tool to look up literature before answering questions
about published work. Cite paper titles when you rely on them.`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive assistant with academic search",
	Long: `Chat starts an interactive session with an LLM that can search the
registered academic providers through tool calls. Type a question and the
assistant decides when to search. Exit with "quit" or Ctrl-D.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("model", "", "chat model override")
	chatCmd.Flags().Int("limit", 0, "maximum results per provider")
	chatCmd.Flags().Int("from-year", 0, "skip papers published before this year")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	client, err := newLLMClient(cmd)
	if err != nil {
		return err
	}

	cfg := providerConfig(cmd)
	registry := buildRegistry(cfg)

	tools := agent.NewRegistry()
	tools.Register(&agent.SearchTool{
		Registry: registry,
		Opts: provider.SearchOptions{
			Limit:    cfg.LimitPerProvider,
			FromYear: cfg.FromYear,
		},
	})

	a := agent.New(client, tools, chatSystemPrompt, log)
	ctx := context.Background()

	fmt.Printf("research-mentor chat (%s). Type a question, or \"quit\" to exit.\n", client.Model())
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			return nil
		}

		reply, err := a.Chat(ctx, input)
		if err != nil {
			return err
		}
		fmt.Println(reply)
		fmt.Println()
	}
}
