// Command demo sends one simulated chat completion through the monitored
// client and prints the response.
package main

import (
	"context"
	"fmt"

	"llmmonitor/internal/core"
	logpkg "llmmonitor/internal/log"
	"llmmonitor/internal/openai"
	"llmmonitor/internal/util"

	"github.com/joho/godotenv"
)

func main() {
	dotenvErr := godotenv.Load()

	logger := logpkg.CreateLogger()
	defer func() {
		if appLog, ok := logger.(*logpkg.AppLogger); ok {
			_ = appLog.Close()
		}
	}()

	if dotenvErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	client, err := openai.NewClient(openai.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to create client: %v", err)
	}
	defer func() { _ = client.Close() }()

	temperature := 0.7
	maxTokens := 150
	resp, err := client.Chat.Completions.Create(context.Background(), core.ChatCompletionRequest{
		Model: "gpt-4",
		Messages: []core.ChatMessage{
			{Role: core.RoleSystem, Content: "You are a helpful assistant."},
			{Role: core.RoleUser, Content: "Hello, how are you today?"},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		logger.Fatal("Chat completion failed: %v", err)
	}

	out, err := util.MarshalIndentJSON(resp)
	if err != nil {
		logger.Fatal("Failed to encode response: %v", err)
	}
	fmt.Println(string(out))
}
