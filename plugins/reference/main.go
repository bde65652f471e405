package main

import (
	"context"
	"strings"

	"mindfocus/internal/modules/prompts/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *rpc.Empty) (*rpc.Metadata, error) {
	return &rpc.Metadata{
		Name:         "reference",
		Version:      "1.0.0",
		Capabilities: []string{"reminders", "facts", "quiz"},
	}, nil
}

func (s *server) FetchBank(_ context.Context, in *rpc.BankRequest) (*rpc.BankResponse, error) {
	resp := &rpc.BankResponse{
		BreakReminders: []string{
			"Break time! Roll your shoulders and unclench your jaw. Tension builds up without you noticing.",
		},
		Facts: []rpc.Fact{
			{Kind: "snack", Helpful: true, Text: "Dark chocolate in small amounts contains flavonoids linked to better attention."},
		},
		Categories: []rpc.QuizCategory{{
			Name:     "programming",
			Keywords: []string{"programming", "coding", "golang", "algorithm"},
			Questions: []rpc.QuizQuestion{
				{Question: "Can you trace the last function you read line by line?", Rationale: "Mental execution builds accurate program models"},
				{Question: "What input would break the code you just studied?", Rationale: "Hunting edge cases deepens understanding"},
				{Question: "Explain the data structure you used to a rubber duck.", Rationale: "Self-explanation reveals gaps"},
				{Question: "How would you test this without running it?", Rationale: "Reasoning about behaviour strengthens recall"},
			},
		}},
	}
	if strings.Contains(strings.ToLower(in.Subject), "exam") {
		resp.Default = []rpc.QuizQuestion{
			{Question: "Which topic on the exam worries you most right now?", Rationale: "Naming weak spots focuses the remaining time"},
		}
	}
	return resp, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
