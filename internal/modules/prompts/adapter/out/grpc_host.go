package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"mindfocus/internal/modules/prompts/adapter/out/rpc"
	"mindfocus/internal/modules/prompts/domain"
	promptsout "mindfocus/internal/modules/prompts/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches provider binaries with go-plugin for the duration of a
// single call.
type GRPCHost struct {
	logger hclog.Logger
}

func NewGRPCHost(logger hclog.Logger) promptsout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) FetchBank(ctx context.Context, manifest domain.Manifest, subject string) (domain.Bank, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Bank{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	resp, err := client.FetchBank(callCtx, &rpc.BankRequest{Subject: subject})
	if err != nil {
		return domain.Bank{}, fmt.Errorf("fetch bank: %w", err)
	}
	return fromResponse(resp), nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (rpc.PromptProviderClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider %s: %w", manifest.Name, err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider %s: %w", manifest.Name, err)
	}
	typed, ok := raw.(rpc.PromptProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func fromResponse(resp *rpc.BankResponse) domain.Bank {
	bank := domain.Bank{BreakReminders: resp.BreakReminders}
	for _, f := range resp.Facts {
		bank.Facts = append(bank.Facts, domain.Fact{Kind: domain.Consumable(f.Kind), Helpful: f.Helpful, Text: f.Text})
	}
	for _, c := range resp.Categories {
		bank.Categories = append(bank.Categories, domain.QuizCategory{Name: c.Name, Keywords: c.Keywords, Questions: fromQuestions(c.Questions)})
	}
	bank.Default = fromQuestions(resp.Default)
	return bank
}

func fromQuestions(in []rpc.QuizQuestion) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, 0, len(in))
	for _, q := range in {
		out = append(out, domain.QuizQuestion{Question: q.Question, Rationale: q.Rationale})
	}
	return out
}
