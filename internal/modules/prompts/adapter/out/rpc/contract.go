package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "prompts"
	serviceName       = "mindfocus.prompts.v1.PromptProvider"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodFetchBank   = "/" + serviceName + "/FetchBank"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MINDFOCUS_PROVIDER",
	MagicCookieValue: "mindfocus",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type BankRequest struct {
	Subject string `json:"subject"`
}

type Fact struct {
	Kind    string `json:"kind"`
	Helpful bool   `json:"helpful"`
	Text    string `json:"text"`
}

type QuizQuestion struct {
	Question  string `json:"question"`
	Rationale string `json:"rationale"`
}

type QuizCategory struct {
	Name      string         `json:"name"`
	Keywords  []string       `json:"keywords"`
	Questions []QuizQuestion `json:"questions"`
}

type BankResponse struct {
	BreakReminders []string       `json:"break_reminders"`
	Facts          []Fact         `json:"facts"`
	Categories     []QuizCategory `json:"categories"`
	Default        []QuizQuestion `json:"default"`
}

type PromptProviderServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	FetchBank(ctx context.Context, in *BankRequest) (*BankResponse, error)
}

type PromptProviderClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	FetchBank(ctx context.Context, in *BankRequest) (*BankResponse, error)
}

type promptProviderClient struct {
	conn *grpc.ClientConn
}

func NewPromptProviderClient(conn *grpc.ClientConn) PromptProviderClient {
	return &promptProviderClient{conn: conn}
}

func (c *promptProviderClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *promptProviderClient) FetchBank(ctx context.Context, in *BankRequest) (*BankResponse, error) {
	out := &BankResponse{}
	if err := c.conn.Invoke(ctx, methodFetchBank, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterPromptProviderServer(server grpc.ServiceRegistrar, impl PromptProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*PromptProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "FetchBank",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &BankRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.FetchBank(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodFetchBank}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*BankRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.FetchBank(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/prompt-provider-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl PromptProviderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterPromptProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewPromptProviderClient(conn), nil
}

func PluginMap(impl PromptProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
