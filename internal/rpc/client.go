package rpc

import (
	"context"

	"github.com/xtding233/craft-odds/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls OddsService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Calculate ranks the contexts able to satisfy req.
func (c *Client) Calculate(ctx context.Context, req service.Request, opts ...grpc.CallOption) (service.Response, error) {
	in, err := toStruct(req)
	if err != nil {
		return service.Response{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodCalculate, in, out, opts...); err != nil {
		return service.Response{}, err
	}
	var resp service.Response
	if err := fromStruct(out, &resp); err != nil {
		return service.Response{}, err
	}
	return resp, nil
}

// ListOptions returns every selectable option.
func (c *Client) ListOptions(ctx context.Context, opts ...grpc.CallOption) ([]string, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodListOptions, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	var resp optionsResponse
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return resp.Options, nil
}

// ListLevels returns the level thresholds known for option.
func (c *Client) ListLevels(ctx context.Context, option string, opts ...grpc.CallOption) ([]string, error) {
	in, err := toStruct(levelsRequest{Option: option})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodListLevels, in, out, opts...); err != nil {
		return nil, err
	}
	var resp levelsResponse
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return resp.Levels, nil
}
