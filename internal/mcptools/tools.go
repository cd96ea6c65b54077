// Package mcptools exposes the odds service as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/xtding233/craft-odds/internal/craft"
	"github.com/xtding233/craft-odds/internal/service"
)

const serverName = "craft-odds"

// OddsInput is the craft_odds tool input.
type OddsInput struct {
	Selections []SelectionInput `json:"selections" jsonschema:"wanted options, each with the minimum level to roll; at most 3"`
	Ranks      []string         `json:"ranks,omitempty" jsonschema:"ranks to show; empty means the default visible ranks"`
	AllRanks   bool             `json:"all_ranks,omitempty" jsonschema:"show every rank"`
}

// SelectionInput is one wanted option. Level may be a number or a numeric
// string.
type SelectionInput struct {
	Option string `json:"option" jsonschema:"option name as returned by list_options"`
	Level  any    `json:"level" jsonschema:"minimum level as a number or a numeric string"`
}

func toSelections(in []SelectionInput) ([]craft.Selection, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var sels []craft.Selection
	if err := json.Unmarshal(b, &sels); err != nil {
		return nil, err
	}
	return sels, nil
}

// OddsRow is one ranked crafting context.
type OddsRow struct {
	Tool            string  `json:"tool"`
	SlotType        string  `json:"slot_type"`
	Race            string  `json:"race"`
	Rank            string  `json:"rank"`
	Probability     float64 `json:"probability"`
	ExpectedTries   float64 `json:"expected_tries"`
	ProbabilityText string  `json:"probability_text"`
	TriesText       string  `json:"tries_text"`
	ExpectedCost    *int    `json:"expected_cost,omitempty"`
	Currency        string  `json:"currency,omitempty"`
}

// OddsResult is the craft_odds tool output.
type OddsResult struct {
	Version string    `json:"version"`
	Rows    []OddsRow `json:"rows"`
}

// ListOptionsInput is the list_options tool input.
type ListOptionsInput struct{}

// ListOptionsResult is the list_options tool output.
type ListOptionsResult struct {
	Options []string `json:"options"`
}

// ListLevelsInput is the list_levels tool input.
type ListLevelsInput struct {
	Option string `json:"option" jsonschema:"option name as returned by list_options"`
}

// ListLevelsResult is the list_levels tool output.
type ListLevelsResult struct {
	Option string   `json:"option"`
	Levels []string `json:"levels"`
}

func OddsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "craft_odds",
		Description: "Ranks every tool, slot type, race and rank by the expected number of crafts needed to roll the wanted options",
	}
}

func ListOptionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_options",
		Description: "Lists every option any crafting tool can roll",
	}
}

func ListLevelsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_levels",
		Description: "Lists the minimum levels that can be asked for an option",
	}
}

// OddsHandler runs a craft_odds query.
func OddsHandler(odds *service.Odds) mcp.ToolHandlerFor[OddsInput, OddsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in OddsInput) (*mcp.CallToolResult, OddsResult, error) {
		sels, err := toSelections(in.Selections)
		if err != nil {
			return nil, OddsResult{}, fmt.Errorf("craft odds: bad selections: %w", err)
		}
		resp, err := odds.Calculate(ctx, service.Request{
			Selections: sels,
			Ranks:      in.Ranks,
			AllRanks:   in.AllRanks,
		})
		if err != nil {
			return nil, OddsResult{}, fmt.Errorf("craft odds: %w", err)
		}
		out := OddsResult{Version: resp.Version, Rows: make([]OddsRow, 0, len(resp.Rows))}
		for _, r := range resp.Rows {
			out.Rows = append(out.Rows, OddsRow{
				Tool:            r.Tool,
				SlotType:        r.SlotType,
				Race:            r.Race,
				Rank:            r.Rank,
				Probability:     r.Probability,
				ExpectedTries:   r.ExpectedTries,
				ProbabilityText: r.ProbabilityText,
				TriesText:       r.TriesText,
				ExpectedCost:    r.ExpectedCost,
				Currency:        r.Currency,
			})
		}
		return nil, out, nil
	}
}

// ListOptionsHandler lists selectable options.
func ListOptionsHandler(odds *service.Odds) mcp.ToolHandlerFor[ListOptionsInput, ListOptionsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListOptionsInput) (*mcp.CallToolResult, ListOptionsResult, error) {
		opts, err := odds.ListOptions(ctx)
		if err != nil {
			return nil, ListOptionsResult{}, fmt.Errorf("list options: %w", err)
		}
		if opts == nil {
			opts = []string{}
		}
		return nil, ListOptionsResult{Options: opts}, nil
	}
}

// ListLevelsHandler lists the levels known for one option.
func ListLevelsHandler(odds *service.Odds) mcp.ToolHandlerFor[ListLevelsInput, ListLevelsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ListLevelsInput) (*mcp.CallToolResult, ListLevelsResult, error) {
		option := strings.TrimSpace(in.Option)
		if option == "" {
			return nil, ListLevelsResult{}, fmt.Errorf("option is required")
		}
		levels, err := odds.ListLevels(ctx, option)
		if err != nil {
			return nil, ListLevelsResult{}, fmt.Errorf("list levels: %w", err)
		}
		if levels == nil {
			levels = []string{}
		}
		return nil, ListLevelsResult{Option: option, Levels: levels}, nil
	}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(odds *service.Odds, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	mcp.AddTool(server, OddsTool(), OddsHandler(odds))
	mcp.AddTool(server, ListOptionsTool(), ListOptionsHandler(odds))
	mcp.AddTool(server, ListLevelsTool(), ListLevelsHandler(odds))
	return server
}

// Serve runs server on t until ctx ends or the client disconnects.
func Serve(ctx context.Context, server *mcp.Server, t mcp.Transport, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mcp server running", "name", serverName)
	if err := server.Run(ctx, t); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve mcp: %w", err)
	}
	return nil
}
