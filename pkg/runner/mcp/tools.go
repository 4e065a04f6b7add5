package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/widgets/pkg/catalog"
	"tableflip.dev/widgets/pkg/widget"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(listWidgetsTool(), listWidgetsHandler(svc))
	srv.AddTool(renderWidgetTool(), renderWidgetHandler(svc))
	srv.AddTool(dispatchActionTool(), dispatchActionHandler(svc))
}

func listWidgetsTool() mcp.Tool {
	return mcp.NewTool(
		"list_widgets",
		mcp.WithDescription("List every widget with its title, item count and accepted actions."),
	)
}

func listWidgetsHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		widgets, err := svc.ListWidgets(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"widgets": widgets,
			"count":   len(widgets),
		})
	}
}

func renderWidgetTool() mcp.Tool {
	return mcp.NewTool(
		"render_widget",
		mcp.WithDescription("Render the current view of a widget."),
		mcp.WithString("widget",
			mcp.Required(),
			mcp.Description("Widget name."),
			mcp.Enum(catalog.Names()...),
		),
		mcp.WithString("query",
			mcp.Description("Optional search text; matching rows are kept."),
		),
		mcp.WithBoolean("markup",
			mcp.Description("Include the popup HTML markup."),
		),
	)
}

func renderWidgetHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Widget string `json:"widget"`
			Query  string `json:"query"`
			Markup bool   `json:"markup"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		out, err := svc.Render(ctx, args.Widget, args.Query, args.Markup)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(out)
	}
}

func dispatchActionTool() mcp.Tool {
	return mcp.NewTool(
		"dispatch_action",
		mcp.WithDescription("Apply an action to a widget. Use list_widgets to see which actions take an id, text or value."),
		mcp.WithString("widget",
			mcp.Required(),
			mcp.Description("Widget name."),
			mcp.Enum(catalog.Names()...),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Action type such as add, toggle or delete."),
		),
		mcp.WithString("id",
			mcp.Description("Row identifier for row actions."),
		),
		mcp.WithString("text",
			mcp.Description("Free text argument."),
		),
		mcp.WithString("value",
			mcp.Description("Numeric or duration argument."),
		),
	)
}

func dispatchActionHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Widget string `json:"widget"`
			widget.Action
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		out, err := svc.Dispatch(ctx, args.Widget, args.Action)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if out.Result.Rejected {
			return mcp.NewToolResultError("rejected: " + out.Result.Feedback), nil
		}
		return toJSONResult(out)
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
