package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerCatalogResource(srv, svc)
	registerWidgetTemplate(srv, svc)
}

func registerCatalogResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"widgets://catalog",
		"Widgets",
		mcp.WithResourceDescription("Every widget with item counts and actions."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		widgets, err := svc.ListWidgets(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"widgets": widgets,
			"count":   len(widgets),
		})
	})
}

func registerWidgetTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"widgets://w/{name}",
		"Widget View",
		mcp.WithTemplateDescription("The current view of one widget."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := argument(request.Params.Arguments, "name")
		if name == "" {
			return nil, fmt.Errorf("widget name is required")
		}
		out, err := svc.Render(ctx, name, "", false)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, out.View)
	})
}

// argument reads a template variable, which mcp-go may hand over as a string
// or a single-element slice.
func argument(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
