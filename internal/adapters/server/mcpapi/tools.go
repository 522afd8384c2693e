package mcpapi

import (
	"context"
	"fmt"

	"github.com/hylla/gengantt/internal/adapters/server/common"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// filterParams are shared by list_tasks and chart_layout.
func filterParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("search", mcp.Description("Case-insensitive title substring")),
		mcp.WithString("category", mcp.Description("Exact category, Uncategorized, or All")),
		mcp.WithString("assignee", mcp.Description("Exact assignee, Unassigned, or All")),
	}
}

func listRequest(req mcp.CallToolRequest) common.ListTasksRequest {
	return common.ListTasksRequest{
		Search:   req.GetString("search", ""),
		Category: req.GetString("category", ""),
		Assignee: req.GetString("assignee", ""),
	}
}

// registerTaskTools registers list/save/delete/toggle tools.
func registerTaskTools(srv *mcpserver.MCPServer, tasks common.TaskService) {
	listOpts := append([]mcp.ToolOption{
		mcp.WithDescription("List tasks in chart order, optionally filtered."),
	}, filterParams()...)
	srv.AddTool(
		mcp.NewTool("gengantt.list_tasks", listOpts...),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rows, err := tasks.ListTasks(ctx, listRequest(req))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"tasks": rows,
			})
			if err != nil {
				return nil, fmt.Errorf("encode list_tasks result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"gengantt.save_task",
			mcp.WithDescription("Create a task (omit id) or update the task with the given id."),
			mcp.WithString("id", mcp.Description("Task id to update; omit to create")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("start_date", mcp.Required(), mcp.Description("Start date, YYYY-MM-DD")),
			mcp.WithString("end_date", mcp.Required(), mcp.Description("End date, YYYY-MM-DD, not before start")),
			mcp.WithNumber("progress", mcp.Description("Percent complete, 0-100"), mcp.Min(0), mcp.Max(100)),
			mcp.WithString("category", mcp.Description("Free-form category")),
			mcp.WithString("assignee", mcp.Description("Optional assignee")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			start, err := req.RequireString("start_date")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			end, err := req.RequireString("end_date")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			saved, err := tasks.SaveTask(ctx, common.SaveTaskRequest{
				ID:        req.GetString("id", ""),
				Title:     title,
				StartDate: start,
				EndDate:   end,
				Progress:  req.GetInt("progress", 0),
				Category:  req.GetString("category", ""),
				Assignee:  req.GetString("assignee", ""),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(saved)
			if err != nil {
				return nil, fmt.Errorf("encode save_task result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"gengantt.delete_task",
			mcp.WithDescription("Delete a task. Unknown ids succeed without change."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireString("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := tasks.DeleteTask(ctx, taskID); err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"deleted": taskID,
			})
			if err != nil {
				return nil, fmt.Errorf("encode delete_task result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"gengantt.toggle_complete",
			mcp.WithDescription("Flip a task between 0% and 100% complete."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireString("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			task, err := tasks.ToggleComplete(ctx, taskID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(task)
			if err != nil {
				return nil, fmt.Errorf("encode toggle_complete result: %w", err)
			}
			return result, nil
		},
	)
}

// registerChartTools registers the derived-view tools.
func registerChartTools(srv *mcpserver.MCPServer, tasks common.TaskService) {
	chartOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Return the pixel chart layout (50px per day) of the filtered tasks."),
	}, filterParams()...)
	srv.AddTool(
		mcp.NewTool("gengantt.chart_layout", chartOpts...),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			layout, err := tasks.ChartLayout(ctx, listRequest(req))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(layout)
			if err != nil {
				return nil, fmt.Errorf("encode chart_layout result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"gengantt.filter_options",
			mcp.WithDescription("Return category and assignee filter choices, each starting with All."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			opts, err := tasks.FilterOptions(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(opts)
			if err != nil {
				return nil, fmt.Errorf("encode filter_options result: %w", err)
			}
			return result, nil
		},
	)
}
