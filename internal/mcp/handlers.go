package mcp

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"mentorcore/internal/config"
	"mentorcore/internal/errors"
	"mentorcore/internal/ops"
	"mentorcore/internal/prompt"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	scratch string
	lib     *prompt.Library
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, scratch string, lib *prompt.Library) *Handlers {
	return &Handlers{db: db, cfg: cfg, scratch: scratch, lib: lib}
}

// Request types for each tool

// CreateRequest represents the arguments for workspace_create.
type CreateRequest struct {
	ArchiveBase64 string `json:"archive_base64"`
}

// DescribeRequest represents the arguments for workspace_describe.
type DescribeRequest struct {
	ID            string `json:"id"`
	IncludeTree   bool   `json:"include_tree,omitempty"`
	IncludeReadme bool   `json:"include_readme,omitempty"`
}

// RefreshRequest represents the arguments for workspace_refresh.
type RefreshRequest struct {
	ID string `json:"id"`
}

// ReadFileRequest represents the arguments for workspace_read_file.
type ReadFileRequest struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// WriteFileRequest represents the arguments for workspace_write_file.
type WriteFileRequest struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// DiffFileRequest represents the arguments for workspace_diff_file.
type DiffFileRequest struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// RunRequest represents the arguments for workspace_run.
type RunRequest struct {
	ID             string `json:"id"`
	Command        string `json:"command"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// RunFileRequest represents the arguments for workspace_run_file.
type RunFileRequest struct {
	ID             string `json:"id"`
	Path           string `json:"path,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// DestroyRequest represents the arguments for workspace_destroy.
type DestroyRequest struct {
	ID string `json:"id"`
}

// RecoverJSONRequest represents the arguments for recover_json.
type RecoverJSONRequest struct {
	Text    string         `json:"text,omitempty"`
	Default map[string]any `json:"default"`
}

// RecoverSVGRequest represents the arguments for recover_svg.
type RecoverSVGRequest struct {
	Text    string `json:"text,omitempty"`
	Concept string `json:"concept,omitempty"`
}

// BuildPromptRequest represents the arguments for prompt_build.
type BuildPromptRequest struct {
	Kind        string           `json:"kind"`
	Code        string           `json:"code,omitempty"`
	Language    string           `json:"language,omitempty"`
	Bug         prompt.Bug       `json:"bug,omitempty"`
	Style       string           `json:"style,omitempty"`
	Concept     string           `json:"concept,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
	DiagramKind string           `json:"diagram_kind,omitempty"`
	Question    string           `json:"question,omitempty"`
	Answer      string           `json:"answer,omitempty"`
	Message     string           `json:"message,omitempty"`
	History     []prompt.Message `json:"history,omitempty"`
	TaskType    string           `json:"task_type,omitempty"`
	Context     string           `json:"context,omitempty"`
}

// Handler implementations

// HandleCreate handles the workspace_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	archive, err := base64.StdEncoding.DecodeString(input.ArchiveBase64)
	if err != nil {
		return errorResult(errors.NewInvalidRequest("archive_base64 is not valid base64")), nil
	}

	result, err := ops.Create(h.db, h.cfg, h.scratch, ops.CreateInput{Archive: archive})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDescribe handles the workspace_describe tool call.
func (h *Handlers) HandleDescribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[DescribeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Describe(h.db, h.cfg, h.scratch, ops.DescribeInput{
		ID:            input.ID,
		IncludeTree:   input.IncludeTree,
		IncludeReadme: input.IncludeReadme,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the workspace_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.List(h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRefresh handles the workspace_refresh tool call.
func (h *Handlers) HandleRefresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[RefreshRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Refresh(h.db, h.cfg, h.scratch, ops.RefreshInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleReadFile handles the workspace_read_file tool call.
func (h *Handlers) HandleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ReadFileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ReadFile(h.db, h.cfg, h.scratch, ops.ReadFileInput{
		ID:   input.ID,
		Path: input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleWriteFile handles the workspace_write_file tool call.
func (h *Handlers) HandleWriteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[WriteFileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.WriteFile(h.db, h.cfg, h.scratch, ops.WriteFileInput{
		ID:      input.ID,
		Path:    input.Path,
		Content: input.Content,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDiffFile handles the workspace_diff_file tool call.
func (h *Handlers) HandleDiffFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[DiffFileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.DiffFile(h.db, h.cfg, h.scratch, ops.DiffFileInput{
		ID:      input.ID,
		Path:    input.Path,
		Content: input.Content,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRun handles the workspace_run tool call.
func (h *Handlers) HandleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[RunRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Run(ctx, h.db, h.cfg, h.scratch, ops.RunInput{
		ID:             input.ID,
		Command:        input.Command,
		TimeoutSeconds: input.TimeoutSeconds,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRunFile handles the workspace_run_file tool call.
func (h *Handlers) HandleRunFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[RunFileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RunFile(ctx, h.db, h.cfg, h.scratch, ops.RunFileInput{
		ID:             input.ID,
		Path:           input.Path,
		TimeoutSeconds: input.TimeoutSeconds,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDestroy handles the workspace_destroy tool call.
func (h *Handlers) HandleDestroy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[DestroyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Destroy(h.db, h.scratch, ops.DestroyInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRecoverJSON handles the recover_json tool call.
func (h *Handlers) HandleRecoverJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[RecoverJSONRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RecoverJSON(ops.RecoverJSONInput{
		Text:    input.Text,
		Default: input.Default,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRecoverSVG handles the recover_svg tool call.
func (h *Handlers) HandleRecoverSVG(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[RecoverSVGRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RecoverSVG(ops.RecoverSVGInput{
		Text:    input.Text,
		Concept: input.Concept,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleBuildPrompt handles the prompt_build tool call.
func (h *Handlers) HandleBuildPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[BuildPromptRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.BuildPrompt(h.lib, ops.BuildPromptInput{
		Kind:        ops.PromptKind(input.Kind),
		Code:        input.Code,
		Language:    input.Language,
		Bug:         input.Bug,
		Style:       input.Style,
		Concept:     input.Concept,
		Explanation: input.Explanation,
		DiagramKind: input.DiagramKind,
		Question:    input.Question,
		Answer:      input.Answer,
		Message:     input.Message,
		History:     input.History,
		TaskType:    input.TaskType,
		Context:     input.Context,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if coreErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    coreErr.Code,
			"message": coreErr.Message,
			"status":  coreErr.Status,
		}
		if coreErr.Code != errors.ErrInternal && coreErr.Details != nil {
			errorObj["details"] = coreErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
