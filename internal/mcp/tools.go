package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("workspace_create",
	mcp.WithDescription("Upload a zip archive and materialize it as a new workspace. Returns the workspace descriptor and file tree."),
	mcp.WithString("archive_base64", mcp.Required(), mcp.Description("Base64-encoded zip archive")),
)

var describeToolDef = mcp.NewTool("workspace_describe",
	mcp.WithDescription("Fetch a workspace descriptor, optionally with its file tree and rendered README."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
	mcp.WithBoolean("include_tree", mcp.Description("Include the file tree")),
	mcp.WithBoolean("include_readme", mcp.Description("Include the README rendered to HTML")),
)

var listToolDef = mcp.NewTool("workspace_list",
	mcp.WithDescription("List all registered workspaces, newest first."),
)

var refreshToolDef = mcp.NewTool("workspace_refresh",
	mcp.WithDescription("Re-derive language statistics and detected project metadata from the current directory contents."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
)

var readFileToolDef = mcp.NewTool("workspace_read_file",
	mcp.WithDescription("Read one file from a workspace."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path relative to the workspace root")),
)

var writeFileToolDef = mcp.NewTool("workspace_write_file",
	mcp.WithDescription("Write one file inside a workspace, creating parent directories as needed."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path relative to the workspace root")),
	mcp.WithString("content", mcp.Required(), mcp.Description("New file content")),
)

var diffFileToolDef = mcp.NewTool("workspace_diff_file",
	mcp.WithDescription("Preview the line diff that writing the given content would produce, without modifying the file."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path relative to the workspace root")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Proposed file content")),
)

var runToolDef = mcp.NewTool("workspace_run",
	mcp.WithDescription("Run a shell command with the workspace root as working directory, under a wall-clock timeout and output cap."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
	mcp.WithString("command", mcp.Required(), mcp.Description("Shell command")),
	mcp.WithNumber("timeout_seconds", mcp.Description("Wall-clock budget; 0 uses the configured default")),
)

var runFileToolDef = mcp.NewTool("workspace_run_file",
	mcp.WithDescription("Run one file through the interpreter its extension selects, or a well-known entry point when no path is given."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
	mcp.WithString("path", mcp.Description("File to run, relative to the workspace root")),
	mcp.WithNumber("timeout_seconds", mcp.Description("Wall-clock budget; 0 uses the configured default")),
)

var destroyToolDef = mcp.NewTool("workspace_destroy",
	mcp.WithDescription("Remove a workspace: its registry entry and its directory."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
)

var recoverJSONToolDef = mcp.NewTool("recover_json",
	mcp.WithDescription("Recover a JSON object from free-text model output, tolerating markdown fences. Falls back to the supplied default."),
	mcp.WithString("text", mcp.Description("Raw model output")),
	mcp.WithObject("default", mcp.Required(), mcp.Description("Fallback object returned when recovery fails")),
)

var recoverSVGToolDef = mcp.NewTool("recover_svg",
	mcp.WithDescription("Extract the SVG fragment from model output, or synthesize a labeled placeholder."),
	mcp.WithString("text", mcp.Description("Raw model output")),
	mcp.WithString("concept", mcp.Description("Label for the placeholder diagram")),
)

var buildPromptToolDef = mcp.NewTool("prompt_build",
	mcp.WithDescription("Build the system/user prompt pair for one tutoring request kind."),
	mcp.WithString("kind", mcp.Required(), mcp.Description("One of: analysis, teaching, deeper, diagram, evaluate, english_chat, image")),
	mcp.WithString("code", mcp.Description("Code snippet under discussion")),
	mcp.WithString("language", mcp.Description("Programming language of the code")),
	mcp.WithObject("bug", mcp.Description("Bug being taught: {line, severity, message, suggestion}")),
	mcp.WithString("style", mcp.Description("Mentor style: patient, socratic, or direct")),
	mcp.WithString("concept", mcp.Description("Concept name")),
	mcp.WithString("explanation", mcp.Description("Current explanation text")),
	mcp.WithString("diagram_kind", mcp.Description("Diagram type: state_flow, async_timeline, closure_scope, event_loop")),
	mcp.WithString("question", mcp.Description("Question the student answered")),
	mcp.WithString("answer", mcp.Description("The student's answer")),
	mcp.WithString("message", mcp.Description("New chat message")),
	mcp.WithArray("history", mcp.Description("Prior conversation turns: [{role, content}]")),
	mcp.WithString("task_type", mcp.Description("Image task: code_screenshot, whiteboard, english_text, general")),
	mcp.WithString("context", mcp.Description("Additional image context")),
)
