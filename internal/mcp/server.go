package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mentorcore/internal/config"
	"mentorcore/internal/prompt"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"workspace_create": {
		def:     createToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate },
	},
	"workspace_describe": {
		def:     describeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDescribe },
	},
	"workspace_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"workspace_refresh": {
		def:     refreshToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRefresh },
	},
	"workspace_read_file": {
		def:     readFileToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReadFile },
	},
	"workspace_write_file": {
		def:     writeFileToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWriteFile },
	},
	"workspace_diff_file": {
		def:     diffFileToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDiffFile },
	},
	"workspace_run": {
		def:     runToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRun },
	},
	"workspace_run_file": {
		def:     runFileToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRunFile },
	},
	"workspace_destroy": {
		def:     destroyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDestroy },
	},
	"recover_json": {
		def:     recoverJSONToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecoverJSON },
	},
	"recover_svg": {
		def:     recoverSVGToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecoverSVG },
	},
	"prompt_build": {
		def:     buildPromptToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBuildPrompt },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with mentorcore tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(database *sql.DB, cfg *config.Config, scratch, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"mentorcore",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(database, cfg, scratch, prompt.NewLibrary())

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(database *sql.DB, cfg *config.Config, scratch, version string) error {
	s := NewServer(database, cfg, scratch, version)
	return server.ServeStdio(s)
}
