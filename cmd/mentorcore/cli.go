package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"mentorcore/internal/config"
	"mentorcore/internal/errors"
	"mentorcore/internal/ops"
	"mentorcore/internal/prompt"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, scratch string) *cli.App {
	app := &cli.App{
		Name:    "mentorcore",
		Usage:   "Tutoring workspace and response toolkit",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(db, cfg, scratch),
			describeCmd(db, cfg, scratch),
			listCmd(db),
			refreshCmd(db, cfg, scratch),
			readCmd(db, cfg, scratch),
			writeCmd(db, cfg, scratch),
			diffCmd(db, cfg, scratch),
			runCmd(db, cfg, scratch),
			runFileCmd(db, cfg, scratch),
			destroyCmd(db, scratch),
			recoverJSONCmd(),
			recoverSVGCmd(),
			promptCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// createCmd creates the create command.
func createCmd(db *sql.DB, cfg *config.Config, scratch string) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a workspace from a ZIP archive",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Archive file path (reads stdin if omitted)"},
		},
		Action: func(c *cli.Context) error {
			var archive []byte
			var err error

			if path := c.String("path"); path != "" {
				archive, err = os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("could not read archive: %v", err)))
				}
			} else {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("archive must be given via --path or piped via stdin"))
				}
				archive, err = io.ReadAll(os.Stdin)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			output, err := ops.Create(db, cfg, scratch, ops.CreateInput{Archive: archive})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// describeCmd creates the describe command.
func describeCmd(db *sql.DB, cfg *config.Config, scratch string) *cli.Command {
	return &cli.Command{
		Name:      "describe",
		Usage:     "Describe a workspace",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "tree", Usage: "Include the file tree"},
			&cli.BoolFlag{Name: "readme", Usage: "Include rendered README HTML"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Describe(db, cfg, scratch, ops.DescribeInput{
				ID:            c.Args().First(),
				IncludeTree:   c.Bool("tree"),
				IncludeReadme: c.Bool("readme"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all workspaces",
		Action: func(c *cli.Context) error {
			output, err := ops.List(db)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// refreshCmd creates the refresh command.
func refreshCmd(db *sql.DB, cfg *config.Config, scratch string) *cli.Command {
	return &cli.Command{
		Name:      "refresh",
		Usage:     "Re-derive language stats and detection for a workspace",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Refresh(db, cfg, scratch, ops.RefreshInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// readCmd creates the read command.
func readCmd(db *sql.DB, cfg *config.Config, scratch string) *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Read a file from a workspace",
		ArgsUsage: "<id> <path>",
		Action: func(c *cli.Context) error {
			output, err := ops.ReadFile(db, cfg, scratch, ops.ReadFileInput{
				ID:   c.Args().Get(0),
				Path: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// writeCmd creates the write command.
func writeCmd(db *sql.DB, cfg *config.Config, scratch string) *cli.Command {
	return &cli.Command{
		Name:      "write",
		Usage:     "Write a file in a workspace (reads content from stdin)",
		ArgsUsage: "<id> <path>",
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("content must be piped via stdin"))
			}
			content, err := io.ReadAll(os.Stdin)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.WriteFile(db, cfg, scratch, ops.WriteFileInput{
				ID:      c.Args().Get(0),
				Path:    c.Args().Get(1),
				Content: string(content),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// diffCmd creates the diff command.
func diffCmd(db *sql.DB, cfg *config.Config, scratch string) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Diff a workspace file against new content (reads content from stdin)",
		ArgsUsage: "<id> <path>",
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("content must be piped via stdin"))
			}
			content, err := io.ReadAll(os.Stdin)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.DiffFile(db, cfg, scratch, ops.DiffFileInput{
				ID:      c.Args().Get(0),
				Path:    c.Args().Get(1),
				Content: string(content),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// runCmd creates the run command.
func runCmd(db *sql.DB, cfg *config.Config, scratch string) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a shell command inside a workspace",
		ArgsUsage: "<id> <command>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "timeout", Aliases: []string{"t"}, Usage: "Timeout in seconds"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: run <id> <command>"))
			}
			command := strings.Join(c.Args().Slice()[1:], " ")

			output, err := ops.Run(c.Context, db, cfg, scratch, ops.RunInput{
				ID:             c.Args().First(),
				Command:        command,
				TimeoutSeconds: c.Int("timeout"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// runFileCmd creates the run-file command.
func runFileCmd(db *sql.DB, cfg *config.Config, scratch string) *cli.Command {
	return &cli.Command{
		Name:      "run-file",
		Usage:     "Run a workspace file with its interpreter (auto-picks an entry point if omitted)",
		ArgsUsage: "<id> [path]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "timeout", Aliases: []string{"t"}, Usage: "Timeout in seconds"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.RunFile(c.Context, db, cfg, scratch, ops.RunFileInput{
				ID:             c.Args().Get(0),
				Path:           c.Args().Get(1),
				TimeoutSeconds: c.Int("timeout"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// destroyCmd creates the destroy command.
func destroyCmd(db *sql.DB, scratch string) *cli.Command {
	return &cli.Command{
		Name:      "destroy",
		Usage:     "Delete a workspace and its files",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Destroy(db, scratch, ops.DestroyInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// recoverJSONCmd creates the recover-json command.
func recoverJSONCmd() *cli.Command {
	return &cli.Command{
		Name:  "recover-json",
		Usage: "Recover a JSON object from model output (reads text from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "default", Aliases: []string{"d"}, Required: true, Usage: "Default JSON object used when recovery fails"},
		},
		Action: func(c *cli.Context) error {
			text, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			var def map[string]any
			if err := json.Unmarshal([]byte(c.String("default")), &def); err != nil {
				return outputError(errors.NewInvalidRequest("default must be a JSON object"))
			}

			output, err := ops.RecoverJSON(ops.RecoverJSONInput{Text: text, Default: def})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// recoverSVGCmd creates the recover-svg command.
func recoverSVGCmd() *cli.Command {
	return &cli.Command{
		Name:  "recover-svg",
		Usage: "Recover an SVG fragment from model output (reads text from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "concept", Usage: "Label for the placeholder diagram"},
		},
		Action: func(c *cli.Context) error {
			text, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.RecoverSVG(ops.RecoverSVGInput{
				Text:    text,
				Concept: c.String("concept"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// promptCmd creates the prompt command.
func promptCmd() *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Build a system/user prompt pair",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Required: true, Usage: "Prompt kind: analysis|teaching|deeper|diagram|evaluate|english_chat|image"},
			&cli.StringFlag{Name: "code", Usage: "Code under discussion (reads stdin if piped)"},
			&cli.StringFlag{Name: "language", Usage: "Language of the code"},
			&cli.StringFlag{Name: "bug", Usage: "Bug as a JSON object (teaching)"},
			&cli.StringFlag{Name: "style", Usage: "Mentor style (teaching)"},
			&cli.StringFlag{Name: "concept", Usage: "Concept being taught"},
			&cli.StringFlag{Name: "explanation", Usage: "Current explanation (deeper, diagram)"},
			&cli.StringFlag{Name: "diagram-kind", Usage: "Diagram kind (diagram)"},
			&cli.StringFlag{Name: "question", Usage: "Question asked (evaluate)"},
			&cli.StringFlag{Name: "answer", Usage: "Learner's answer (evaluate)"},
			&cli.StringFlag{Name: "message", Usage: "Chat message (english_chat)"},
			&cli.StringFlag{Name: "task-type", Usage: "Image task type (image)"},
			&cli.StringFlag{Name: "context", Usage: "Extra context (image)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.BuildPromptInput{
				Kind:        ops.PromptKind(c.String("kind")),
				Code:        c.String("code"),
				Language:    c.String("language"),
				Style:       c.String("style"),
				Concept:     c.String("concept"),
				Explanation: c.String("explanation"),
				DiagramKind: c.String("diagram-kind"),
				Question:    c.String("question"),
				Answer:      c.String("answer"),
				Message:     c.String("message"),
				TaskType:    c.String("task-type"),
				Context:     c.String("context"),
			}

			if input.Code == "" && stdinHasData() {
				code, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Code = code
			}

			if bug := c.String("bug"); bug != "" {
				var b prompt.Bug
				if err := json.Unmarshal([]byte(bug), &b); err != nil {
					return outputError(errors.NewInvalidRequest("bug must be a JSON object"))
				}
				input.Bug = b
			}

			output, err := ops.BuildPrompt(prompt.NewLibrary(), input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if coreErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", coreErr.Code, coreErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
