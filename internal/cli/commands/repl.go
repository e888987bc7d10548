package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/luajs/internal/engine"
	"github.com/leapstack-labs/luajs/internal/parser"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively translate Lua snippets to JavaScript",
		Long: `Start an interactive session that translates each entered Lua
snippet and prints the resulting JavaScript. Incomplete input (an open
block or string) continues on the next line.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "luajs> ",
		HistoryFile:     ".luajs_history",
		AutoComplete:    newReplCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "luajs REPL - Lua in, JavaScript out")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt("luajs> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if buffer.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ".") {
				if quit := handleDotCommand(cmd, trimmed); quit {
					break
				}
				continue
			}
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")

		js, again, err := translateSnippet(buffer.String())
		if again {
			rl.SetPrompt("  ...> ")
			continue
		}

		buffer.Reset()
		rl.SetPrompt("luajs> ")

		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), js)
	}

	return nil
}

// translateSnippet translates one REPL input. A bare expression is first
// tried as a return statement so its translation is visible; failing that
// the input is treated as a chunk. The again result asks for more lines.
func translateSnippet(src string) (js string, again bool, err error) {
	if out, err := engine.Render([]byte("return " + src)); err == nil {
		return string(out), false, nil
	}

	out, err := engine.Render([]byte(src))
	if err != nil {
		if isIncomplete(err) {
			return "", true, nil
		}
		return "", false, err
	}
	return string(out), false, nil
}

// isIncomplete reports whether the error means the input simply stopped too
// early, so the REPL should keep reading instead of reporting a failure.
func isIncomplete(err error) bool {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return strings.Contains(parseErr.Message, "<eof>")
	}
	var lexErr *parser.LexError
	if errors.As(err, &lexErr) {
		return strings.Contains(lexErr.Message, "unterminated")
	}
	return false
}

func handleDotCommand(cmd *cobra.Command, line string) (quit bool) {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return false

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")
		return false

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", line)
		return false
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - A bare expression prints its translation as a return statement
  - Unfinished blocks and strings continue on the next line
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newReplCompleter completes Lua keywords and dot-commands.
func newReplCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("local"),
		readline.PcItem("function"),
		readline.PcItem("if"),
		readline.PcItem("then"),
		readline.PcItem("else"),
		readline.PcItem("elseif"),
		readline.PcItem("end"),
		readline.PcItem("while"),
		readline.PcItem("for"),
		readline.PcItem("do"),
		readline.PcItem("return"),
		readline.PcItem("break"),
		readline.PcItem("true"),
		readline.PcItem("false"),
		readline.PcItem("nil"),
		readline.PcItem(".help"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	return readline.NewPrefixCompleter(items...)
}
