// pksh is an interactive shell for a pattern library directory.
//
// Usage:
//
//	PATTERNS_DIR=/path/to/patterns pksh
//
// Commands (in REPL):
//
//	list                         List all patterns
//	search [filters] [words]     Search; filters are category:X framework:X tag:X,
//	                             remaining words form the text query
//	get <name>                   Print the full content of a pattern
//	create <name>                Create a new pattern (prompts for fields)
//	edit <name>                  Open the pattern's file in an editor
//	reload                       Re-scan the patterns directory
//	len                          Count loaded patterns
//	help                         Show this help
//	exit / quit / q              Exit
//
// Unlike the MCP server, pksh can reload its collection on demand; it is
// the out-of-band reload step that makes freshly created patterns visible
// without restarting.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/patternkb/patternkb/internal/logging"
	"github.com/patternkb/patternkb/internal/pattern"
)

var version = "dev"

const replHelp = `Commands:
  list                       List all patterns
  search [filters] [words]   Filters: category:X framework:X tag:X; rest is text query
  get <name>                 Print full pattern content
  create <name>              Create a new pattern (interactive)
  edit <name>                Open pattern file in editor
  reload                     Re-scan the patterns directory
  len                        Count loaded patterns
  help                       Show this help
  exit / quit / q            Exit`

var commandNames = []string{
	"list", "search", "get", "create", "edit", "reload", "len", "help", "exit", "quit",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("pksh", flag.ContinueOnError)
	showVersion := flags.BoolP("version", "v", false, "Print version and exit")

	parseErr := flags.Parse(args)
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, "error:", parseErr)

		return 2
	}

	if *showVersion {
		fmt.Println("pksh " + version)

		return 0
	}

	env := environMap(os.Environ())

	cfg, warnings, cfgErr := pattern.LoadConfig(env)
	if cfgErr != nil {
		fmt.Fprintln(os.Stderr, "error:", cfgErr)

		return 1
	}

	log := logging.New(cfg.LogLevel, true)

	for _, warning := range warnings {
		log.Warn().Msg(warning)
	}

	lib := pattern.NewLibrary(pattern.LoadDir(cfg.PatternsDir))
	fmt.Printf("%d patterns loaded from %s\n", lib.Len(), cfg.PatternsDir)

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string

		for _, name := range commandNames {
			if strings.HasPrefix(name, strings.ToLower(prefix)) {
				out = append(out, name)
			}
		}

		return out
	})

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	repl := &repl{lib: lib, cfg: cfg, env: env, line: line}
	repl.loop()

	if cfg.HistoryFile != "" {
		if f, err := os.Create(cfg.HistoryFile); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}

	return 0
}

type repl struct {
	lib  *pattern.Library
	cfg  pattern.Config
	env  map[string]string
	line *liner.State
}

func (r *repl) loop() {
	for {
		input, err := r.line.Prompt("pksh> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}

			if errors.Is(err, io.EOF) {
				fmt.Println()
			}

			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		r.line.AppendHistory(input)

		fields := strings.Fields(input)
		cmd, rest := fields[0], fields[1:]

		switch cmd {
		case "exit", "quit", "q":
			return
		case "help":
			fmt.Println(replHelp)
		case "list":
			r.cmdList()
		case "len":
			fmt.Println(r.lib.Len())
		case "search":
			r.cmdSearch(rest)
		case "get":
			r.cmdGet(rest)
		case "create":
			r.cmdCreate(rest)
		case "edit":
			r.cmdEdit(rest)
		case "reload":
			r.lib = pattern.NewLibrary(pattern.LoadDir(r.cfg.PatternsDir))
			fmt.Printf("%d patterns loaded\n", r.lib.Len())
		default:
			fmt.Printf("unknown command %q (try 'help')\n", cmd)
		}
	}
}

func (r *repl) cmdList() {
	summaries := r.lib.List()
	if len(summaries) == 0 {
		fmt.Println("no patterns loaded")

		return
	}

	for _, s := range summaries {
		fmt.Printf("- %s (%s)\n", s.Name, s.Category)
	}
}

// cmdSearch parses "category:x framework:y tag:z free text" arguments.
func (r *repl) cmdSearch(args []string) {
	var req pattern.SearchRequest

	var queryWords []string

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			queryWords = append(queryWords, arg)

			continue
		}

		switch key {
		case "category":
			req.Category = value
		case "framework":
			req.Framework = value
		case "tag":
			req.Tag = value
		default:
			queryWords = append(queryWords, arg)
		}
	}

	req.Query = strings.Join(queryWords, " ")

	results := r.lib.Search(req)
	if len(results) == 0 {
		fmt.Println("No patterns found.")

		return
	}

	for _, p := range results {
		fmt.Printf("- %s (%s)\n", p.Metadata.Name, p.Metadata.Category)
		fmt.Printf("  %s\n", firstLine(pattern.Snippet(p.Content, 120)))
	}

	fmt.Printf("%d match(es)\n", len(results))
}

func (r *repl) cmdGet(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: get <name>")

		return
	}

	p, found := r.lib.Get(args[0])
	if !found {
		fmt.Printf("Pattern '%s' not found.\n", args[0])

		return
	}

	fmt.Println(p.Content)
}

func (r *repl) cmdCreate(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: create <name>")

		return
	}

	name := args[0]

	validateErr := pattern.ValidateName(name)
	if validateErr != nil {
		fmt.Println("error:", validateErr)

		return
	}

	category, err := r.promptRequired("category: ")
	if err != nil {
		return
	}

	framework, err := r.promptRequired("framework: ")
	if err != nil {
		return
	}

	projects, err := r.promptList("projects (comma-separated, empty for none): ")
	if err != nil {
		return
	}

	tags, err := r.promptList("tags (comma-separated, empty for none): ")
	if err != nil {
		return
	}

	fmt.Println("content (end with a single '.' line):")

	var lines []string

	for {
		text, promptErr := r.line.Prompt("")
		if promptErr != nil {
			return
		}

		if text == "." {
			break
		}

		lines = append(lines, text)
	}

	content := strings.TrimSpace(strings.Join(lines, "\n"))
	if content == "" {
		fmt.Println("error: content is required")

		return
	}

	path, writeErr := pattern.Write(r.cfg.PatternsDir, pattern.Draft{
		Name:      name,
		Category:  category,
		Framework: framework,
		Projects:  projects,
		Tags:      tags,
		Content:   content,
	})
	if writeErr != nil {
		fmt.Println("error:", writeErr)

		return
	}

	fmt.Printf("Pattern '%s' created at %s (run 'reload' to query it)\n", name, path)
}

func (r *repl) cmdEdit(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: edit <name>")

		return
	}

	p, found := r.lib.Get(args[0])
	if !found {
		fmt.Printf("Pattern '%s' not found.\n", args[0])

		return
	}

	editErr := openInEditor(r.cfg, r.env, p.Path)
	if editErr != nil {
		fmt.Println("error:", editErr)
	}
}

func (r *repl) promptRequired(prompt string) (string, error) {
	for {
		value, err := r.line.Prompt(prompt)
		if err != nil {
			return "", err
		}

		value = strings.TrimSpace(value)
		if value != "" {
			return value, nil
		}

		fmt.Println("value is required")
	}
}

func (r *repl) promptList(prompt string) ([]string, error) {
	value, err := r.line.Prompt(prompt)
	if err != nil {
		return nil, err
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")

	out := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}

	return s
}

func environMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	return env
}
