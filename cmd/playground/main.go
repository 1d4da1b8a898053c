// Package main provides a command-line interface for the content playground.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/guiperry/playground"
	"github.com/guiperry/playground/utils"
)

// cmdFlags holds all command-line flags
type cmdFlags struct {
	action        string
	apiBase       string
	model         string
	contentType   string
	task          string
	tone          string
	length        string
	language      string
	keywords      string
	instructions  string
	debugLevel    string
	tokenEncoding string
	batch         string
	timeout       time.Duration
	faq           bool
	cta           bool
	rag           bool
	keepLinks     bool
	schema        bool
	verbose       bool
}

// parseFlags parses command-line flags
func parseFlags(fs *flag.FlagSet, args []string) (*cmdFlags, error) {
	flags := &cmdFlags{}
	fs.StringVar(&flags.action, "action", "generate", "Action to run (generate, improve)")
	fs.StringVar(&flags.apiBase, "api-base", "", "API base URL (defaults to PLAYGROUND_API_BASE)")
	fs.StringVar(&flags.model, "model", "", "Model (auto, fast, reasoning)")
	fs.StringVar(&flags.contentType, "content-type", "article", "Content type for generate")
	fs.StringVar(&flags.task, "task", "rewrite", "Task for improve (rewrite, expand, shorten, seo, tone, translate)")
	fs.StringVar(&flags.tone, "tone", "", "Tone of voice")
	fs.StringVar(&flags.length, "length", "", "Target length (short, medium, long)")
	fs.StringVar(&flags.language, "language", "", "Output language")
	fs.StringVar(&flags.keywords, "keywords", "", "Comma-separated keywords for generate")
	fs.StringVar(&flags.instructions, "instructions", "", "Custom instructions")
	fs.StringVar(&flags.debugLevel, "debug-level", "warn", "Debug level (debug, info, warn, error)")
	fs.StringVar(&flags.tokenEncoding, "token-encoding", "", "Tiktoken encoding for usage estimates (e.g. cl100k_base)")
	fs.StringVar(&flags.batch, "batch", "", "Run one session per input read from a .txt or .jsonl file")
	fs.DurationVar(&flags.timeout, "timeout", 0, "Session timeout")
	fs.BoolVar(&flags.faq, "faq", false, "Include an FAQ section")
	fs.BoolVar(&flags.cta, "cta", false, "Include a call to action")
	fs.BoolVar(&flags.rag, "rag", false, "Use retrieval augmentation")
	fs.BoolVar(&flags.keepLinks, "preserve-links", true, "Keep links when improving")
	fs.BoolVar(&flags.schema, "schema", false, "Print the request JSON schema and exit")
	fs.BoolVar(&flags.verbose, "verbose", false, "Stream reasoning and text to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

func main() {
	flags, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		exitWithError("Error parsing flags: %v\n", err)
	}

	if flags.schema {
		schema, err := playground.RequestSchema()
		if err != nil {
			exitWithError("Error generating schema: %v\n", err)
		}
		fmt.Println(string(schema))
		return
	}

	var inputs []string
	if flags.batch != "" {
		inputs, err = utils.ReadInputsFromFile(flags.batch)
		if err != nil {
			exitWithError("Error reading batch: %v\n", err)
		}
	} else {
		inputs = []string{getInput(flag.Args())}
	}

	client, err := playground.NewClient(prepareConfigOptions(flags)...)
	if err != nil {
		exitWithError("Error creating client: %v\n", err)
	}
	if flags.verbose {
		client.Subscribe(newStreamPrinter(os.Stderr).observe)
	}

	// Ctrl-C stops the running session but keeps the partial output.
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-sigCtx.Done()
		client.Cancel()
	}()

	for i, input := range inputs {
		if sigCtx.Err() != nil {
			break
		}
		if i > 0 {
			fmt.Println("---")
		}
		if err := runSession(client, flags, input); err != nil {
			exitWithError("Error: %v\n", err)
		}
	}
}

func runSession(client *playground.Client, flags *cmdFlags, input string) error {
	req, err := buildRequest(flags, input)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	st, err := client.Run(context.Background(), req)
	if err != nil {
		return err
	}
	if st.Usage != nil && flags.verbose {
		_, _ = fmt.Fprintf(os.Stderr, "\nreasoning tokens: %d, content tokens: %d\n",
			st.Usage.ReasoningTokens, st.Usage.ContentTokens)
	}
	return printResult(os.Stdout, st)
}

// exitWithError prints an error message and exits
func exitWithError(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// getInput joins the positional arguments, or reads stdin when there are none.
func getInput(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [flags] <brief or content>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	return string(data)
}

func buildRequest(flags *cmdFlags, input string) (*playground.UnifiedRequest, error) {
	var opts []playground.RequestOption
	if flags.model != "" {
		opts = append(opts, playground.WithModel(flags.model))
	}
	if flags.tone != "" {
		opts = append(opts, playground.WithTone(flags.tone))
	}
	if flags.length != "" {
		opts = append(opts, playground.WithTargetLength(flags.length))
	}
	if flags.language != "" {
		opts = append(opts, playground.WithLanguage(flags.language))
	}
	opts = append(opts,
		playground.WithRAG(flags.rag),
		playground.WithCustomInstructions(flags.instructions),
	)

	var req *playground.UnifiedRequest
	switch playground.Action(flags.action) {
	case playground.ActionGenerate:
		opts = append(opts,
			playground.WithKeywords(flags.keywords),
			playground.WithFAQ(flags.faq),
			playground.WithCTA(flags.cta),
		)
		req = playground.NewGenerateRequest(strings.TrimSpace(input), flags.contentType, opts...)
	case playground.ActionImprove:
		opts = append(opts, playground.WithPreserveLinks(flags.keepLinks))
		req = playground.NewImproveRequest(input, flags.task, opts...)
	default:
		return nil, fmt.Errorf("unknown action %q", flags.action)
	}
	if flags.model == "" {
		// Let the client apply the configured default.
		req.Model = ""
	}
	return req, nil
}

func prepareConfigOptions(flags *cmdFlags) []playground.ConfigOption {
	var configOpts []playground.ConfigOption
	if flags.apiBase != "" {
		configOpts = append(configOpts, playground.SetAPIBase(strings.TrimRight(flags.apiBase, "/")))
	}
	if flags.timeout != 0 {
		configOpts = append(configOpts, playground.SetTimeout(flags.timeout))
	}
	if flags.tokenEncoding != "" {
		configOpts = append(configOpts, playground.SetTokenEncoding(flags.tokenEncoding))
	}
	configOpts = append(configOpts, playground.SetLogLevel(getLogLevel(flags.debugLevel)))
	return configOpts
}

// streamPrinter writes the newly appended reasoning and text of each state.
type streamPrinter struct {
	mu        sync.Mutex
	w         io.Writer
	reasoning int
	delta     int
	phase     playground.Phase
}

func newStreamPrinter(w io.Writer) *streamPrinter {
	return &streamPrinter{w: w}
}

func (p *streamPrinter) observe(st playground.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st.Phase != p.phase {
		p.phase = st.Phase
		if st.Phase != playground.PhaseNone {
			_, _ = fmt.Fprintf(p.w, "\n[%s]\n", st.Phase)
		}
	}
	// A new session starts from empty buffers.
	if len(st.Reasoning) < p.reasoning || len(st.Delta) < p.delta {
		p.reasoning, p.delta = 0, 0
	}
	if len(st.Reasoning) > p.reasoning {
		_, _ = io.WriteString(p.w, st.Reasoning[p.reasoning:])
		p.reasoning = len(st.Reasoning)
	}
	if len(st.Delta) > p.delta {
		_, _ = io.WriteString(p.w, st.Delta[p.delta:])
		p.delta = len(st.Delta)
	}
}

// printResult writes the structured result as indented JSON, or the plain
// text when the output did not parse.
func printResult(w io.Writer, st playground.State) error {
	if len(st.ResultJSON) > 0 {
		var out bytes.Buffer
		if err := json.Indent(&out, st.ResultJSON, "", "  "); err != nil {
			return fmt.Errorf("format result: %w", err)
		}
		out.WriteByte('\n')
		_, err := out.WriteTo(w)
		return err
	}
	if st.Text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, st.Text)
	return err
}

func getLogLevel(level string) playground.LogLevel {
	var l playground.LogLevel
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return playground.LogLevelWarn
	}
	return l
}
