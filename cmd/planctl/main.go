// Command planctl generates a 7-day study plan from student feedback, or runs
// a single similarity search against the slide or lab corpus.
//
//	planctl -feedback "I keep mixing up joins"
//	echo "confusion matrix?" | planctl -show-context
//	planctl -search slide -top 3 -feedback "precision and recall"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studyplan/internal/app"
	"github.com/kailas-cloud/studyplan/internal/config"
	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
	"github.com/kailas-cloud/studyplan/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/studyplan/internal/logger"
	planuc "github.com/kailas-cloud/studyplan/internal/usecase/plan"
	"github.com/kailas-cloud/studyplan/internal/version"
)

type options struct {
	feedback    string
	configPath  string
	model       string
	search      string
	topSlides   int
	topLabs     int
	top         int
	showContext bool
	verbose     bool
	version     bool
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stdin, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "planctl %s\n", version.String())
		return 0
	}

	logger, err := logpkg.NewCLI(opts.verbose)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	a, err := app.Build(ctx, &cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	ctx, usage := domain.NewContextWithUsage(ctx)
	if opts.search != "" {
		err = runSearch(ctx, a, opts, stdout)
	} else {
		err = runPlan(ctx, a, opts, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Info("Done",
		zap.Int("embedding_tokens", usage.EmbeddingTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
	)
	return 0
}

func parseFlags(args []string, stdin io.Reader, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("planctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.feedback, "feedback", "", "student feedback text (read from stdin when empty)")
	fs.StringVar(&o.configPath, "config", "", "config file (default: config/$ENV.yaml)")
	fs.StringVar(&o.model, "model", "", "chat model (default: chat.model from config)")
	fs.StringVar(&o.search, "search", "", "print ranked results from one corpus instead of a plan: slide or lab")
	fs.IntVar(&o.topSlides, "top-slides", 0, "slide chunks to retrieve (default: plan.top_k_slides)")
	fs.IntVar(&o.topLabs, "top-labs", 0, "lab chunks to retrieve (default: plan.top_k_labs)")
	fs.IntVar(&o.top, "top", 5, "results to print with -search")
	fs.BoolVar(&o.showContext, "show-context", false, "print the assembled context before the plan")
	fs.BoolVar(&o.verbose, "verbose", false, "log progress to stderr")
	fs.BoolVar(&o.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.version {
		return o, nil
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return o, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if o.search != "" {
		if _, err := chunk.ParseSource(o.search); err != nil {
			return o, fmt.Errorf("-search: %w", err)
		}
	}
	if o.topSlides < 0 || o.topLabs < 0 || o.top < 1 {
		return o, fmt.Errorf("top-k values must be positive")
	}

	if o.feedback == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return o, fmt.Errorf("read stdin: %w", err)
		}
		o.feedback = strings.TrimRight(string(b), "\n")
	}
	if strings.TrimSpace(o.feedback) == "" {
		return o, fmt.Errorf("feedback is required (-feedback or stdin)")
	}
	return o, nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(config.GetEnv())
}

func runPlan(ctx context.Context, a *app.App, o options, w io.Writer) error {
	req := planuc.Request{
		Feedback:   o.feedback,
		TopKSlides: o.topSlides,
		TopKLabs:   o.topLabs,
		Model:      o.model,
	}

	r, err := a.Plan.Retrieve(ctx, req)
	if err != nil {
		return err
	}
	if o.showContext {
		fmt.Fprintln(w, "=== Context ===")
		fmt.Fprintln(w, r.Context)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "=== Plan ===")
	}

	plan, err := a.Plan.Complete(ctx, r, o.model)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, plan)
	return nil
}

func runSearch(ctx context.Context, a *app.App, o options, w io.Writer) error {
	var c *corpus.Corpus
	switch chunk.Source(o.search) {
	case chunk.Slide:
		c = a.Slides
	case chunk.Lab:
		c = a.Labs
	}

	results, err := a.Search.Search(ctx, c, o.feedback, o.top)
	if err != nil {
		return err
	}
	printResults(w, results)
	return nil
}

func printResults(w io.Writer, results []result.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	for i := range results {
		r := &results[i]
		loc := r.File()
		if page, ok := r.Page(); ok {
			loc = fmt.Sprintf("%s p.%d", loc, page)
		}
		fmt.Fprintf(w, "%d. %.4f  %s\n   %s\n", i+1, r.Score(), loc, oneLine(r.Text(), 200))
	}
}

// oneLine collapses whitespace and truncates to limit runes.
func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
