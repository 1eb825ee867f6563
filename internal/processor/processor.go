package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"codeberg.org/snonux/fanyi/internal/batch"
	"codeberg.org/snonux/fanyi/internal/cli"
	"codeberg.org/snonux/fanyi/internal/httpapi"
	"codeberg.org/snonux/fanyi/internal/translation"
)

// Processor runs the fanyi commands against one translation host
type Processor struct {
	settings cli.Settings
	host     *translation.Host
	logger   zerolog.Logger
	out      io.Writer
	errOut   io.Writer
}

// NewProcessor creates a processor with an empty host
func NewProcessor(settings cli.Settings, opts translation.Options, logger zerolog.Logger) *Processor {
	if settings.Concurrency < 1 {
		settings.Concurrency = 1
	}
	return &Processor{
		settings: settings,
		host:     translation.NewHost(opts),
		logger:   logger,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// ListAPIs prints the provider names
func (p *Processor) ListAPIs() error {
	for _, name := range p.host.SupportAPIs() {
		fmt.Fprintln(p.out, name)
	}
	return nil
}

// ListLanguages prints code and label of every supported language
func (p *Processor) ListLanguages(ctx context.Context) error {
	if err := p.choose(ctx); err != nil {
		return err
	}

	langs, err := p.host.SupportLang()
	if err != nil {
		return err
	}
	for _, lang := range langs {
		fmt.Fprintf(p.out, "%s\t%s\n", lang.Code, lang.Label)
	}
	return nil
}

// ListDomains prints the translation domains with the index to pass as
// --domain. The domain in use is marked with '*'.
func (p *Processor) ListDomains(ctx context.Context) error {
	if err := p.choose(ctx); err != nil {
		return err
	}

	provider, err := p.host.Provider()
	if err != nil {
		return err
	}
	y, ok := provider.(*translation.Youdao)
	if !ok {
		return fmt.Errorf("provider %s has no domains", provider.Name())
	}

	for i, name := range y.Domains() {
		marker := ""
		if i == y.Domain() {
			marker = "\t*"
		}
		fmt.Fprintf(p.out, "%d\t%s%s\n", i, name, marker)
	}
	return nil
}

// TranslateText translates a single text from the command line
func (p *Processor) TranslateText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to translate")
	}
	if err := p.choose(ctx); err != nil {
		return err
	}

	result, err := p.host.Translate(ctx, text, p.settings.From, p.settings.To)
	if err != nil {
		return fmt.Errorf("failed to translate '%s': %w", text, err)
	}

	fmt.Fprintln(p.out, strings.TrimRight(result, "\n"))
	return nil
}

type batchResult struct {
	text string
	err  error
}

// ProcessBatch translates every entry of a batch file. Requests run
// concurrently, output keeps the order of the file.
func (p *Processor) ProcessBatch(ctx context.Context, filename string) error {
	entries, err := batch.ReadBatchFile(filename)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(p.out, "No texts found in %s\n", filename)
		return nil
	}

	if err := p.choose(ctx); err != nil {
		return err
	}
	provider, err := p.host.Provider()
	if err != nil {
		return err
	}

	results := make([]batchResult, len(entries))
	wp := pool.New().WithMaxGoroutines(p.settings.Concurrency)
	for i, entry := range entries {
		i, entry := i, entry // per-iteration copy (go < 1.22 loop semantics)
		wp.Go(func() {
			from, to := p.languages(entry)
			p.logger.Debug().Int("index", i).Str("from", from).Str("to", to).Msg("translating batch entry")
			text, err := provider.Translate(ctx, entry.Text, from, to)
			results[i] = batchResult{text: text, err: err}
		})
	}
	wp.Wait()

	// Track statistics
	errorCount := 0
	for i, entry := range entries {
		fmt.Fprintf(p.out, "\n[%d/%d] %s\n", i+1, len(entries), entry.Text)
		if err := results[i].err; err != nil {
			fmt.Fprintf(p.errOut, "Error translating '%s': %v\n", entry.Text, err)
			errorCount++
			continue
		}
		fmt.Fprintln(p.out, strings.TrimRight(results[i].text, "\n"))
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(p.out, "Total texts: %d\n", len(entries))
	fmt.Fprintf(p.out, "Translated: %d\n", len(entries)-errorCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "=================================\n")

	if errorCount > 0 {
		return fmt.Errorf("%d of %d texts failed", errorCount, len(entries))
	}
	return nil
}

// RunServer serves the JSON API until ctx is cancelled. The provider is
// chosen by the API client.
func (p *Processor) RunServer(ctx context.Context) error {
	server := httpapi.NewServer(p.host, p.logger, httpapi.Options{
		Host: p.settings.ServeHost,
		Port: p.settings.ServePort,
	})
	fmt.Fprintf(p.out, "Serving the fanyi API on http://%s/api/v1\n", server.Addr())
	return server.Start(ctx)
}

func (p *Processor) choose(ctx context.Context) error {
	p.logger.Debug().Str("provider", p.settings.Provider).Msg("choosing provider")
	if err := p.host.ChooseAPI(ctx, p.settings.Provider, p.providerArgs()); err != nil {
		return fmt.Errorf("failed to choose provider %s: %w", p.settings.Provider, err)
	}
	return nil
}

// providerArgs appends the --domain option to the configured provider
// arguments. Later keys win.
func (p *Processor) providerArgs() string {
	args := p.settings.Args
	if !p.settings.DomainSet && p.settings.Domain == 0 {
		return args
	}

	domain := "domain=" + strconv.Itoa(p.settings.Domain)
	if strings.TrimSpace(args) == "" {
		return domain
	}
	return args + "," + domain
}

func (p *Processor) languages(entry batch.Entry) (from, to string) {
	from, to = p.settings.From, p.settings.To
	if entry.From != "" {
		from = entry.From
	}
	if entry.To != "" {
		to = entry.To
	}
	return from, to
}
