// Package pipeline runs the two feature-extraction modes. Train indexes the
// training corpus, selects the vocabulary and builds the training table; test
// indexes the held-out corpus and scores it against the same vocabulary.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/events"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/index"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/selection"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/serializer"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/sink"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/stemmer"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/stopwords"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/metrics"
)

const (
	ModeTrain = "train"
	ModeTest  = "test"
)

// ArffName is the dataset file name of a mode, e.g. train.arff.
func ArffName(mode string) string {
	return mode + ".arff"
}

// IndexDumpName is the index listing file name of a mode, e.g.
// trainInvertedIndexFile.txt.
func IndexDumpName(mode string) string {
	return mode + "InvertedIndexFile.txt"
}

// ModeResult is what one mode produced.
type ModeResult struct {
	Mode              string
	Index             *index.InvertedIndex
	Table             *dataset.FeatureTable
	Tokens            int
	MaxTotalFrequency int
	Artifacts         []string
}

// Result is the outcome of a full run.
type Result struct {
	RunID     string
	Selection selection.Result
	Train     ModeResult
	Test      ModeResult
}

type Pipeline struct {
	cfg       *config.Config
	stemmer   stemmer.Stemmer
	stopWords stopwords.Set
	sink      sink.Sink
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// Preflight checks the selection band and the stemmer name. It reads no
// file and contacts no store, so callers run it before opening sinks.
func Preflight(cfg *config.Config) error {
	if err := selection.ValidatePercentiles(cfg.Pipeline.LowerPercentile, cfg.Pipeline.UpperPercentile); err != nil {
		return err
	}
	_, err := stemmer.New(cfg.Pipeline.Stemmer)
	return err
}

// New runs Preflight, then loads the stop-word list if one is configured.
func New(cfg *config.Config, out sink.Sink, pub events.Publisher, m *metrics.Metrics) (*Pipeline, error) {
	if err := Preflight(cfg); err != nil {
		return nil, err
	}
	st, err := stemmer.New(cfg.Pipeline.Stemmer)
	if err != nil {
		return nil, err
	}
	stop := stopwords.New()
	if cfg.Input.StopWordsPath != "" {
		stop, err = stopwords.Load(cfg.Input.StopWordsPath)
		if err != nil {
			return nil, err
		}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Pipeline{
		cfg:       cfg,
		stemmer:   st,
		stopWords: stop,
		sink:      out,
		publisher: pub,
		metrics:   m,
	}, nil
}

// Run executes train then test. The run id is taken from ctx when present.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := logger.RunID(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = logger.WithRunID(ctx, runID)
	}
	log := p.runLogger(ctx)
	log.Info("run started",
		"train_path", p.cfg.Input.TrainPath,
		"test_path", p.cfg.Input.TestPath,
		"stemmer", p.cfg.Pipeline.Stemmer,
		"stop_words", p.stopWords.Len(),
		"lower_percentile", p.cfg.Pipeline.LowerPercentile,
		"upper_percentile", p.cfg.Pipeline.UpperPercentile,
	)
	res := &Result{RunID: runID}

	trainIx, trainTokens, err := p.indexCorpus(ctx, ModeTrain, p.cfg.Input.TrainPath)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	start := time.Now()
	sel, err := selection.SelectVocabulary(trainIx, p.cfg.Pipeline.LowerPercentile, p.cfg.Pipeline.UpperPercentile)
	p.metrics.ObserveStage("select", start)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", p.cfg.Input.TrainPath, err)
	}
	p.metrics.TermsTrimmedTotal.Add(float64(sel.Removed))
	p.metrics.VocabularySize.Set(float64(len(sel.Vocabulary)))
	res.Selection = sel

	res.Train, err = p.finishMode(ctx, ModeTrain, trainIx, trainTokens, sel.Vocabulary, runID)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	testIx, testTokens, err := p.indexCorpus(ctx, ModeTest, p.cfg.Input.TestPath)
	if err != nil {
		return nil, fmt.Errorf("test: %w", err)
	}
	res.Test, err = p.finishMode(ctx, ModeTest, testIx, testTokens, sel.Vocabulary, runID)
	if err != nil {
		return nil, fmt.Errorf("test: %w", err)
	}

	if err := p.publisher.Publish(ctx, completedEvent(res)); err != nil {
		return nil, fmt.Errorf("announcing run: %w", err)
	}
	log.Info("run complete",
		"vocabulary", len(sel.Vocabulary),
		"train_rows", len(res.Train.Table.Rows),
		"test_rows", len(res.Test.Table.Rows),
	)
	return res, nil
}

// indexCorpus reads every document under path, one at a time, into a fresh
// index.
func (p *Pipeline) indexCorpus(ctx context.Context, mode, path string) (*index.InvertedIndex, int, error) {
	start := time.Now()
	defer p.metrics.ObserveStage("index_"+mode, start)

	docs, err := corpus.Discover(path)
	if err != nil {
		return nil, 0, err
	}
	ix := index.New()
	tok := tokenizer.New(ix, p.stemmer, p.stopWords)
	tokens := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		lines, err := corpus.ReadLines(doc)
		if err != nil {
			return nil, 0, err
		}
		accepted := tok.TokenizeDocument(doc.ID, lines)
		tokens += len(accepted)
		p.metrics.DocumentsIndexedTotal.WithLabelValues(mode).Inc()
	}
	p.metrics.TokensAcceptedTotal.WithLabelValues(mode).Add(float64(tokens))
	p.runLogger(ctx).Info("corpus indexed",
		"mode", mode,
		"path", path,
		"documents", ix.DocumentCount(),
		"terms", ix.TermCount(),
		"tokens", tokens,
	)
	return ix, tokens, nil
}

// finishMode builds the feature table for ix and publishes the dataset and
// the index listing.
func (p *Pipeline) finishMode(ctx context.Context, mode string, ix *index.InvertedIndex, tokens int, vocabulary []string, runID string) (ModeResult, error) {
	start := time.Now()
	table, err := dataset.Build(ix, vocabulary, p.relation(mode))
	p.metrics.ObserveStage("build_"+mode, start)
	if err != nil {
		return ModeResult{}, err
	}
	maxTotal, _ := ix.MaxTotalFrequency()
	ham, spam := table.LabelCounts()
	p.metrics.FeatureRowsTotal.WithLabelValues(mode, dataset.Ham.String()).Add(float64(ham))
	p.metrics.FeatureRowsTotal.WithLabelValues(mode, dataset.Spam.String()).Add(float64(spam))
	if len(table.MissingTerms) > 0 {
		p.runLogger(ctx).Warn("selected terms absent from corpus, weighted 0",
			"mode", mode,
			"missing", len(table.MissingTerms),
		)
	}

	start = time.Now()
	dir := p.outputDir(mode)
	artifacts := []sink.Artifact{
		{RunID: runID, Mode: mode, Name: ArffName(mode), Dir: dir, Content: serializer.RenderARFF(table)},
		{RunID: runID, Mode: mode, Name: IndexDumpName(mode), Dir: dir, Content: serializer.RenderIndex(ix)},
	}
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if err := p.sink.Write(ctx, a); err != nil {
			return ModeResult{}, err
		}
		names = append(names, a.Name)
	}
	p.metrics.ObserveStage("publish_"+mode, start)

	p.runLogger(ctx).Info("dataset written",
		"mode", mode,
		"relation", table.Relation,
		"rows", len(table.Rows),
		"ham", ham,
		"spam", spam,
		"dir", dir,
	)
	return ModeResult{
		Mode:              mode,
		Index:             ix,
		Table:             table,
		Tokens:            tokens,
		MaxTotalFrequency: maxTotal,
		Artifacts:         names,
	}, nil
}

func (p *Pipeline) runLogger(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx).With("component", "pipeline")
}

func (p *Pipeline) relation(mode string) string {
	if mode == ModeTrain {
		return p.cfg.Pipeline.TrainRelation
	}
	return p.cfg.Pipeline.TestRelation
}

func (p *Pipeline) outputDir(mode string) string {
	if mode == ModeTrain {
		return p.cfg.Output.TrainDir
	}
	return p.cfg.Output.TestDir
}

func completedEvent(res *Result) events.DatasetCompleted {
	summarize := func(m ModeResult) events.ModeSummary {
		ham, spam := m.Table.LabelCounts()
		return events.ModeSummary{
			Mode:              m.Mode,
			Relation:          m.Table.Relation,
			Documents:         m.Index.DocumentCount(),
			Terms:             m.Index.TermCount(),
			Rows:              len(m.Table.Rows),
			HamRows:           ham,
			SpamRows:          spam,
			MissingTerms:      len(m.Table.MissingTerms),
			MaxTotalFrequency: m.MaxTotalFrequency,
			Artifacts:         m.Artifacts,
		}
	}
	return events.DatasetCompleted{
		RunID:       res.RunID,
		CompletedAt: time.Now().UTC(),
		Vocabulary:  len(res.Selection.Vocabulary),
		Modes:       []events.ModeSummary{summarize(res.Train), summarize(res.Test)},
	}
}
