package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/idscan/internal/barcode"
	"github.com/hyperifyio/idscan/internal/extract"
	"github.com/hyperifyio/idscan/internal/fetch"
	"github.com/hyperifyio/idscan/internal/fields"
	"github.com/hyperifyio/idscan/internal/record"
)

// Fetcher retrieves the document behind a barcode URL.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

type App struct {
	cfg       Config
	decoder   barcode.Decoder
	fetcher   Fetcher
	extractor extract.Extractor
	matcher   *fields.Matcher
}

// Option replaces one collaborator, mainly for tests.
type Option func(*App)

func WithDecoder(d barcode.Decoder) Option { return func(a *App) { a.decoder = d } }

func WithFetcher(f Fetcher) Option { return func(a *App) { a.fetcher = f } }

func WithExtractor(e extract.Extractor) Option { return func(a *App) { a.extractor = e } }

// ErrNoImagePath is returned by Run when cfg.ImagePath is empty.
var ErrNoImagePath = errors.New("no image path given")

func New(cfg Config, opts ...Option) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	m, err := fields.NewMatcher(cfg.Patterns)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	a := &App{
		cfg:     cfg,
		decoder: barcode.ZXingDecoder{TryHarder: cfg.TryHarder},
		fetcher: &fetch.Client{
			UserAgent:         cfg.UserAgent,
			PerRequestTimeout: cfg.Timeout,
			RedirectMaxHops:   cfg.MaxRedirects,
			HTTPClient:        newFetchHTTPClient(cfg.Timeout),
		},
		extractor: extract.TextExtractor{},
		matcher:   m,
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Run loads the configured image, processes every barcode on it and writes the
// resulting record to w as one line of JSON. Only input problems are returned
// as errors; per-barcode failures end up in the record.
func (a *App) Run(ctx context.Context, w io.Writer) error {
	if a.cfg.ImagePath == "" {
		return &InputError{Op: "usage", Err: ErrNoImagePath}
	}
	img, err := barcode.LoadImage(a.cfg.ImagePath)
	if err != nil {
		return &InputError{Op: "read image", Path: a.cfg.ImagePath, Err: err}
	}
	rec, err := a.Extract(ctx, img)
	if err != nil {
		return err
	}
	return record.Encode(w, rec)
}

// Extract decodes the barcodes in img and returns the record of the last one.
// Each barcode starts from an empty record, so earlier passes never leak
// fields into the result.
func (a *App) Extract(ctx context.Context, img image.Image) (*record.Record, error) {
	codes, err := a.decoder.Decode(img)
	if err != nil {
		return nil, &InputError{Op: "decode barcodes", Path: a.cfg.ImagePath, Err: err}
	}
	log.Info().Int("barcodes", len(codes)).Msg("image scanned")

	rec := record.New()
	for i, bc := range codes {
		rec = a.process(ctx, i, bc)
	}
	return rec, nil
}

func (a *App) process(ctx context.Context, i int, bc barcode.Barcode) *record.Record {
	rec := record.New()
	url, err := bc.Text()
	if err != nil {
		perr := &PayloadError{Index: i, Err: err}
		log.Warn().Err(perr).Str("format", bc.Format).Msg("unreadable barcode payload")
		rec.Set(record.KeyError, perr.Error())
		return rec
	}
	log.Debug().Int("index", i).Str("format", bc.Format).Str("url", url).Msg("fetching")

	body, contentType, err := a.fetcher.Get(ctx, url)
	if err != nil {
		ferr := &FetchError{URL: url, Err: err}
		log.Warn().Err(ferr).Msg("fetch failed")
		rec.Set(record.KeyError, ferr.Error())
		return rec
	}

	doc := a.extractor.Extract(body)
	n := a.matcher.Apply(rec, doc.Text)
	rec.Set(record.KeyURL, url)
	log.Debug().Int("index", i).Str("content_type", contentType).Int("fields", n).Int("chars", len(doc.Text)).Msg("page matched")
	return rec
}
