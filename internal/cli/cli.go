package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/psviderski/cpualloc/internal/catalog"
	"github.com/psviderski/cpualloc/internal/cli/config"
	"github.com/psviderski/cpualloc/internal/fs"
	"github.com/psviderski/cpualloc/pkg/allocator"
	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

var (
	ErrNoCatalog      = errors.New("catalog not specified, use --catalog flag or set 'catalog' in the config file")
	ErrInvalidRequest = errors.New("invalid request")
)

type CLI struct {
	config *config.Config
	loader *catalog.Loader
}

func New(configPath string) (*CLI, error) {
	cfg, err := config.NewFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read cpualloc config: %w", err)
	}
	return &CLI{
		config: cfg,
		loader: catalog.NewLoader(),
	}, nil
}

func (cli *CLI) Config() *config.Config {
	return cli.config
}

// CatalogOptions selects the catalog to load and the regions to keep.
type CatalogOptions struct {
	// Source is a catalog path or URL that overrides the one from the config.
	Source  string
	Regions []string
}

// LoadCatalog loads the catalog of offers from the source or the config and filters it by regions.
func (cli *CLI) LoadCatalog(ctx context.Context, opts CatalogOptions) ([]api.Offer, error) {
	source := opts.Source
	if source == "" {
		source = cli.config.Catalog
	}
	if source == "" {
		return nil, ErrNoCatalog
	}
	if !catalog.IsURL(source) {
		source = fs.ExpandHomeDir(source)
	}

	var offers []api.Offer
	load := func() error {
		var err error
		offers, err = cli.loader.Load(ctx, source)
		return err
	}
	var err error
	if catalog.IsURL(source) && IsStdinTerminal() {
		err = spinner.New().
			Title(" Fetching catalog...").
			Type(spinner.MiniDot).
			Style(lipgloss.NewStyle().Foreground(lipgloss.Color("3"))).
			ActionWithErr(func(context.Context) error {
				return load()
			}).
			Run()
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}

	if len(opts.Regions) > 0 {
		regions := mapset.NewThreadUnsafeSet(opts.Regions...)
		if unknown := regions.Difference(mapset.NewThreadUnsafeSet(catalog.Regions(offers)...)); unknown.Cardinality() > 0 {
			slog.Warn("Regions not found in the catalog.", "regions", unknown.ToSlice())
		}
		offers = catalog.Filter(offers, regions)
	}
	return offers, nil
}

// RequestOptions are the request parameters specified on the command line. Nil or zero fields are not set.
type RequestOptions struct {
	// File is a request file that overrides the file from the config.
	File     string
	Hours    int
	MinCPUs  *int
	MaxPrice *decimal.Decimal
}

// BuildRequest assembles an allocation request from the config, the request file, and the command line options,
// in increasing order of precedence.
func (cli *CLI) BuildRequest(opts RequestOptions) (api.Request, error) {
	req := api.Request{
		Hours:    cli.config.Request.Hours,
		MinCPUs:  cli.config.Request.MinCPUs,
		MaxPrice: cli.config.Request.MaxPrice,
	}

	file := opts.File
	if file == "" {
		file = cli.config.Request.File
	}
	if file != "" {
		rf, err := config.LoadRequestFile(fs.ExpandHomeDir(file))
		if err != nil {
			return api.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		rf.Apply(&req)
	}

	if opts.Hours != 0 {
		req.Hours = opts.Hours
	}
	if opts.MinCPUs != nil {
		req.MinCPUs = opts.MinCPUs
	}
	if opts.MaxPrice != nil {
		req.MaxPrice = opts.MaxPrice
	}

	if err := req.Validate(); err != nil {
		return api.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}

// Allocate loads the catalog and runs the allocation strategy that matches the request.
func (cli *CLI) Allocate(ctx context.Context, catalogOpts CatalogOptions, req api.Request) (allocator.Result, error) {
	offers, err := cli.LoadCatalog(ctx, catalogOpts)
	if err != nil {
		return allocator.Result{}, err
	}
	a, err := allocator.New(offers)
	if err != nil {
		return allocator.Result{}, err
	}
	return a.Allocate(req)
}
