package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wmbgolfco/engraving-backend/internal/basket"
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// PostageTitles names the storefront products injected as surcharges.
type PostageTitles struct {
	Standard   string
	ClubReturn string
}

// Assembly is the outcome of mapping a basket to external lines. Failures
// are human-readable and do not abort the assembly.
type Assembly struct {
	Lines    []Line
	Failures []string
}

// AssemblerParams groups dependencies for the assembler.
type AssemblerParams struct {
	Catalog     *catalog.Catalog
	Resolver    *Resolver
	Postage     PostageTitles
	Concurrency int
	Logger      *logger.Logger
	Metrics     *metrics.CheckoutMetrics
}

type Assembler struct {
	catalog     *catalog.Catalog
	resolver    *Resolver
	postage     PostageTitles
	concurrency int
	logg        *logger.Logger
	metrics     *metrics.CheckoutMetrics
}

func NewAssembler(params AssemblerParams) (*Assembler, error) {
	if params.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if params.Resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if params.Postage.Standard == "" || params.Postage.ClubReturn == "" {
		return nil, errors.New("postage titles are required")
	}
	if params.Concurrency < 1 {
		params.Concurrency = 1
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &Assembler{
		catalog:     params.Catalog,
		resolver:    params.Resolver,
		postage:     params.Postage,
		concurrency: params.Concurrency,
		logg:        params.Logger,
		metrics:     params.Metrics,
	}, nil
}

type itemResult struct {
	line    *Line
	failure string
	family  enums.CategoryFamily
}

// AssembleLines resolves every item concurrently, keeps basket order, then
// appends at most one standard and one club-return postage line.
func (a *Assembler) AssembleLines(ctx context.Context, items []basket.LineItem) Assembly {
	started := time.Now()
	defer func() { a.metrics.ObserveAssembly(time.Since(started)) }()

	results := make([]itemResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			results[i] = a.assembleItem(gctx, items[i])
			return nil
		})
	}
	_ = g.Wait()

	var out Assembly
	needsStandard, needsClubReturn := false, false
	for _, res := range results {
		if res.failure != "" {
			out.Failures = append(out.Failures, res.failure)
			continue
		}
		out.Lines = append(out.Lines, *res.line)
		switch res.family {
		case enums.CategoryFamilyAccessory:
			needsStandard = true
		case enums.CategoryFamilyClub:
			needsClubReturn = true
		}
	}

	// Postage is only decided once every item has been resolved.
	if needsStandard {
		a.appendPostage(ctx, &out, a.postage.Standard)
	}
	if needsClubReturn {
		a.appendPostage(ctx, &out, a.postage.ClubReturn)
	}
	return out
}

func (a *Assembler) assembleItem(ctx context.Context, item basket.LineItem) itemResult {
	cat, err := a.catalog.Get(item.CategoryID)
	if err != nil {
		a.metrics.IncResolutionFailure("category")
		return itemResult{failure: fmt.Sprintf("Unknown product type: %s", item.CategoryID)}
	}
	variantID := a.resolver.ResolveProduct(ctx, cat.ExternalHandle, cat.ExternalTitle)
	if variantID == "" {
		a.metrics.IncResolutionFailure("product")
		name := cat.ExternalTitle
		if name == "" {
			name = cat.ExternalHandle
		}
		return itemResult{failure: fmt.Sprintf("Shopify product not found: %q. Please ensure the product exists in your Shopify store.", name)}
	}
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	return itemResult{
		line: &Line{
			MerchandiseID: variantID,
			Quantity:      qty,
			Attributes:    a.attributes(item),
		},
		family: cat.Family,
	}
}

// attributes builds the back-office attribute list in its fixed order.
func (a *Assembler) attributes(item basket.LineItem) []Attribute {
	attrs := item.Attributes
	name := item.DisplayName
	if name == "" {
		name = defaultItemName
	}
	out := []Attribute{
		{Key: attrProductType, Value: string(item.CategoryID)},
		{Key: attrItemName, Value: name},
	}
	if item.UnitPrice.IsPositive() {
		out = append(out, Attribute{Key: attrPrice, Value: item.UnitPrice.StringFixed(2)})
	}
	if attrs.Pattern.IsActive() {
		out = append(out, Attribute{Key: attrPattern, Value: a.catalog.PatternLabel(attrs.Pattern)})
	}
	if attrs.Initials != "" {
		out = append(out, Attribute{Key: attrInitials, Value: attrs.Initials})
	}
	if attrs.Font != "" {
		out = append(out, Attribute{Key: attrFont, Value: a.catalog.FontLabel(attrs.Font)})
	}
	if attrs.Colour != "" {
		label := string(attrs.Colour)
		if opt, ok := a.catalog.Colour(attrs.Colour); ok {
			label = opt.Label
		}
		out = append(out, Attribute{Key: attrColour, Value: label})
	}
	if attrs.NameText != "" {
		out = append(out, Attribute{Key: attrNameText, Value: attrs.NameText})
	}
	if attrs.ConfigurationType != "" {
		out = append(out, Attribute{Key: attrConfiguration, Value: string(attrs.ConfigurationType)})
	}
	if attrs.Notes != "" {
		out = append(out, Attribute{Key: attrNotes, Value: attrs.Notes})
	}
	if ref := logoReference(attrs); ref != "" {
		out = append(out, Attribute{Key: attrLogoFile, Value: ref})
	}
	return out
}

func logoReference(attrs basket.Attributes) string {
	if attrs.LogoRef != "" {
		return attrs.LogoRef
	}
	return attrs.LogoFileName
}

func (a *Assembler) appendPostage(ctx context.Context, out *Assembly, title string) {
	variantID := a.resolver.ResolveTitle(ctx, title)
	if variantID == "" {
		a.metrics.IncResolutionFailure("postage")
		out.Failures = append(out.Failures, fmt.Sprintf("Postage product not found: %q. Please ensure this product exists in Shopify.", title))
		return
	}
	out.Lines = append(out.Lines, Line{
		MerchandiseID: variantID,
		Quantity:      1,
		Attributes:    []Attribute{{Key: attrPostageType, Value: title}},
	})
}
