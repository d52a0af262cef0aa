package pricing

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/internal/configurator"
	"github.com/wmbgolfco/engraving-backend/pkg/config"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

// Fees is the fee table the engine prices against.
type Fees struct {
	WedgeEngravingFee decimal.Decimal
	PerLetterFee      decimal.Decimal
	PatternFee        decimal.Decimal
}

// FeesFromConfig copies the configured fee table.
func FeesFromConfig(cfg config.PricingConfig) Fees {
	return Fees{
		WedgeEngravingFee: cfg.WedgeEngravingFee,
		PerLetterFee:      cfg.PerLetterFee,
		PatternFee:        cfg.PatternFee,
	}
}

// Engine computes display prices. It holds no mutable state.
type Engine struct {
	fees Fees
}

func NewEngine(fees Fees) (*Engine, error) {
	if fees.WedgeEngravingFee.IsNegative() || fees.PerLetterFee.IsNegative() || fees.PatternFee.IsNegative() {
		return nil, fmt.Errorf("pricing fees must not be negative")
	}
	return &Engine{fees: fees}, nil
}

func (e *Engine) Fees() Fees {
	return e.fees
}

// ComputePrice maps a configuration to its unit price, rounded to pence.
// Quote-only categories have no self-service price and return a QUOTE_ONLY
// error.
func (e *Engine) ComputePrice(cat catalog.Category, st configurator.State) (decimal.Decimal, error) {
	if cat.ID != st.CategoryID {
		return decimal.Zero, pkgerrors.Newf(pkgerrors.CodeValidation, "configuration is for %q, not %q", st.CategoryID, cat.ID)
	}
	if cat.IsCustomQuoteOnly {
		return decimal.Zero, pkgerrors.Newf(pkgerrors.CodeQuoteOnly, "%s are priced by quote", cat.DisplayName)
	}

	var price decimal.Decimal
	switch {
	case cat.IsAccessory():
		price = accessoryPrice(cat, st.Flow)
	case st.Flow == enums.FlowProductPage:
		price = e.productPageClubPrice(cat, st)
	default:
		price = e.engravingClubPrice(st)
	}
	return price.Round(2), nil
}

// Accessories cost the category price whatever the personalisation.
func accessoryPrice(cat catalog.Category, flow enums.ConfiguratorFlow) decimal.Decimal {
	if flow == enums.FlowProductPage && cat.ProductPagePrice.IsPositive() {
		return cat.ProductPagePrice
	}
	return cat.BasePrice
}

func (e *Engine) engravingClubPrice(st configurator.State) decimal.Decimal {
	if st.ConfigurationType == enums.ConfigurationPatterns && st.Pattern.IsActive() {
		return e.fees.WedgeEngravingFee
	}
	return decimal.Zero
}

func (e *Engine) productPageClubPrice(cat catalog.Category, st configurator.State) decimal.Decimal {
	letters := decimal.NewFromInt(int64(utf8.RuneCountInString(st.Initials)))
	price := cat.ProductPagePrice.Add(e.fees.PerLetterFee.Mul(letters))
	if st.ConfigurationType == enums.ConfigurationPatterns && st.Pattern.IsActive() {
		price = price.Add(e.fees.PatternFee)
	}
	return price
}
