package storefront

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wmbgolfco/engraving-backend/internal/basket"
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/internal/configurator"
	"github.com/wmbgolfco/engraving-backend/internal/logos"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/money"
	"github.com/wmbgolfco/engraving-backend/pkg/storage"
)

type priceEngine interface {
	ComputePrice(cat catalog.Category, st configurator.State) (decimal.Decimal, error)
}

type logoDispatcher interface {
	Dispatch(ctx context.Context, upload logos.Upload) error
}

// Service turns configurator input into quotes and basket lines.
type Service interface {
	Quote(ctx context.Context, input configurator.Input) (*Quote, error)
	AddToBasket(ctx context.Context, basketID string, req AddRequest) (*basket.Basket, basket.LineItem, error)
}

// Quote is the live preview of a configuration.
type Quote struct {
	CategoryID     enums.CategoryID `json:"category_id"`
	DisplayName    string           `json:"display_name"`
	ImageRef       string           `json:"image_ref,omitempty"`
	Initials       string           `json:"initials,omitempty"`
	Price          *decimal.Decimal `json:"price"`
	FormattedPrice string           `json:"formatted_price,omitempty"`
	QuoteOnly      bool             `json:"quote_only"`
	CanAddToBasket bool             `json:"can_add_to_basket"`
	Reason         string           `json:"reason,omitempty"`
	Disclaimer     string           `json:"disclaimer,omitempty"`
}

// LogoFile is an uploaded logo for a logo-mode accessory.
type LogoFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

type AddRequest struct {
	Config   configurator.Input
	Quantity int
	Logo     *LogoFile
}

type ServiceParams struct {
	Catalog *catalog.Catalog
	Pricing priceEngine
	Baskets basket.Service
	Storage storage.Uploader
	Logos   logoDispatcher
	Logger  *logger.Logger
	Clock   func() time.Time
	MaxLogo int64
}

type service struct {
	catalog *catalog.Catalog
	pricing priceEngine
	baskets basket.Service
	storage storage.Uploader
	logos   logoDispatcher
	logg    *logger.Logger
	now     func() time.Time
	maxLogo int64
}

const defaultMaxLogoBytes = 10 * 1024 * 1024

func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog required")
	}
	if params.Pricing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pricing engine required")
	}
	if params.Baskets == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "basket service required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file storage required")
	}
	if params.Logos == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logo dispatcher required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	if params.MaxLogo <= 0 {
		params.MaxLogo = defaultMaxLogoBytes
	}
	return &service{
		catalog: params.Catalog,
		pricing: params.Pricing,
		baskets: params.Baskets,
		storage: params.Storage,
		logos:   params.Logos,
		logg:    params.Logger,
		now:     params.Clock,
		maxLogo: params.MaxLogo,
	}, nil
}

func (s *service) Quote(_ context.Context, input configurator.Input) (*Quote, error) {
	session, err := configurator.Build(s.catalog, input)
	if err != nil {
		return nil, err
	}
	cat, _ := session.Category()
	st := session.State()

	q := &Quote{
		CategoryID:  cat.ID,
		DisplayName: session.DisplayName(),
		ImageRef:    session.ImageRef(),
		Initials:    st.Initials,
		QuoteOnly:   session.QuoteOnly(),
		Disclaimer:  cat.DisclaimerText,
	}
	if !q.QuoteOnly {
		price, err := s.pricing.ComputePrice(cat, st)
		if err != nil {
			return nil, err
		}
		q.Price = &price
		q.FormattedPrice = money.FormatGBP(price)
	}
	if err := session.Validate(); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			q.Reason = typed.Message()
		} else {
			q.Reason = err.Error()
		}
	} else {
		q.CanAddToBasket = true
	}
	return q, nil
}

// AddToBasket validates and prices the configuration, stores any logo and
// appends the line. The workshop is notified about the logo after the line
// exists so the notification carries the line id.
func (s *service) AddToBasket(ctx context.Context, basketID string, req AddRequest) (*basket.Basket, basket.LineItem, error) {
	input := req.Config
	if req.Logo != nil {
		if len(req.Logo.Content) == 0 {
			return nil, basket.LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "No logo file provided")
		}
		if int64(len(req.Logo.Content)) > s.maxLogo {
			return nil, basket.LineItem{}, pkgerrors.Newf(pkgerrors.CodePayloadTooLarge, "File %s exceeds %dMB limit", req.Logo.FileName, s.maxLogo/(1024*1024))
		}
		input.Logo = &configurator.LogoAsset{FileName: req.Logo.FileName, ContentType: req.Logo.ContentType}
	}

	session, err := configurator.Build(s.catalog, input)
	if err != nil {
		return nil, basket.LineItem{}, err
	}
	if err := session.Validate(); err != nil {
		return nil, basket.LineItem{}, err
	}
	cat, _ := session.Category()
	st := session.State()

	price, err := s.pricing.ComputePrice(cat, st)
	if err != nil {
		return nil, basket.LineItem{}, err
	}

	attrs := lineAttributes(cat, st)
	keepLogo := st.Logo != nil && st.Mode == enums.PersonalisationLogo && req.Logo != nil
	if keepLogo {
		key := fmt.Sprintf("logos/%s/%d-%s", basketID, s.now().UnixMilli(), storage.SanitizeFileName(req.Logo.FileName))
		obj, err := s.storage.Put(ctx, key, req.Logo.ContentType, bytes.NewReader(req.Logo.Content))
		if err != nil {
			return nil, basket.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to store logo")
		}
		attrs.LogoFileName = req.Logo.FileName
		attrs.LogoRef = obj.URL
	}

	b, line, err := s.baskets.AddItem(ctx, basketID, basket.NewItem{
		CategoryID:  cat.ID,
		DisplayName: session.DisplayName(),
		UnitPrice:   price,
		Quantity:    req.Quantity,
		ImageRef:    session.ImageRef(),
		Attributes:  attrs,
	})
	if err != nil {
		return nil, basket.LineItem{}, err
	}

	if keepLogo {
		err := s.logos.Dispatch(ctx, logos.Upload{
			FileName:    req.Logo.FileName,
			ContentType: req.Logo.ContentType,
			Content:     req.Logo.Content,
			ProductName: line.DisplayName,
			Category:    cat.DisplayName,
			OrderID:     line.ID,
		})
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "line_item_id", line.ID), "storefront.logo_dispatch_skipped")
		}
	}
	return b, line, nil
}

// lineAttributes keeps only the selections that shaped the item: accessory
// fields follow the chosen mode, clubs carry pattern and configuration type.
func lineAttributes(cat catalog.Category, st configurator.State) basket.Attributes {
	attrs := basket.Attributes{
		Flow:  st.Flow,
		Mode:  st.Mode,
		Notes: strings.TrimSpace(st.Notes),
	}

	if cat.IsAccessory() {
		switch st.Mode {
		case enums.PersonalisationInitials:
			attrs.Initials = st.Initials
			attrs.Font = st.Font
		case enums.PersonalisationName:
			attrs.NameText = st.NameText
			attrs.Font = st.Font
		}
		if cat.AllowsColourVariant {
			attrs.Colour = st.Colour
		}
		return attrs
	}

	attrs.ConfigurationType = st.ConfigurationType
	if st.Pattern.IsActive() {
		attrs.Pattern = st.Pattern
	}
	if st.Flow == enums.FlowProductPage {
		attrs.Initials = st.Initials
	}
	return attrs
}
