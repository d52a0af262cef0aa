package checkout

// Attribute is an ordered key/value pair shown on the order in the merchant
// back office. Attributes never affect the transactional price.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Line is one entry of the external cart.
type Line struct {
	MerchandiseID string      `json:"merchandiseId"`
	Quantity      int         `json:"quantity"`
	Attributes    []Attribute `json:"attributes"`
}

// Cart is the remote cart created for a single checkout attempt.
type Cart struct {
	ID          string
	CheckoutURL string
}

// Result is returned to the shopper after a successful handoff.
type Result struct {
	CheckoutURL string   `json:"checkout_url"`
	CartID      string   `json:"cart_id"`
	Warnings    []string `json:"warnings"`
}

const (
	attrProductType   = "Product Type"
	attrItemName      = "Item Name"
	attrPrice         = "_price"
	attrPattern       = "Pattern"
	attrInitials      = "Initials"
	attrFont          = "Font"
	attrColour        = "Colour"
	attrNameText      = "Name Text"
	attrConfiguration = "Configuration"
	attrNotes         = "Notes"
	attrLogoFile      = "Logo File"
	attrPostageType   = "Type"

	defaultItemName = "Custom Engraving"
)
