package models

// CatalogOption is a read-only entry of a gateway catalog (network, biller, plan, package, provider)
type CatalogOption struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Currency      string   `json:"currency,omitempty"`
	Prefixes      []string `json:"prefixes,omitempty"`
	Price         string   `json:"price,omitempty"`
	OperatorPrice string   `json:"operatorPrice,omitempty"`
	// MinAmount and MaxAmount describe a variable-price band. Display only.
	MinAmount string `json:"minAmount,omitempty"`
	MaxAmount string `json:"maxAmount,omitempty"`
}

// ConfirmRow is one label/value line of the confirm summary
type ConfirmRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Beneficiary is a saved recipient, unique by phone
type Beneficiary struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}
