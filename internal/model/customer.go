package model

// Customer carries the identity and billing data of the payer. It is owned by
// exactly one payment and can be created ahead of the first authorization.
type Customer struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email,omitempty"`
	Birthdate string `json:"birthDate,omitempty"`

	BillingAddress *Address `json:"billingAddress,omitempty"`
}

// Address is a postal address block of a customer.
type Address struct {
	Name    string `json:"name,omitempty"`
	Street  string `json:"street,omitempty"`
	Zip     string `json:"zip,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

func (c *Customer) ResourcePath() string { return "customers" }

func (c *Customer) RequestBody() (any, error) { return c, nil }

func (c *Customer) HandleResponse(r *TransactionResponse) error {
	if c.ID != "" && r.ID != "" && c.ID != r.ID {
		return &ReferenceMismatchError{Expected: c.ID, Got: r.ID}
	}
	if r.ID != "" {
		c.ID = r.ID
	}
	if r.Resources != nil && r.Resources.CustomerID != "" {
		c.ID = r.Resources.CustomerID
	}
	return nil
}
