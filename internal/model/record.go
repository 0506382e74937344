package model

// Missing is the explicit sentinel for a product field that the model
// did not supply. It is a value, not an omission: downstream consumers
// can distinguish "present", "explicitly empty" and "absent". The
// trailing space is part of the wire contract with existing consumers.
const Missing = "Null "

// ProductRecord is one extracted product listing. Price holds an int64
// (no decimal point in the source), a float64, or the Missing sentinel
// string when the price could not be parsed.
type ProductRecord struct {
	ProductName       string `json:"product_name"`
	Price             any    `json:"price"`
	Currency          string `json:"currency"`
	Source            string `json:"source"`
	VATStatus         string `json:"vat_status"`
	PaymentType       string `json:"payment_type"`
	VendorName        string `json:"vendor_name"`
	FeaturesOfProduct string `json:"features_of_product"`
	CustomerRating    string `json:"customer_rating"`
}

// PriceValue returns the numeric price and true, or 0 and false when
// the price is the Missing sentinel (or otherwise non-numeric).
func (r ProductRecord) PriceValue() (float64, bool) {
	switch v := r.Price.(type) {
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// EmailRecord is one extracted email contact.
type EmailRecord struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

// ProductResults is the product extraction response payload. FinalData
// holds cleanly parsed records sorted by price; InvalidJSON holds
// records recovered only through the salvage pass. The two buckets are
// never merged: salvage success does not vouch for the rest of the
// object it came from.
type ProductResults struct {
	FinalData   []ProductRecord `json:"final_data"`
	InvalidJSON []ProductRecord `json:"invalid_json"`
}
