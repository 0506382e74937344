// Package prompt holds the extraction instructions sent to the
// completion provider. The schema prompts are the wire contract with
// the model: field names, inclusion rules and worked examples must stay
// stable or extraction quality shifts.
package prompt

import (
	"fmt"

	"github.com/esap-ai/quotescout/internal/model"
)

const productTemplate = `
Extract details of %s from the provided document. If any information is incomplete, ambiguous, or missing, do not guess or fabricate details. Only include information that you are confident is accurate and complete. Provide the results in **JSON format** with the following specifications:

### Fields:
1. **"product_name"**: The full and properly formatted name of the product, including brand and relevant specifications. Avoid truncation or abbreviation. Exclude any entries where the product name is incomplete or unclear.
2. **"price"**: The exact total price of the product should be represented as a decimal number, reflecting the complete, one-time cost. **Do not include any monthly installment, financing, or partial payment amounts.** Ensure the number is preserved as it is without currency symbols, commas, or any other formatting characters.
3. **"currency"**: The currency in which the price is denominated, extracted from the document.
4. **"vat_status"**: A string indicating whether the price is after vat or before vat. Only include this field if the document explicitly provides this information.
5. **"payment_type"**: A string that indicates whether the payment is a "one time payment" or an "installment", based on explicit information in the document. If the payment type is not explicitly provided, do not include this field.
6. **"vendor_name"**: The name of the vendor selling the product, exactly as provided in the document. Exclude this field if the vendor name is incomplete or not explicitly stated.
7. **"features_of_product"**: Details on the features of the product as provided in the document. Include this field only if the information is complete and reliable.
8. **"source"**: The URL of the document from which the product details were extracted.
9. **"customer_rating"**: The customer rating for the product as provided in the document. Include this field only if the information is explicitly stated and complete.

### Output Style:
[
    {
        "product_name": "Full product name with accurate details",
        "price": price,
        "currency": "Currency code (e.g., USD, SAR)",
        "vat_status": "after vat / before vat",
        "payment_type": "one time payment / installment",
        "vendor_name": "Vendor name as per document",
        "features_of_product": "Product features details, if provided",
        "source": "URL of the document",
        "customer_rating": "Customer rating details if available"
    },
    {
        "product_name": "Another valid product name",
        "price": price,
        "currency": "Currency code (e.g., USD, SAR)",
        "vat_status": "after vat / before vat",
        "payment_type": "one time payment / installment",
        "vendor_name": "Vendor name as per document",
        "features_of_product": "Product features details, if provided",
        "source": "URL of the document",
        "customer_rating": "Customer rating details if available"
    }
]

### Important Notes:
1. Extract data strictly based on the provided document chunks. Do not infer or create information beyond what is present.
2. Include entries only when all fields are complete and reliable.
3. Properly format product names with capitalization and full details.
4. For the "price" field, ensure that only the full product price is provided, excluding any installment or financing details.
5. For the "currency" field, use the currency explicitly mentioned in the document.
6. For the "vat_status" field, extract the information indicating if the price is before vat or after vat as stated in the document. If not explicitly stated, do not include this field.
7. For the "payment_type" field, determine if the payment method is one time payment or installment as explicitly mentioned in the document. If not explicitly mentioned, do not include this field.
8. For the "vendor_name" field, include the vendor name exactly as it appears in the document if it is complete and reliable.
9. For the "customer_rating" field, include product review or quality information only if it is explicitly provided and complete.
10. For the "source" field, use the URL provided in the document metadata.
11. If no valid information is available, output an empty JSON array.
`

const emailPrompt = `
Extract all valid email addresses from the provided document. Do not guess or fabricate any details; only include information that is complete, unambiguous, and reliable. Provide the results in **JSON format** with the following specifications:

### Fields:
1. **"email"**: The complete and properly formatted email address (e.g., example@domain.com). Exclude any addresses that are incomplete or improperly formatted.
2. **"source"**: The URL of the document from which the email address was extracted, taken from the document metadata.

### Output Style:
[
    {
        "email": "example@domain.com",
        "source": "URL of the document"
    },
    {
        "email": "another@example.com",
        "source": "URL of the document"
    }
]

### Important Notes:
1. Extract data strictly based on the provided document chunks. Do not infer or create information beyond what is present.
2. Include entries only when both **"email"** and **"source"** fields are complete and reliable. Exclude any entry where either field is missing or uncertain.
3. Ensure that each email address adheres to standard email formatting rules.
4. For the **"source"** field, use the URL provided in the document metadata.
5. If no valid information is available in the document chunks, output an empty JSON array:
` + "  ```json\n  []\n"

// ForKind returns the schema prompt for an extraction kind. The product
// prompt embeds the user query; the email prompt is fixed.
func ForKind(kind model.ExtractKind, query string) string {
	if kind == model.KindEmail {
		return emailPrompt
	}
	return fmt.Sprintf(productTemplate, query)
}

// Envelope wraps a schema prompt and one chunk into the completion
// request body, carrying the chunk source as metadata so the model can
// fill the "source" field.
func Envelope(schemaPrompt string, chunk model.RankedChunk) string {
	return fmt.Sprintf(`
Query: %s
Context: %s
Metadata: {"source": %q}
Provide the most accurate and concise response based on the context and query:
`, schemaPrompt, chunk.Content, chunk.Source)
}
