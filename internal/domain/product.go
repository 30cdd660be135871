package domain

// Product is a catalog item. Prices and quantity arrive as form text and are
// coerced before the struct is built; old_price serializes as null when unset.
type Product struct {
	ID        string        `json:"id" dynamodbav:"id"`
	Category  string        `json:"category" dynamodbav:"category"`
	Desc      string        `json:"desc" dynamodbav:"desc"`
	Name      string        `json:"name" dynamodbav:"name"`
	NewPrice  float64       `json:"new_price" dynamodbav:"new_price"`
	OldPrice  *float64      `json:"old_price" dynamodbav:"old_price"`
	Quantity  int           `json:"quantity" dynamodbav:"quantity"`
	Season    string        `json:"season" dynamodbav:"season"`
	Type      string        `json:"type" dynamodbav:"type"`
	Image     ImageVariants `json:"image,omitempty" dynamodbav:"image,omitempty"`
	CreatedAt int64         `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt int64         `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}
