package domain

// Banner is a storefront banner entry.
type Banner struct {
	ID        string        `json:"id" dynamodbav:"id"`
	Category  string        `json:"category,omitempty" dynamodbav:"category,omitempty"`
	Name      string        `json:"name" dynamodbav:"name"`
	Image     ImageVariants `json:"image,omitempty" dynamodbav:"image,omitempty"`
	IsActive  bool          `json:"isActive" dynamodbav:"isActive"`
	CreatedAt int64         `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt int64         `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}
