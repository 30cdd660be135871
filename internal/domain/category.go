package domain

// Category groups products in the storefront navigation.
type Category struct {
	ID          string        `json:"id" dynamodbav:"id"`
	Name        string        `json:"name" dynamodbav:"name"`
	Description string        `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Priority    *int          `json:"priority,omitempty" dynamodbav:"priority,omitempty"`
	Image       ImageVariants `json:"image,omitempty" dynamodbav:"image,omitempty"`
	IsActive    bool          `json:"isActive" dynamodbav:"isActive"`
	CreatedAt   int64         `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   int64         `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}
