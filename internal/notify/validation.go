package notify

import (
	"strings"

	"github.com/luisscruza/variantbox/internal/common/validation"
)

// InputSchema describes the submission payload validated at the HTTP
// boundary before the service-level checks run.
func InputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"securityToken", "email", "productId"},
		Properties: map[string]validation.Property{
			"securityToken": {
				Type:        "string",
				Description: "Single-use token issued by the token endpoint",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(128),
			},
			"email": {
				Type:        "string",
				Description: "Requester email address",
				MinLength:   validation.IntPtr(3),
				MaxLength:   validation.IntPtr(255),
			},
			"productId": {
				Type:        "integer",
				Description: "Product identifier",
				Minimum:     validation.Float64Ptr(1),
			},
			"variationId": {
				Type:        "integer",
				Description: "Resolved variation identifier, when known",
			},
			"attribute": {
				Type:        "string",
				Description: "Attribute slug of the clicked box",
				MaxLength:   validation.IntPtr(255),
			},
			"value": {
				Type:        "string",
				Description: "Option value of the clicked box",
				MaxLength:   validation.IntPtr(255),
			},
			"label": {
				Type:        "string",
				Description: "Display label of the clicked option",
				MaxLength:   validation.IntPtr(255),
			},
		},
		AdditionalProperties: false,
	}
}

// isValidEmail is the basic local@domain.tld shape check.
func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}
