package inference

// Request is an inbound inference call as decoded from POST /infer.
type Request struct {
	Prompt       string  `json:"prompt" validate:"required"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
	MaxTokens    *int    `json:"max_tokens,omitempty" validate:"omitempty,gt=0"`
	Tenant       *string `json:"tenant,omitempty"`

	// RequestID correlates the upstream call with the inbound request
	RequestID string `json:"-"`
}

// Result is the successful answer to an inference call.
type Result struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"system_prompt"`
	Response     string `json:"response"`
	Tenant       string `json:"tenant"`
	Model        string `json:"model"`
	Backend      string `json:"backend"`
}

// DefaultTenant tags requests that carry no tenant.
const DefaultTenant = "unknown"
