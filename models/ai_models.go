package models

// AIAssistantRequest defines the structure for requests to the AI assistant.
type AIAssistantRequest struct {
	ProductCode string `json:"product_code"`
	Prompt      string `json:"prompt,omitempty"`
}

// AiAnalysis contains the qualitative insights for one product. It is
// produced by the rule-based analyzer by default and by the Gemini model
// when an API key is configured.
type AiAnalysis struct {
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}
