package access

// ServiceValidateToken is the request-reply service answering bearer checks.
const ServiceValidateToken = "validate-token"

// Principal is the holder of a hosting-context credential.
type Principal struct {
	Name string `json:"name"`
}

// ValidateTokenRequest is the request for validating a bearer token.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the response for validating a bearer token.
// Open is set when no credentials are configured and every caller is let in.
type ValidateTokenResponse struct {
	Valid     bool       `json:"valid"`
	Open      bool       `json:"open"`
	Principal *Principal `json:"principal,omitempty"`
}
