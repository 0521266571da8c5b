package models

// APIResponse is the JSON envelope returned by every endpoint
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success wraps data in a successful envelope
func Success(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// Failure builds an error envelope; details may be nil
func Failure(msg string, details interface{}) APIResponse {
	return APIResponse{Success: false, Error: msg, Details: details}
}
