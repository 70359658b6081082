package dto

// MessageCallbackAccepted acknowledges a callback to the provider.
const MessageCallbackAccepted = "callback accepted"

// CallbackResponse is returned to the provider for every accepted callback.
type CallbackResponse struct {
	Message string `json:"message"`
}
