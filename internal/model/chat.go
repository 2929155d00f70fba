package model

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Audience selects the customer facing or the staff facing variant of the
// chat context and log file.
type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudienceInternal Audience = "internal"
)
