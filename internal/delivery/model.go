package delivery

import (
	"btoolme/internal/recommend"
)

const (
	MsgSent          = "Recommendations sent successfully"
	MsgMissingData   = "Missing required data"
	MsgSendFailed    = "Failed to send recommendations"
	MsgInvalidBody   = "Invalid request data"
	MsgMethodInvalid = "Method not allowed"
)

// Request is one "send me these recommendations" action.
type Request struct {
	Email           string
	Name            string
	Recommendations []recommend.Recommendation
}

// Role identifies which of the two fan-out recipients a result belongs to.
type Role string

const (
	RoleSubmitter Role = "submitter"
	RoleInternal  Role = "internal"
)

// RecipientResult is the delivery status for one recipient.
type RecipientResult struct {
	Role      Role   `json:"role"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Outcome is what the caller sees. Exactly one of Message and Error is set.
// Success is true only when every recipient succeeded; Recipients carries the detail.
type Outcome struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
	Recipients []RecipientResult `json:"recipients,omitempty"`
}

// ToolSummary is the part of a tool that leaves the process.
type ToolSummary struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Website     string `json:"website" binding:"required,url"`
}

// Item is one recommendation as transmitted; the score is never included.
type Item struct {
	Tool    ToolSummary `json:"tool" binding:"required"`
	Reasons []string    `json:"reasons" binding:"required,min=1,dive,required"`
}

// Payload is the transport-agnostic body handed to a Dispatcher.
type Payload struct {
	Email           string `json:"email" binding:"required,email"`
	Name            string `json:"name" binding:"required,max=200"`
	Recommendations []Item `json:"recommendations" binding:"required,min=1,dive"`
}

// Receipt lists per-recipient results of one dispatch.
type Receipt struct {
	Recipients []RecipientResult
}

// NewPayload projects a request into its transmitted form.
func NewPayload(req Request) Payload {
	items := make([]Item, 0, len(req.Recommendations))
	for _, rec := range req.Recommendations {
		items = append(items, Item{
			Tool: ToolSummary{
				Name:        rec.Tool.Name,
				Description: rec.Tool.Description,
				Category:    string(rec.Tool.Category),
				Website:     rec.Tool.Website,
			},
			Reasons: append([]string(nil), rec.Reasons...),
		})
	}
	return Payload{Email: req.Email, Name: req.Name, Recommendations: items}
}

func (r Receipt) allSucceeded() bool {
	if len(r.Recipients) == 0 {
		return false
	}
	for _, res := range r.Recipients {
		if !res.Success {
			return false
		}
	}
	return true
}
