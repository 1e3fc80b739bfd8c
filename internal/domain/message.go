package domain

// Message roles accepted in a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LatestUserQuery returns the content of the most recent user turn, which is
// the retrieval query regardless of how many turns preceded it. Returns ""
// when the conversation has no user turn.
func LatestUserQuery(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// Attachment is caller-supplied plain text included in the assembled
// context; the pipeline never retrieves attachments itself.
type Attachment struct {
	Name string `json:"name"`
	Text string `json:"text"`
}
