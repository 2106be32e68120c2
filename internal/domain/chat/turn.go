package chat

// Roles of a conversation turn as the generation collaborator expects them.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is a single message in a conversation. Immutable once appended to a
// conversation's history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func UserTurn(text string) Turn  { return Turn{Role: RoleUser, Text: text} }
func ModelTurn(text string) Turn { return Turn{Role: RoleModel, Text: text} }
