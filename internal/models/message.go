package models

// Role identifies the author of a transcript entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind distinguishes how an assistant entry came to be
type Kind int

const (
	KindMessage   Kind = iota // user input or a normal reply
	KindError                 // backend answered with an error field
	KindCancelled             // user pressed stop
	KindFailure               // transport failure
	KindNotice                // local notice, not from the backend
	KindSeparator             // restore boundary
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindError:
		return "error"
	case KindCancelled:
		return "cancelled"
	case KindFailure:
		return "failure"
	case KindNotice:
		return "notice"
	case KindSeparator:
		return "separator"
	default:
		return "unknown"
	}
}

// ChatMessage is one immutable transcript entry
type ChatMessage struct {
	Role    Role
	Content string
	// Action is the badge label; empty or "chat" shows no badge.
	Action string
	// Output is the command output shown as a separate monospace block.
	Output string
	Data   map[string]interface{}
	Kind   Kind
}

// Clone returns a copy that shares no Data with m
func (m ChatMessage) Clone() ChatMessage {
	if m.Data != nil {
		m.Data = cloneValue(m.Data).(map[string]interface{})
	}
	return m
}

// cloneValue deep-copies decoded JSON
func cloneValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// HasBadge reports whether the action label should be displayed
func (m ChatMessage) HasBadge() bool {
	return m.Action != "" && m.Action != "chat"
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message string `json:"message"`
	UseRAG  bool   `json:"use_rag"`
}

// ChatReply is the parsed body of a chat response
type ChatReply struct {
	Message      string
	Error        string
	ActionTaken  string
	ActionNeeded string
	Query        string
	Data         map[string]interface{}
}

// Action returns the label to show on the reply: action_taken, else action_needed
func (r ChatReply) Action() string {
	if r.ActionTaken != "" {
		return r.ActionTaken
	}
	return r.ActionNeeded
}

// Output returns data.output when it is a non-empty string
func (r ChatReply) Output() string {
	if r.Data == nil {
		return ""
	}
	if s, ok := r.Data["output"].(string); ok {
		return s
	}
	return ""
}

// HistoryEntry is one stored message from /api/chat/history
type HistoryEntry struct {
	Role      Role
	Content   string
	Action    string
	Data      map[string]interface{}
	Timestamp string
}
