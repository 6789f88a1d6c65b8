package validate

import "fmt"

// Severity is the type of a validation message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Message is one validation finding.
type Message struct {
	Type      Severity `json:"type" yaml:"type"`
	Message   string   `json:"message" yaml:"message"`
	ElementID string   `json:"elementId,omitempty" yaml:"element_id,omitempty"`
}

func (m Message) String() string {
	if m.ElementID == "" {
		return fmt.Sprintf("[%s] %s", m.Type, m.Message)
	}
	return fmt.Sprintf("[%s] %s (%s)", m.Type, m.Message, m.ElementID)
}

// Result is the outcome of one validation pass. IsValid is true when no
// message has error severity.
type Result struct {
	IsValid      bool      `json:"isValid" yaml:"is_valid"`
	ErrorCount   int       `json:"errorCount" yaml:"error_count"`
	WarningCount int       `json:"warningCount" yaml:"warning_count"`
	Messages     []Message `json:"messages" yaml:"messages"`
}

// Errors returns the error messages in order.
func (r *Result) Errors() []Message {
	return r.filter(SeverityError)
}

// Warnings returns the warning messages in order.
func (r *Result) Warnings() []Message {
	return r.filter(SeverityWarning)
}

func (r *Result) filter(sev Severity) []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Type == sev {
			out = append(out, m)
		}
	}
	return out
}

func newResult(messages []Message) *Result {
	res := &Result{Messages: messages}
	if res.Messages == nil {
		res.Messages = []Message{}
	}
	for _, m := range res.Messages {
		switch m.Type {
		case SeverityError:
			res.ErrorCount++
		case SeverityWarning:
			res.WarningCount++
		}
	}
	res.IsValid = res.ErrorCount == 0
	return res
}

func errorf(elementID, format string, args ...interface{}) Message {
	return Message{Type: SeverityError, Message: fmt.Sprintf(format, args...), ElementID: elementID}
}

func warningf(elementID, format string, args ...interface{}) Message {
	return Message{Type: SeverityWarning, Message: fmt.Sprintf(format, args...), ElementID: elementID}
}
