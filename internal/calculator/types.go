package calculator

import (
	"sumtutor/internal/addition"
	"sumtutor/internal/history"
	"sumtutor/internal/session"
)

// AddRequest is the JSON body for POST /calculator/add.
type AddRequest struct {
	Operands []string `json:"operands"`
}

// AddResponse is the eager answer: every step with its narration.
type AddResponse struct {
	ID       string                     `json:"id"`
	Operands []string                   `json:"operands"`
	Aligned  addition.AlignedOperandSet `json:"aligned"`
	Steps    []session.Frame            `json:"steps"`
	Result   string                     `json:"result"`
	Equation string                     `json:"equation"`
}

// OperandsRequest replaces a session's operand list.
type OperandsRequest struct {
	Operands []string `json:"operands"`
}

// OperandRequest adds or edits one operand.
type OperandRequest struct {
	Value string `json:"value"`
}

// StartResponse is returned when a session starts stepping.
type StartResponse struct {
	SessionID     string                     `json:"session_id"`
	CalculationID string                     `json:"calculation_id"`
	Aligned       addition.AlignedOperandSet `json:"aligned"`
	Result        string                     `json:"result"`
	Columns       []ColumnResponse           `json:"columns"`
}

// FrameResponse wraps one produced step.
type FrameResponse struct {
	SessionID string        `json:"session_id"`
	Phase     session.Phase `json:"phase"`
	Frame     session.Frame `json:"frame"`
}

// ColumnResponse names one column.
type ColumnResponse struct {
	Index    int    `json:"index"`
	Decimals int    `json:"decimals"`
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
}

// HistoryEntry is one line of the history list.
type HistoryEntry struct {
	history.Calculation
	Equation string `json:"equation"`
}

// HistoryDetail is one stored calculation with its steps recomputed.
type HistoryDetail struct {
	HistoryEntry
	Steps []session.Frame `json:"steps"`
}

// MotivationResponse carries one encouragement phrase.
type MotivationResponse struct {
	Audience string `json:"audience"`
	Phrase   string `json:"phrase"`
}
