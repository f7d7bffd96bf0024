package types

// ------------------------------
// Response Types
// ------------------------------

// GateResult is the verdict of the exam gate check.
type GateResult struct {
	Valid   bool   `json:"valid"`
	ExamID  int64  `json:"exam_id,omitempty"`
	Message string `json:"message,omitempty"`
}
