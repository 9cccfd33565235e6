package models

// DefaultMetricNames is the ordered list of evaluation dimensions every score
// array is laid out against. A metric is identified by its index in this list.
var DefaultMetricNames = []string{
	"Task fulfilment",
	"Usefulness & actionability",
	"Factual accuracy",
	"Efficiency / depth",
	"Reasoning quality",
	"Tone & likeability",
	"Adaptation to context",
	"Safety & bias",
	"Structure & UX",
	"Creativity",
}

// DefaultMetricCount is len(DefaultMetricNames).
const DefaultMetricCount = 10

// BaselineStyle is the style key carrying the unmodified instruction.
const BaselineStyle = "instruction_original"

// Reserved record fields. They identify a record and never name a style.
const (
	FieldPromptID    = "prompt_id"
	FieldPromptCount = "prompt_count"
)

// IsReservedField reports whether a record field is an identifier rather than a style.
func IsReservedField(name string) bool {
	return name == FieldPromptID || name == FieldPromptCount
}
