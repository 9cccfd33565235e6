package models

// StyleScores is one style's decoded value on a single record.
//
// IsArray is false when the JSON value was not an array; such a field still
// names a style but contributes no scores. Values and Valid are parallel and
// always have the configured metric count; Valid[i] is false when the source
// array was too short or held a non-numeric entry at i.
type StyleScores struct {
	IsArray bool
	// Len is the length of the source array, which may differ from len(Values).
	Len    int
	Values []float64
	Valid  []bool
}

// At returns the score at metric index i and whether it is usable.
func (s StyleScores) At(i int) (float64, bool) {
	if !s.IsArray || i < 0 || i >= len(s.Values) || i >= len(s.Valid) {
		return 0, false
	}
	return s.Values[i], s.Valid[i]
}

// Complete reports whether every metric index holds a usable score.
func (s StyleScores) Complete() bool {
	if !s.IsArray || len(s.Valid) == 0 {
		return false
	}
	for _, ok := range s.Valid {
		if !ok {
			return false
		}
	}
	return true
}

// ScoreRecord is one evaluated prompt: the judge scores for each paraphrase
// style the prompt was rewritten into.
type ScoreRecord struct {
	PromptID    string
	PromptCount int
	// HasCount is false when the record carried no usable prompt_count.
	HasCount bool
	Styles   map[string]StyleScores
}

// Instruction is one entry of an instruction file: the original instruction
// text plus any paraphrased texts keyed by style.
type Instruction struct {
	PromptID    string            `json:"prompt_id,omitempty"`
	PromptCount int               `json:"prompt_count,omitempty"`
	Original    string            `json:"instruction_original"`
	Paraphrases map[string]string `json:"paraphrases,omitempty"`
}

// Text returns the instruction text shown for style.
func (i Instruction) Text(style string) (string, bool) {
	if style == BaselineStyle {
		return i.Original, i.Original != ""
	}
	if t, ok := i.Paraphrases[style]; ok {
		return t, true
	}
	return "", false
}
