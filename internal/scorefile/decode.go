// Package scorefile decodes score and instruction files into typed records.
//
// Score files are produced by external judging pipelines and may be partial,
// so decoding is lenient: every record field is checked against the expected
// shape and mismatches are kept as invalid entries instead of failing the file.
package scorefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-viper/mapstructure/v2"
	"github.com/prxlab/prxdash/internal/models"
)

// ErrNotArray is returned when a file's top-level JSON value is not an array.
var ErrNotArray = errors.New("top-level JSON value is not an array")

// DecodeScores reads a JSON array of score records. Elements that are not
// objects are skipped. metricCount fixes the length of every StyleScores.
func DecodeScores(r io.Reader, metricCount int) ([]models.ScoreRecord, error) {
	elems, err := decodeArray(r)
	if err != nil {
		return nil, err
	}

	records := make([]models.ScoreRecord, 0, len(elems))
	for _, raw := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			continue
		}
		records = append(records, decodeRecord(obj, metricCount))
	}
	return records, nil
}

func decodeArray(r io.Reader) ([]json.RawMessage, error) {
	var doc json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(doc, &elems); err != nil {
		return nil, ErrNotArray
	}
	return elems, nil
}

func decodeRecord(obj map[string]json.RawMessage, metricCount int) models.ScoreRecord {
	rec := models.ScoreRecord{Styles: make(map[string]models.StyleScores, len(obj))}

	rec.PromptID = decodePromptID(obj)
	rec.PromptCount, rec.HasCount = decodePromptCount(obj)

	for key, raw := range obj {
		if models.IsReservedField(key) {
			continue
		}
		rec.Styles[key] = decodeStyleScores(raw, metricCount)
	}
	return rec
}

func decodePromptID(obj map[string]json.RawMessage) string {
	raw, ok := obj[models.FieldPromptID]
	if !ok {
		return ""
	}
	var id string
	if err := weakDecodeField(raw, &id); err != nil {
		return ""
	}
	return id
}

func decodePromptCount(obj map[string]json.RawMessage) (int, bool) {
	raw, ok := obj[models.FieldPromptCount]
	if !ok {
		return 0, false
	}
	var count int
	if err := weakDecodeField(raw, &count); err != nil {
		return 0, false
	}
	return count, true
}

// weakDecodeField converts a raw JSON value into out, accepting numbers for
// strings and numeric strings for ints.
func weakDecodeField(raw json.RawMessage, out any) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	if v == nil {
		return errors.New("null value")
	}
	return mapstructure.WeakDecode(v, out)
}

func decodeStyleScores(raw json.RawMessage, metricCount int) models.StyleScores {
	s := models.StyleScores{
		Values: make([]float64, metricCount),
		Valid:  make([]bool, metricCount),
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return s
	}
	s.IsArray = true
	s.Len = len(elems)

	for i := 0; i < metricCount && i < len(elems); i++ {
		// json.Unmarshal leaves f at 0 for a literal null.
		if bytes.Equal(bytes.TrimSpace(elems[i]), []byte("null")) {
			continue
		}
		var f float64
		if err := json.Unmarshal(elems[i], &f); err != nil {
			continue
		}
		s.Values[i] = f
		s.Valid[i] = true
	}
	return s
}

// DecodeInstructions reads a JSON array of instruction records. The
// instruction_original field is the baseline text; every other string field
// is kept as a paraphrased text keyed by its style.
func DecodeInstructions(r io.Reader) ([]models.Instruction, error) {
	elems, err := decodeArray(r)
	if err != nil {
		return nil, err
	}

	out := make([]models.Instruction, 0, len(elems))
	for _, raw := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			continue
		}

		ins := models.Instruction{PromptID: decodePromptID(obj)}
		ins.PromptCount, _ = decodePromptCount(obj)
		for key, v := range obj {
			if models.IsReservedField(key) {
				continue
			}
			var text string
			if json.Unmarshal(v, &text) != nil {
				continue
			}
			if key == models.BaselineStyle {
				ins.Original = text
				continue
			}
			if ins.Paraphrases == nil {
				ins.Paraphrases = make(map[string]string)
			}
			ins.Paraphrases[key] = text
		}
		out = append(out, ins)
	}
	return out, nil
}
