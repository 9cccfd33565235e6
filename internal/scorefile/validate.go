package scorefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prxlab/prxdash/internal/models"
	"github.com/prxlab/prxdash/schemas"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

var (
	schemaMu    sync.Mutex
	schemaCache = map[int]*jsonschema.Schema{}
)

// scoreSchema returns the compiled score-file schema for a metric count.
func scoreSchema(metricCount int) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if sch, ok := schemaCache[metricCount]; ok {
		return sch, nil
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(schemas.ScoreFileSchemaJSON), &doc); err != nil {
		return nil, fmt.Errorf("parsing embedded score schema: %w", err)
	}
	items, _ := doc["items"].(map[string]any)
	styles, _ := items["additionalProperties"].(map[string]any)
	if styles == nil {
		return nil, fmt.Errorf("embedded score schema has no style definition")
	}
	styles["minItems"] = metricCount
	styles["maxItems"] = metricCount

	name := fmt.Sprintf("scores-%d.schema.json", metricCount)
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("adding %s resource: %w", name, err)
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	schemaCache[metricCount] = sch
	return sch, nil
}

// Validate checks raw score-file bytes against the score schema and returns
// one message per violation. Aggregation never calls this; it is a strict
// check for files that are about to be published.
func Validate(data []byte, metricCount int) []string {
	sch, err := scoreSchema(metricCount)
	if err != nil {
		return []string{err.Error()}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	sort.Strings(errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// MissingPromptCounts returns the prompt counts in 1..last that no record carries.
func MissingPromptCounts(records []models.ScoreRecord, last int) []int {
	present := make(map[int]bool, len(records))
	for _, r := range records {
		if r.HasCount {
			present[r.PromptCount] = true
		}
	}
	var missing []int
	for n := 1; n <= last; n++ {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

// Issue is a record-level shape problem found while decoding leniently.
type Issue struct {
	Record int    `json:"record"`
	Style  string `json:"style,omitempty"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	if i.Style == "" {
		return fmt.Sprintf("record %d: %s", i.Record, i.Reason)
	}
	return fmt.Sprintf("record %d, style %s: %s", i.Record, i.Style, i.Reason)
}

// FindIssues lists the fields aggregation will skip in part or in full:
// non-array style values and arrays with missing or non-numeric entries.
func FindIssues(records []models.ScoreRecord) []Issue {
	var issues []Issue
	for idx, r := range records {
		if !r.HasCount && r.PromptID == "" {
			issues = append(issues, Issue{Record: idx, Reason: "no prompt_id or prompt_count"})
		}
		styles := make([]string, 0, len(r.Styles))
		for k := range r.Styles {
			styles = append(styles, k)
		}
		sort.Strings(styles)
		for _, style := range styles {
			s := r.Styles[style]
			switch {
			case !s.IsArray:
				issues = append(issues, Issue{Record: idx, Style: style, Reason: "value is not an array"})
			case s.Len != len(s.Values):
				issues = append(issues, Issue{Record: idx, Style: style,
					Reason: fmt.Sprintf("array length %d, expected %d", s.Len, len(s.Values))})
			case !s.Complete():
				issues = append(issues, Issue{Record: idx, Style: style, Reason: "missing or non-numeric scores"})
			}
		}
	}
	return issues
}
