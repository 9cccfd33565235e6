// Package schemas embeds the JSON Schemas for the data files prxdash reads.
package schemas

import _ "embed"

// ScoreFileSchemaJSON describes a score file. The metric array length is
// rewritten at compile time to match the configured metric count.
//
//go:embed scores.schema.json
var ScoreFileSchemaJSON string
