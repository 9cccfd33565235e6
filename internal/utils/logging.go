package utils

import (
	"context"
	"log/slog"
)

// ViewSummary is the part of a published view worth a debug line.
type ViewSummary struct {
	Token     uint64
	Dataset   string
	Model     string
	Models    int
	Styles    *int
	Best      *string
	BestScore *float64
	BestError *string
	Failures  int
}

// ViewToSlog logs s at debug level. Unset optional fields are omitted.
func ViewToSlog(msg string, s ViewSummary) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"token", s.Token,
		"dataset", s.Dataset,
		"models", s.Models,
		"failures", s.Failures,
	}

	if s.Model != "" {
		attrs = append(attrs, "model", s.Model)
	}
	attrs = addIf(attrs, "styles", s.Styles)
	attrs = addIf(attrs, "best", s.Best)
	attrs = addIf(attrs, "bestScore", s.BestScore)
	attrs = addIf(attrs, "bestError", s.BestError)

	slog.Debug(msg, attrs...)
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name)
		attrs = append(attrs, *v)
	}

	return attrs
}
