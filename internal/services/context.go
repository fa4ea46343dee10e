package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	taskKey  contextKey = "task"
	itemKey  contextKey = "item"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTask annotates context with the task name (jav-match, alt-match, ...).
func WithTask(ctx context.Context, task string) context.Context {
	if task == "" {
		return ctx
	}
	return context.WithValue(ctx, taskKey, task)
}

// TaskFromContext returns the task name if present.
func TaskFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(taskKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithItem annotates context with the key of the item being processed, such as
// an identifier or a filename.
func WithItem(ctx context.Context, item string) context.Context {
	if item == "" {
		return ctx
	}
	return context.WithValue(ctx, itemKey, item)
}

// ItemFromContext returns the item key if present.
func ItemFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(itemKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
