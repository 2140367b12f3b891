package ctxutil

import (
	"context"
	"time"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyStudentID key = iota
	keyOpName
)

// WithStudentID — прокидываем id студента в контекст (для логов/трейса)
func WithStudentID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, keyStudentID, id)
}

func StudentID(ctx context.Context) (int64, bool) {
	v := ctx.Value(keyStudentID)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// WithOp — имя операции
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

var DefaultDBTimeout = 5 * time.Second

// WithTimeout — удобная обёртка над context.WithTimeout.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout — стандартный таймаут для БД; не выходим за дедлайн родителя.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
