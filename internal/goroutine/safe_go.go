package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/proposal-ai-backend/internal/logger"
)

// SafeGo запускает горутину с обработкой panic.
// Паника фоновой задачи логируется со стеком и не роняет процесс.
func SafeGo(fn func()) {
	go func() {
		defer recoverAndLog()
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverAndLog()
		fn(ctx)
	}()
}

func recoverAndLog() {
	if r := recover(); r != nil {
		logger.WithComponent("goroutine").
			WithField("panic", r).
			Errorf("panic в горутине\n%s", debug.Stack())
	}
}
