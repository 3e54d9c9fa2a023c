package script

import (
	"log/slog"

	"github.com/plus3/stage/ecs"
)

// Hook names used when reporting faults.
const (
	HookCreate         = "OnCreate"
	HookUpdate         = "OnUpdate"
	HookDestroy        = "OnDestroy"
	HookKeyPressed     = "OnKeyPressed"
	HookKeyReleased    = "OnKeyReleased"
	HookMouseButton    = "OnMouseButtonPressed"
	HookCollisionBegin = "OnCollisionBegin"
	HookCollisionEnd   = "OnCollisionEnd"
	HookTriggerEnter   = "OnTriggerEnter"
	HookTriggerExit    = "OnTriggerExit"
)

// Invoke runs one hook call, recovering a panic and logging it with the
// entity, script type and hook. It reports whether the hook completed.
func Invoke(logger *slog.Logger, ctx *Context, typeName, hook string, fn func()) bool {
	err := ecs.Protect(func() error {
		fn()
		return nil
	})
	if err == nil {
		return true
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("script fault",
		slog.Uint64("entity", uint64(ctx.Entity())),
		slog.String("script", typeName),
		slog.String("hook", hook),
		slog.Any("error", err),
	)
	return false
}
