package connection

import (
	"fmt"

	"github.com/redbco/redb-driverhub/pkg/logger"
)

// logContext carries the identifiers printed with connection events.
type logContext struct {
	Engine       string
	ConnectionID string
	PluginID     string
	Host         string
	Port         int
}

// eventLogger formats connection lifecycle events as
// "[engine:action] key=value ...". A nil logger discards everything.
type eventLogger struct {
	logger *logger.Logger
}

func (el eventLogger) attempt(ctx logContext) {
	if el.logger == nil {
		return
	}
	el.logger.Info("%s", el.format("connect", "Attempting connection", ctx))
}

func (el eventLogger) success(ctx logContext, version string) {
	if el.logger == nil {
		return
	}
	message := el.format("connect", "Connection established", ctx)
	if version != "" {
		message = fmt.Sprintf("%s server_version=%s", message, version)
	}
	el.logger.Info("%s", message)
}

// failure logs at warn: a client database being unreachable is not a fault
// of this process.
func (el eventLogger) failure(ctx logContext, err error) {
	if el.logger == nil {
		return
	}
	el.logger.Warn("%s: %v", el.format("connect", "Connection failed", ctx), err)
}

func (el eventLogger) reused(ctx logContext) {
	if el.logger == nil {
		return
	}
	el.logger.Debug("%s", el.format("connect", "Reusing connection", ctx))
}

func (el eventLogger) closed(ctx logContext, reason string, err error) {
	if el.logger == nil {
		return
	}
	message := el.format("close", "Connection closed", ctx)
	if reason != "" {
		message = fmt.Sprintf("%s reason=%s", message, reason)
	}
	if err != nil {
		el.logger.Warn("%s: %v", message, err)
		return
	}
	el.logger.Info("%s", message)
}

func (el eventLogger) health(ctx logContext, err error) {
	if el.logger == nil {
		return
	}
	if err == nil {
		el.logger.Debug("%s", el.format("health", "Health check passed", ctx))
		return
	}
	el.logger.Warn("%s: %v", el.format("health", "Health check failed", ctx), err)
}

func (el eventLogger) format(action, message string, ctx logContext) string {
	base := fmt.Sprintf("[%s:%s] %s", ctx.Engine, action, message)
	if ctx.ConnectionID != "" {
		base = fmt.Sprintf("%s connection_id=%s", base, ctx.ConnectionID)
	}
	if ctx.PluginID != "" {
		base = fmt.Sprintf("%s plugin=%s", base, ctx.PluginID)
	}
	if ctx.Host != "" {
		if ctx.Port > 0 {
			base = fmt.Sprintf("%s host=%s:%d", base, ctx.Host, ctx.Port)
		} else {
			base = fmt.Sprintf("%s host=%s", base, ctx.Host)
		}
	}
	return base
}
