package notify

import (
	"runtime/debug"

	"go.uber.org/zap"
)

// NotifyErrFn receives failures that an operator should hear about even though
// the visitor got a response: undelivered contact messages and recovered panics.

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

var NotifyErrFn func(severity Severity, data ...interface{})

func RegisterNotifyErrFn(fn func(severity Severity, data ...interface{})) {
	NotifyErrFn = fn
}

func NotifyErr(severity Severity, data ...interface{}) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("panic in NotifyErr: %v\n%s", r, debug.Stack())
		}
	}()

	if NotifyErrFn != nil {
		NotifyErrFn(severity, data...)
	}
}
