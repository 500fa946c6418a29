package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyErr(t *testing.T) {
	t.Cleanup(func() { RegisterNotifyErrFn(nil) })

	NotifyErr(SeverityError, "nothing registered")

	var got []interface{}
	RegisterNotifyErrFn(func(severity Severity, data ...interface{}) {
		assert.Equal(t, SeverityError, severity)
		got = data
	})
	NotifyErr(SeverityError, "mail", 42)
	assert.Equal(t, []interface{}{"mail", 42}, got)

	RegisterNotifyErrFn(func(Severity, ...interface{}) { panic("monitor down") })
	assert.NotPanics(t, func() { NotifyErr(SeverityInfo, "x") })
}
