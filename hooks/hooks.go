package hooks

import (
	"blog-server/db"
)

const (
	HealthCheck   = "health_check"
	CreateAccount = "create_account"
	DidCreatePost = "did_create_post"
	DidDeletePost = "did_delete_post"
)

type HookParams struct {
	User *db.User
	Post *db.Post
}

// HookError is what a hook reports back. Only the health check answers with
// Status and Msg; the account and post hooks run after the write and just log it.
type HookError struct {
	Status int
	Msg    string
}

func (e *HookError) Error() string {
	return e.Msg
}

type Hook func(params HookParams) *HookError

var hooks = make(map[string]Hook)

func RegisterHook(name string, hook Hook) {
	hooks[name] = hook
}

func ExecHook(name string, params HookParams) *HookError {
	hook, ok := hooks[name]
	if !ok || hook == nil {
		return nil
	}
	return hook(params)
}
