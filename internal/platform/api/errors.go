package api

import (
	"errors"
	"fmt"
)

// Kind classifies how a data-access call failed.
type Kind int

const (
	// KindUnreachable is a transport-level failure: the server never
	// executed the request (connection refused, timeout, DNS).
	KindUnreachable Kind = iota
	// KindRejected means the server executed the request and returned a
	// non-zero envelope code with a human-readable message.
	KindRejected
	// KindMalformed means the response body could not be parsed as the
	// expected envelope.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

// Error is the typed failure returned by the client. Code and Message are
// only meaningful for KindRejected.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRejected:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("请求失败，错误码：%d", e.Code)
	case KindUnreachable:
		return "无法连接到服务器，请检查后端服务是否正常运行"
	case KindMalformed:
		return "服务端返回格式不正确"
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "请求失败"
}

func (e *Error) Unwrap() error { return e.cause }

func unreachable(cause error) *Error {
	return &Error{Kind: KindUnreachable, cause: cause}
}

func malformed(cause error) *Error {
	return &Error{Kind: KindMalformed, cause: cause}
}

func rejected(code int, msg string) *Error {
	return &Error{Kind: KindRejected, Code: code, Message: msg}
}

// KindOf extracts the failure kind from err. The second return is false when
// err did not originate from this package.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsDegradable reports whether a failure may be substituted with fallback
// data. Rejected errors always surface to the user and are never degradable.
func IsDegradable(err error) bool {
	k, ok := KindOf(err)
	return ok && k != KindRejected
}
