package ygggo_mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesOnlyItsSentinel(t *testing.T) {
	sentinels := map[ErrorKind]error{
		KindValidation:         ErrValidation,
		KindAlreadyRegistered:  ErrAlreadyRegistered,
		KindNotRegistered:      ErrNotRegistered,
		KindAlreadyConnected:   ErrAlreadyConnected,
		KindInvalidState:       ErrInvalidState,
		KindNotConnected:       ErrNotConnected,
		KindConnectFailed:      ErrConnectFailed,
		KindDisconnectFailed:   ErrDisconnectFailed,
		KindUnsupportedVersion: ErrUnsupportedVersion,
	}
	for kind := range sentinels {
		err := newError(kind, "Op", "a", "", nil)
		for other, s := range sentinels {
			if other == kind {
				assert.ErrorIs(t, err, s, kind.String())
			} else {
				assert.NotErrorIs(t, err, s, "%s matched %s", kind, other)
			}
		}
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := newError(KindConnectFailed, "Connect", "LOCAL_DB", "connect failed", cause)

	assert.Equal(t, "Connect: alias='LOCAL_DB' connect failed: server selection timeout", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConnectFailed)

	wrapped := fmt.Errorf("startup: %w", err)
	var e *Error
	require.ErrorAs(t, wrapped, &e)
	assert.Equal(t, "LOCAL_DB", e.Alias)
	assert.Equal(t, KindConnectFailed, Classify(wrapped))
}

func TestError_MessageWithoutAlias(t *testing.T) {
	err := validationErrorf("SetPort", "port must be between 0 and 65535, got %d", 70000)
	assert.Equal(t, "SetPort: port must be between 0 and 65535, got 70000", err.Error())

	bare := &Error{Kind: KindNotConnected}
	assert.Equal(t, "NotConnected", bare.Error())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindUnknown, Classify(nil))
	assert.Equal(t, KindUnknown, Classify(errors.New("boom")))
	assert.Equal(t, KindInvalidState, Classify(ErrInvalidState))
	assert.Equal(t, KindNotRegistered, Classify(newError(KindNotRegistered, "GetClient", "x", "not instantiated", nil)))
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "ValidationError", KindValidation.String())
	assert.Equal(t, "UnsupportedVersion", KindUnsupportedVersion.String())
	assert.Equal(t, "Unknown", ErrorKind(99).String())
}
