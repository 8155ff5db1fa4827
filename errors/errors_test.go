package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrInput,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"deeply wrapped error": {
			a:      ErrUnauthorized,
			b:      Wrap(Wrap(ErrUnauthorized.New("no signature"), "second"), "third"),
			wantIs: true,
		},
		"wrapped error of a different kind": {
			a:      ErrNotFound,
			b:      Wrap(ErrInput, "gone"),
			wantIs: false,
		},
		"stdlib error": {
			a:      ErrNotFound,
			b:      stderrors.New("not found"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is not an error": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantIs, tc.a.Is(tc.b))
		})
	}
}

func TestRegisterDuplicatedCode(t *testing.T) {
	assert.Panics(t, func() { Register(ErrNotFound.code, "duplicate") })
	assert.Panics(t, func() { Register(internalABCICode, "internal") })
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestWrapMessage(t *testing.T) {
	err := Wrapf(ErrAmount.New("negative"), "balance of %s", "alice")
	assert.Equal(t, "balance of alice: negative: invalid amount", err.Error())
	assert.Equal(t, err.Error(), fmt.Sprintf("%s", err))
}

func TestStackTraceAttachedOnce(t *testing.T) {
	err := Wrap(Wrap(ErrState, "inner"), "outer")
	full := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(full, "outer: inner: invalid state"))
	assert.Contains(t, full, "TestStackTraceAttachedOnce")
	// Only the innermost wrap carries a stack, so the test function shows
	// up exactly once.
	assert.Equal(t, 1, strings.Count(full, "errors.TestStackTraceAttachedOnce\n"))
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	require.Error(t, err)
	assert.True(t, ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"no error": {
			err:      nil,
			wantCode: SuccessABCICode,
			wantLog:  "",
		},
		"registered error": {
			err:      ErrNotFound.New("wallet"),
			wantCode: ErrNotFound.code,
			wantLog:  "wallet: not found",
		},
		"stdlib error is redacted": {
			err:      stderrors.New("disk on fire"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"panic is redacted": {
			err:      Wrap(ErrPanic, "secret"),
			wantCode: ErrPanic.code,
			wantLog:  internalABCILog,
		},
		"debug exposes stdlib error": {
			err:      stderrors.New("disk on fire"),
			debug:    true,
			wantCode: internalABCICode,
			wantLog:  "disk on fire",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			assert.Equal(t, tc.wantCode, code)
			if tc.debug {
				assert.Contains(t, log, tc.wantLog)
			} else {
				assert.Equal(t, tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	weaveErr := ErrInput.New("bad")
	assert.Equal(t, weaveErr, Redact(weaveErr, false))

	stdErr := stderrors.New("private")
	assert.Equal(t, internalABCILog, Redact(stdErr, false).Error())
	assert.Equal(t, stdErr, Redact(stdErr, true))
	assert.Equal(t, internalABCILog, Redact(Wrap(ErrPanic, "x"), false).Error())
}
