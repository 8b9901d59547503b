package resilience

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "explicit", err: NewTransientError(errors.New("overloaded"), 503), want: true},
		{name: "wrapped with fmt", err: fmt.Errorf("call: %w", NewTransientError(errors.New("slow down"), 429)), want: true},
		{name: "wrapped with eris", err: eris.Wrap(NewTransientError(errors.New("bad gateway"), 502), "download"), want: true},
		{name: "connection reset", err: fmt.Errorf("read: %w", syscall.ECONNRESET), want: true},
		{name: "connection refused", err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: true},
		{name: "dns timeout", err: &net.DNSError{IsTimeout: true, Err: "timeout"}, want: true},
		{name: "io timeout text", err: errors.New("read tcp 10.0.0.1:443: i/o timeout"), want: true},
		{name: "unexpected eof text", err: errors.New("Unexpected EOF"), want: true},
		{name: "plain", err: errors.New("invalid header"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	te := NewTransientError(inner, http.StatusServiceUnavailable)
	assert.ErrorIs(t, te, inner)
	assert.Equal(t, "inner", te.Error())
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 501} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}
