package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type dataError struct {
	msg  string
	data any
}

func (e *dataError) Error() string  { return e.msg }
func (e *dataError) ErrorData() any { return e.data }

const gethTooMany = "Query returned more than 10000 results. Try with this block range [0x7dfd25, 0x7e0fcc]."

func TestIsTooManyResultsError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err      error
		want     bool
		wantText string
	}{
		"nil":               {err: nil},
		"unrelated":         {err: errors.New("connection reset by peer")},
		"unrelated data":    {err: &dataError{msg: "execution reverted", data: "0x08c379a0"}},
		"fewer results":     {err: &dataError{msg: "x", data: "Query returned less than 10000 results."}},
		"data error":        {err: &dataError{msg: "x", data: gethTooMany}, want: true, wantText: gethTooMany},
		"wrapped":           {err: fmt.Errorf("eth_getLogs: %w", &dataError{msg: "x", data: gethTooMany}), want: true, wantText: gethTooMany},
		"message only":      {err: errors.New("query returned more than 10000 results"), want: true, wantText: "query returned more than 10000 results"},
		"alchemy":           {err: errors.New("Log response size exceeded. this block range [0x1, 0x2]"), want: true, wantText: "Log response size exceeded. this block range [0x1, 0x2]"},
		"data without text": {err: &dataError{msg: gethTooMany}, want: true, wantText: gethTooMany},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, text := IsTooManyResultsError(tt.err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantText, text)
		})
	}
}

func TestParseSuggestedBlockRange(t *testing.T) {
	t.Parallel()

	from, to, ok := ParseSuggestedBlockRange(gethTooMany)
	require.True(t, ok)
	require.Equal(t, uint64(0x7dfd25), from)
	require.Equal(t, uint64(0x7e0fcc), to)

	from, to, ok = ParseSuggestedBlockRange("range [0x1aBc,   0x2DEF] and [0x30, 0x40]")
	require.True(t, ok)
	require.Equal(t, uint64(6844), from)
	require.Equal(t, uint64(11759), to)

	for _, msg := range []string{
		"",
		"Query returned more than 10000 results.",
		"Try with this block range 0x1234, 0x5678.",
		"[0xffffffffffffffffff, 0x1]",
	} {
		_, _, ok := ParseSuggestedBlockRange(msg)
		require.False(t, ok, msg)
	}
}
