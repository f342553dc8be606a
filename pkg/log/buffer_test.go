package log_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lv2lint/pkg/log"
)

func TestBuffer(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		writes  []string
		want    []string
		limit   int
		dropped int
	}{
		"empty": {
			limit: 3,
			want:  []string{},
		},
		"complete lines": {
			limit:  3,
			writes: []string{"a\n", "b\nc\n"},
			want:   []string{"a", "b", "c"},
		},
		"partial line": {
			limit:  3,
			writes: []string{"a\nb", "c\nd"},
			want:   []string{"a", "bc", "d"},
		},
		"drops oldest": {
			limit:   2,
			writes:  []string{"a\nb\nc\nd\n"},
			want:    []string{"c", "d"},
			dropped: 2,
		},
		"default limit": {
			limit:  0,
			writes: []string{"a\n"},
			want:   []string{"a"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf := log.NewBuffer(tc.limit)

			for _, w := range tc.writes {
				n, err := buf.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)
			}

			assert.Equal(t, tc.want, buf.Lines())
			assert.Equal(t, tc.dropped, buf.Dropped())
		})
	}
}

func TestBuffer_Limit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, log.NewBuffer(-1).Limit())
	assert.Equal(t, 5, log.NewBuffer(5).Limit())
}

func TestBuffer_Reset(t *testing.T) {
	t.Parallel()

	buf := log.NewBuffer(1)

	_, err := buf.Write([]byte("a\nb\nc"))
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Len())
	assert.Equal(t, 1, buf.Dropped())

	buf.Reset()

	assert.Empty(t, buf.Lines())
	assert.Zero(t, buf.Len())
	assert.Zero(t, buf.Dropped())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestBuffer_WriteTo(t *testing.T) {
	t.Parallel()

	buf := log.NewBuffer(10)

	var out bytes.Buffer

	n, err := buf.WriteTo(&out)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = buf.Write([]byte("one\ntwo\n"))
	require.NoError(t, err)

	n, err = buf.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(len("one\ntwo\n")), n)
	assert.Equal(t, "one\ntwo\n", out.String())

	_, err = buf.WriteTo(failingWriter{})
	require.Error(t, err)
}

func TestBuffer_Concurrent(t *testing.T) {
	t.Parallel()

	buf := log.NewBuffer(1000)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			for j := range 50 {
				_, err := fmt.Fprintf(buf, "%d-%d\n", i, j)
				assert.NoError(t, err)
			}
		})
	}

	wg.Wait()

	assert.Equal(t, 500, buf.Len())
}

func TestBuffer_Handler(t *testing.T) {
	t.Parallel()

	buf := log.NewBuffer(10)

	h, err := log.CreateHandlerWithStrings(buf, "info", "logfmt")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Debug("hidden")
	logger.Info("shown", slog.String("uri", "http://example.org/amp"))

	lines := buf.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "msg=shown")
	assert.Contains(t, lines[0], "uri=http://example.org/amp")
}
