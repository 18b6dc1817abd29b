package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/perekladach/internal/translator"
	"github.com/valpere/perekladach/internal/window"
)

func newEchoServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		fmt.Fprintf(w, `{"responseData":{"translatedText":"%s:%s"}}`, q.Get("langpair"), q.Get("q"))
	}))
	t.Cleanup(server.Close)
	return server
}

func runSession(t *testing.T, w *window.Window, script string) string {
	t.Helper()
	var out bytes.Buffer
	s := &session{w: w, in: strings.NewReader(script), out: &out}
	require.NoError(t, s.run(context.Background()))
	return out.String()
}

func TestSession_TranslateAndSwap(t *testing.T) {
	var calls atomic.Int32
	server := newEchoServer(t, &calls)

	w := window.New(translator.NewMyMemoryService(server.URL, "", 0))

	out := runSession(t, w, "Привет\n:swap\nHello\n   \n:source ru\nsame\n:quit\nignored\n")

	assert.Contains(t, out, "[Russian → English] > ")
	assert.Contains(t, out, "ru|en:Привет\n")
	assert.Contains(t, out, "[English → Russian] > ")
	assert.Contains(t, out, "en|ru:Hello\n")
	assert.Contains(t, out, "same\n")
	assert.NotContains(t, out, "ignored")
	assert.Equal(t, int32(2), calls.Load(), "blank and same-language lines must not hit the network")
}

func TestSession_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	w := window.New(translator.NewMyMemoryService(server.URL, "", 0))

	out := runSession(t, w, "Привет\n")

	assert.Contains(t, out, "Ошибка: server replied: 502 Bad Gateway")
}

func TestSession_Commands(t *testing.T) {
	var calls atomic.Int32
	server := newEchoServer(t, &calls)

	w := window.New(translator.NewMyMemoryService(server.URL, "", 0))

	out := runSession(t, w, ":langs\n:target Klingon\n:detect\n:show\n:bogus\n:help\n")

	assert.Contains(t, out, "Spanish")
	assert.Contains(t, out, `unknown language: "Klingon"`)
	assert.Contains(t, out, "Could not detect the input language.")
	assert.Contains(t, out, "Source: Russian (ru)")
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, ":swap")
	assert.Zero(t, calls.Load())
}

func TestSession_InterruptWhileWaitingForInput(t *testing.T) {
	var calls atomic.Int32
	server := newEchoServer(t, &calls)

	w := window.New(translator.NewMyMemoryService(server.URL, "", 0))

	in, input := io.Pipe()
	t.Cleanup(func() { input.Close() })

	var out bytes.Buffer
	s := &session{w: w, in: in, out: &out}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session kept waiting for input after cancellation")
	}

	// A line typed after the interrupt is consumed but never translated.
	_, err := input.Write([]byte("Привет\n"))
	require.NoError(t, err)

	assert.Zero(t, calls.Load())
	assert.NotContains(t, out.String(), "Ошибка")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short"))

	long := strings.Repeat("я", 50)
	got := snippet(long)
	assert.Equal(t, 40, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}
