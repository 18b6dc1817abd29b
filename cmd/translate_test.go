package cmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/perekladach/internal/translator"
)

func TestTranslateCmd(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		want      string
		wantCalls int32
	}{
		{
			name:      "text from arguments",
			args:      []string{"-s", "ru", "-t", "en", "Привет,", "мир"},
			want:      "ru|en:Привет, мир\n",
			wantCalls: 1,
		},
		{
			name:      "text from stdin with display names",
			stdin:     "Hallo Welt\n",
			args:      []string{"-s", "German", "-t", "French"},
			want:      "de|fr:Hallo Welt\n",
			wantCalls: 1,
		},
		{
			name:      "configured defaults",
			args:      []string{"Привет"},
			want:      "ru|en:Привет\n",
			wantCalls: 1,
		},
		{
			name: "same language copies input",
			args: []string{"-s", "en", "-t", "English", "  same  "},
			want: "same\n",
		},
		{
			name:  "blank stdin is ignored",
			stdin: "  \n\t",
			args:  []string{"-s", "ru", "-t", "en"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := newEchoServer(t, &calls)
			config := writeConfig(t, server.URL, "")

			out, err := execute(t, tt.stdin, append([]string{"--config", config, "translate"}, tt.args...)...)

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestTranslateCmd_UnknownLanguage(t *testing.T) {
	var calls atomic.Int32
	server := newEchoServer(t, &calls)

	_, err := execute(t, "", "--config", writeConfig(t, server.URL, ""), "translate", "-t", "Klingon", "hi")

	assert.EqualError(t, err, `unknown language: "Klingon"`)
	assert.Zero(t, calls.Load())
}

func TestTranslateCmd_NoTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseData":{"match":1}}`))
	}))
	defer server.Close()

	out, err := execute(t, "", "--config", writeConfig(t, server.URL, ""), "translate", "Привет")

	require.Error(t, err)
	assert.True(t, errors.Is(err, translator.ErrNoTranslation))
	assert.Empty(t, out)
}

func TestTranslateCmd_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	out, err := execute(t, "", "--config", writeConfig(t, server.URL, ""), "translate", "Привет")

	var netErr *translator.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusServiceUnavailable, netErr.StatusCode)
	assert.Equal(t, "Ошибка: server replied: 503 Service Unavailable\n", out)
}

func TestLanguagesCmd(t *testing.T) {
	var calls atomic.Int32
	server := newEchoServer(t, &calls)

	out, err := execute(t, "", "--config", writeConfig(t, server.URL, ""), "langs")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"0", "English", "en"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"4", "Spanish", "es"}, strings.Fields(lines[5]))
}
