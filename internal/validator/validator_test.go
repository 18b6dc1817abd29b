package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/perekladach/internal/detector"
	"github.com/valpere/perekladach/internal/language"
)

// fixedDetector answers every text with the same code.
type fixedDetector struct {
	code  string
	ok    bool
	calls int
}

func (d *fixedDetector) DetectISO(string) (string, bool) {
	d.calls++
	return d.code, d.ok
}

func entry(t *testing.T, code string) language.Entry {
	t.Helper()
	e, _, ok := language.ByCode(code)
	require.True(t, ok, code)
	return e
}

const longEnglish = "The weather in the mountains changed quickly that afternoon."

func TestValidator_Check(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		target   string
		det      fixedDetector
		wantErr  error
		detected bool
	}{
		{name: "empty", text: "  \n", target: "en", wantErr: ErrEmpty},
		{name: "short text skips detection", text: "Hallo", target: "fr", det: fixedDetector{code: "de", ok: true}},
		{name: "matching language", text: longEnglish, target: "en", det: fixedDetector{code: "en", ok: true}, detected: true},
		{name: "undetected language passes", text: longEnglish, target: "ru", det: fixedDetector{}, detected: true},
		{name: "detected outside the table passes", text: longEnglish, target: "ru", det: fixedDetector{code: "uk", ok: true}, detected: true},
		{
			name:    "quota notice",
			text:    "MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY.",
			target:  "de",
			det:     fixedDetector{code: "en", ok: true},
			wantErr: ErrNotice,
		},
		{
			name:    "query length notice",
			text:    "QUERY LENGTH LIMIT EXCEEDED. MAX ALLOWED QUERY : 500 CHARS",
			target:  "en",
			wantErr: ErrNotice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := tt.det
			v := New(&det)

			err := v.Check(tt.text, entry(t, tt.target))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.detected, det.calls > 0)
		})
	}
}

func TestValidator_Check_Mismatch(t *testing.T) {
	v := New(&fixedDetector{code: "EN", ok: true})

	err := v.Check(longEnglish, entry(t, "ru"))

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "ru", mismatch.Want.Code)
	assert.Equal(t, "en", mismatch.Got.Code)
	assert.Equal(t, "expected Russian (ru) but detected English (en)", err.Error())
}

func TestValidator_Check_LowerCaseNoticeIsText(t *testing.T) {
	v := New(&fixedDetector{code: "en", ok: true})

	assert.NoError(t, v.Check("Invalid email addresses were removed from the list.", entry(t, "en")))
}

func TestValidator_Check_WithLingua(t *testing.T) {
	v := New(detector.New())

	russian := "Это довольно длинный текст на русском языке для проверки."
	assert.NoError(t, v.Check(russian, entry(t, "ru")))

	var mismatch *MismatchError
	require.ErrorAs(t, v.Check(russian, entry(t, "es")), &mismatch)
	assert.Equal(t, "ru", mismatch.Got.Code)
}
