// Package validator inspects a delivered translation before it is trusted:
// MyMemory answers some failures with status 200 and a notice in place of
// the translated text, and a wrong language pair yields text in the wrong
// language. Neither is ever hidden from the output; the window only logs.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/perekladach/internal/language"
)

// MinDetectRunes is the shortest text the detector is asked about. Shorter
// texts are accepted unchecked.
const MinDetectRunes = 20

var (
	ErrEmpty  = errors.New("translation is empty")
	ErrNotice = errors.New("service notice instead of translation")
)

// MyMemory notices arrive upper-case in responseData.translatedText.
var noticePrefixes = []string{
	"MYMEMORY WARNING",
	"QUERY LENGTH LIMIT",
	"INVALID LANGUAGE PAIR",
	"PLEASE SELECT TWO DISTINCT LANGUAGES",
	"NO QUERY SPECIFIED",
	"INVALID EMAIL",
	"INVALID SOURCE LANGUAGE",
	"INVALID TARGET LANGUAGE",
}

// MismatchError reports a translation detected in a table language other
// than the selected target.
type MismatchError struct {
	Want language.Entry
	Got  language.Entry
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected %s but detected %s", e.Want, e.Got)
}

type Detector interface {
	DetectISO(text string) (string, bool)
}

type Validator struct {
	det Detector
}

// New shares det with the window so the lingua models are built once.
func New(det Detector) *Validator {
	return &Validator{det: det}
}

// Check returns nil when text can be shown as a translation into target.
// It returns ErrEmpty, an error wrapping ErrNotice, or a *MismatchError.
// Text the detector cannot place in the table is accepted.
func (v *Validator) Check(text string, target language.Entry) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmpty
	}

	if notice, ok := serviceNotice(text); ok {
		return fmt.Errorf("%w: %s", ErrNotice, notice)
	}

	if len([]rune(text)) < MinDetectRunes {
		return nil
	}

	code, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}
	got, _, ok := language.ByCode(code)
	if !ok || got.Code == target.Code {
		return nil
	}
	return &MismatchError{Want: target, Got: got}
}

func serviceNotice(text string) (string, bool) {
	for _, p := range noticePrefixes {
		if strings.HasPrefix(text, p) {
			return text, true
		}
	}
	return "", false
}
