package internal

import "time"

// Translation is one delivered translation as kept in the history journal.
type Translation struct {
	ID             string        `json:"id"`
	SourceText     string        `json:"source_text"`
	SourceLang     string        `json:"source_lang"`
	TargetLang     string        `json:"target_lang"`
	TranslatedText string        `json:"translated_text"`
	Service        string        `json:"service"`
	Latency        time.Duration `json:"latency"`
	Timestamp      time.Time     `json:"timestamp"`
}
