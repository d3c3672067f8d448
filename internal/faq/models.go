package faq

import (
	"encoding/json"
	"time"
)

// Translation holds the translated pair for one target language.
// An empty field means "not translated" and is never shown to readers.
type Translation struct {
	Question string `json:"question,omitempty" bson:"question,omitempty"`
	Answer   string `json:"answer,omitempty" bson:"answer,omitempty"`
}

// Record is the persisted FAQ entry: canonical text plus per-language
// translations keyed by supported language only.
type Record struct {
	ID           string               `json:"id"`
	Question     string               `json:"question"`
	Answer       string               `json:"answer"`
	Translations map[Lang]Translation `json:"translations"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// View is the read projection of a record in a single language.
type View struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewRecord returns a record carrying canonical text only.
func NewRecord(question, answer string) *Record {
	return &Record{Question: question, Answer: answer, Translations: map[Lang]Translation{}}
}

// TranslationFor returns the stored translation for l, zero value if none.
func (r *Record) TranslationFor(l Lang) Translation {
	if r.Translations == nil {
		return Translation{}
	}
	return r.Translations[l]
}

// SetQuestion stores a translated question. Unsupported languages are ignored.
func (r *Record) SetQuestion(l Lang, text string) {
	if !IsSupported(l) {
		return
	}
	if r.Translations == nil {
		r.Translations = map[Lang]Translation{}
	}
	t := r.Translations[l]
	t.Question = text
	r.Translations[l] = t
}

// SetAnswer stores a translated answer. Unsupported languages are ignored.
func (r *Record) SetAnswer(l Lang, text string) {
	if !IsSupported(l) {
		return
	}
	if r.Translations == nil {
		r.Translations = map[Lang]Translation{}
	}
	t := r.Translations[l]
	t.Answer = text
	r.Translations[l] = t
}

// Project returns the record as seen in language l, substituting canonical
// text for any missing translation.
func (r *Record) Project(l Lang) View {
	v := View{ID: r.ID, Question: r.Question, Answer: r.Answer, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	if l == LangEN || !IsSupported(l) {
		return v
	}
	t := r.TranslationFor(l)
	if t.Question != "" {
		v.Question = t.Question
	}
	if t.Answer != "" {
		v.Answer = t.Answer
	}
	return v
}

// Clone returns a deep copy, so callers can mutate translations safely.
func (r *Record) Clone() *Record {
	c := *r
	c.Translations = make(map[Lang]Translation, len(r.Translations))
	for k, v := range r.Translations {
		c.Translations[k] = v
	}
	return &c
}

// MarshalJSON emits the nested translations plus the flat question_<lang> /
// answer_<lang> fields older clients read.
func (r Record) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"id":        r.ID,
		"question":  r.Question,
		"answer":    r.Answer,
		"createdAt": r.CreatedAt,
		"updatedAt": r.UpdatedAt,
	}
	tr := make(map[Lang]Translation, len(r.Translations))
	for _, l := range supported {
		t, ok := r.Translations[l]
		if !ok {
			continue
		}
		tr[l] = t
		if t.Question != "" {
			out["question_"+string(l)] = t.Question
		}
		if t.Answer != "" {
			out["answer_"+string(l)] = t.Answer
		}
	}
	out["translations"] = tr
	return json.Marshal(out)
}
