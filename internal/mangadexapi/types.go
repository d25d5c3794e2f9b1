package mangadexapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type AuthForm struct {
	GrantType    string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
}

// Token represents an authentication token.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	Expiry       time.Time `json:"-"`
}

// ReadingStatus for user manga reading status. The empty value clears the
// status on the server.
type ReadingStatus string

const (
	ReadingStatusNone       ReadingStatus = ""
	ReadingStatusReading    ReadingStatus = "reading"
	ReadingStatusOnHold     ReadingStatus = "on_hold"
	ReadingStatusPlanToRead ReadingStatus = "plan_to_read"
	ReadingStatusDropped    ReadingStatus = "dropped"
	ReadingStatusCompleted  ReadingStatus = "completed"
)

// QueryParams for manga search
type QueryParams struct {
	Limit int
	Title string
}

// Envelope is the common wrapper of every MangaDex JSON response.
type Envelope struct {
	Result   string          `json:"result"`
	Response string          `json:"response"`
	Data     json.RawMessage `json:"data"`
	Errors   []APIError      `json:"errors,omitempty"`
	Limit    *int            `json:"limit,omitempty"`
	Offset   *int            `json:"offset,omitempty"`
	Total    *int            `json:"total,omitempty"`
}

// APIError represents an error object in the API response.
type APIError struct {
	ID      string `json:"id"`
	Status  int    `json:"status"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Context string `json:"context,omitempty"`
}

// Manga represents a manga object from the MangaDex API.
type Manga struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes MangaAttributes `json:"attributes"`
}

// MangaAttributes represents the attributes of a manga.
type MangaAttributes struct {
	Title     LocalizedString   `json:"title"`
	AltTitles []LocalizedString `json:"altTitles"`
}

// Localized is one locale/value pair of a LocalizedString.
type Localized struct {
	Lang  string
	Value string
}

// LocalizedString is a locale keyed string object that remembers the order in
// which the locales appeared in the response.
type LocalizedString []Localized

// Get returns the value for lang, or "" when absent.
func (ls LocalizedString) Get(lang string) string {
	for _, l := range ls {
		if l.Lang == lang {
			return l.Value
		}
	}
	return ""
}

// First returns the value of the first locale in document order.
func (ls LocalizedString) First() string {
	if len(ls) == 0 {
		return ""
	}
	return ls[0].Value
}

func (ls *LocalizedString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*ls = nil
		return nil
	}
	// MangaDex sends [] instead of {} for an empty object.
	if bytes.Equal(b, []byte("[]")) {
		*ls = LocalizedString{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("localized string: expected object, got %v", tok)
	}

	out := LocalizedString{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		lang, ok := tok.(string)
		if !ok {
			return fmt.Errorf("localized string: unexpected key %v", tok)
		}
		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("localized string %q: %w", lang, err)
		}
		var s string
		if value != nil {
			s = *value
		}
		out = append(out, Localized{Lang: lang, Value: s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ls = out
	return nil
}

func (ls LocalizedString) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range ls {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(l.Lang)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(l.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
