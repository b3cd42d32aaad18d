package events

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Payloads de eventos chegam de fontes externas com tipagem frouxa
// (números como string, timestamps sem timezone, campos nulos).
// Os wrappers Flex* absorvem essas variações no decode em vez de
// derrubar o evento inteiro.

// FlexFloat aceita número JSON ou string numérica.
// Qualquer outra coisa (null, objeto, texto) vira Valid=false.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	f.Value = 0
	f.Valid = false

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		f.Value = v
		f.Valid = true
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	f.Value = v
	f.Valid = true
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// FlexTime aceita timestamps ISO-8601 ("Z" ou offset explícito, naive
// assumido UTC, só data) e números como epoch em segundos.
// Valor ausente ou não reconhecido vira Valid=false.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	t.Valid = false

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if ts, ok := ParseTimestamp(s); ok {
			t.Time = ts
			t.Valid = true
		}
		return nil
	}

	sec, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(sec) || math.IsInf(sec, 0) {
		return nil
	}
	whole, frac := math.Modf(sec)
	t.Time = time.Unix(int64(whole), int64(frac*1e9)).UTC()
	t.Valid = true
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Layouts aceitos para timestamps em string.
// Layouts sem offset são interpretados como UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00", // precisão de minuto (sem segundos)
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp interpreta um timestamp ISO-8601 em string.
// Retorna ok=false quando nenhum layout casa.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FlexString aceita string, número (mantém a forma lexical) e booleano.
// null e valores estruturados viram string vazia.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	*s = ""

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return nil
		}
		*s = FlexString(v)
	case '{', '[':
		// estrutura não é um valor escalar utilizável
	default:
		// número ou booleano: a forma textual já serve
		*s = FlexString(b)
	}
	return nil
}

func (s FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}
