package sanitize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustStructured(t *testing.T, rules []KeyPathRule) *Structured {
	t.Helper()
	s, err := NewStructured(New(nil), rules)
	require.NoError(t, err)
	return s
}

func TestRedactJSONActions(t *testing.T) {
	s := mustStructured(t, []KeyPathRule{
		{Path: "password", Action: "remove"},
		{Path: "token", Action: "redact"},
		{Path: "card", Action: "mask"},
		{Path: "user.*.email", Action: "redact", Replacement: "[REDACTED_EMAIL]"},
	})
	in := []byte(`{
		"password": "hunter2",
		"token": "abc123",
		"card": "4111111111111111",
		"user": {"alice": {"email": "alice@example.com"}},
		"note": "from 10.0.0.5"
	}`)
	out, err := s.RedactJSON(in)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc), "output must stay valid json")

	assert.NotContains(t, doc, "password", "remove action must drop the key")
	assert.Equal(t, "[REDACTED_TOKEN]", doc["token"])
	assert.NotContains(t, doc["card"], "4111111111111111", "mask action must hide the value")
	assert.NotEmpty(t, doc["card"])
	alice := doc["user"].(map[string]any)["alice"].(map[string]any)
	assert.Equal(t, "[REDACTED_EMAIL]", alice["email"])
	assert.Equal(t, "from [REDACTED_IP]", doc["note"], "string leaves run through the line engine")
}

func TestWildcardMatchesExactlyOneSegment(t *testing.T) {
	s := mustStructured(t, []KeyPathRule{{Path: "user.*.email"}})
	in := []byte(`{"user": {"email": "top@example.com", "bob": {"email": "bob@example.com"}}}`)
	out, err := s.RedactJSON(in)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	user := doc["user"].(map[string]any)
	// user.email has no middle segment: the rule must not fire, but the line
	// engine still redacts the address itself
	assert.Equal(t, "[REDACTED_EMAIL]", user["email"])
	bob := user["bob"].(map[string]any)
	assert.Equal(t, "[REDACTED_EMAIL]", bob["email"])
}

func TestRedactJSONArrays(t *testing.T) {
	s := mustStructured(t, []KeyPathRule{{Path: "events.password", Action: "remove"}})
	in := []byte(`{"events": [{"password": "a", "host": "10.0.0.1"}, {"password": "b"}]}`)
	out, err := s.RedactJSON(in)
	require.NoError(t, err)

	var doc struct {
		Events []map[string]any `json:"events"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	for i, ev := range doc.Events {
		assert.NotContains(t, ev, "password", "events[%d]", i)
	}
	assert.Equal(t, "[REDACTED_IP]", doc.Events[0]["host"])
}

func TestRedactYAML(t *testing.T) {
	s := mustStructured(t, []KeyPathRule{{Path: "db.password", Action: "redact"}})
	in := []byte("db:\n  password: hunter2\n  host: 10.1.1.1\n")
	out, err := s.RedactYAML(in)
	require.NoError(t, err)

	var doc map[string]map[string]string
	require.NoError(t, yaml.Unmarshal(out, &doc), "output must stay valid yaml")
	assert.Equal(t, "[REDACTED_PASSWORD]", doc["db"]["password"])
	assert.Equal(t, "[REDACTED_IP]", doc["db"]["host"])
}

func TestRedactJSONInvalidInput(t *testing.T) {
	s := mustStructured(t, nil)
	_, err := s.RedactJSON([]byte("{not json"))
	assert.Error(t, err)
	_, err = s.RedactYAML([]byte("\t:bad"))
	assert.Error(t, err)
}
