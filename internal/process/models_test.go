package process

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "condogov/pkg/domain"
	dErrors "condogov/pkg/domain-errors"
)

func TestNewProcess(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	creator := id.StakeholderID(uuid.New())

	t.Run("valid input yields a draft at version one", func(t *testing.T) {
		p, err := NewProcess(id.ProcessID(uuid.New()), "Coleta Seletiva", id.CategoryOperations, "residuos", id.DocumentPOP, creator, now)
		require.NoError(t, err)
		assert.Equal(t, id.StatusDraft, p.Status)
		assert.Equal(t, 1, p.CurrentVersionNumber)
	})

	t.Run("name is trimmed and must be non-empty", func(t *testing.T) {
		_, err := NewProcess(id.ProcessID(uuid.New()), "  \t ", id.CategoryOperations, "", id.DocumentPOP, creator, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("nil creator is rejected", func(t *testing.T) {
		_, err := NewProcess(id.ProcessID(uuid.New()), "Coleta", id.CategoryOperations, "", id.DocumentPOP, id.StakeholderID{}, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestEntityListUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"plain array", `["Portaria","Síndico"]`, []string{"Portaria", "Síndico"}},
		{"array encoded inside a string", `"[\"Portaria\"]"`, []string{"Portaria"}},
		{"unparsable string falls back to empty", `"not json at all"`, []string{}},
		{"number falls back to empty", `42`, []string{}},
		{"null stays empty", `null`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var l EntityList
			require.NoError(t, json.Unmarshal([]byte(tc.in), &l))
			assert.Equal(t, tc.want, []string(l))
		})
	}
}

func TestPlainText(t *testing.T) {
	c := VersionContent{
		Description: "Procedimento de mudança",
		Workflow:    []string{"Agendar com a administração", "Reservar o elevador de serviço"},
	}
	assert.Equal(t, "Procedimento de mudança\nAgendar com a administração\nReservar o elevador de serviço", c.PlainText())

	empty := VersionContent{Description: "   "}
	assert.Equal(t, "", empty.PlainText())
}
