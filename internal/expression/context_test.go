package expression

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextFor(t *testing.T) {
	require.Equal(t, "\n[संदर्भ: उपयोगकर्ता खुश दिख रहे हैं]", ContextFor("Happy 😄"))
	require.Equal(t, "\n[संदर्भ: उपयोगकर्ता सोच रहे हैं]", ContextFor("Thinking"))
	require.Equal(t, "", ContextFor("Unknown 🙂"))
	require.Equal(t, "", ContextFor(""))
	require.Equal(t, "", ContextFor("   "))
}

func TestContextForCoversEveryLabel(t *testing.T) {
	for _, l := range All {
		require.NotEmpty(t, ContextFor(l.Display()), "label %s", l)
	}
}

func TestCatalog(t *testing.T) {
	entries := Catalog()
	require.Len(t, entries, 8)
	require.Equal(t, "Happy 😄", entries[0].Name)

	seen := map[RGB]bool{}
	for _, e := range entries {
		require.NotEmpty(t, e.Description)
		require.False(t, seen[e.Color], "duplicate color for %s", e.Name)
		seen[e.Color] = true
	}

	raw, err := json.Marshal(entries[len(entries)-1])
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Neutral 😊","description":"Default calm expression","color":[200,200,200]}`, string(raw))
}

func TestUnknownLabelFallsBackToGray(t *testing.T) {
	require.False(t, Label("Angry").Valid())
	require.Equal(t, Neutral.Color(), Label("Angry").Color())
	require.Equal(t, "Angry", Label("Angry").Display())
}
