package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidWaitUntil(t *testing.T) {
	assert.True(t, ValidWaitUntil("load"))
	assert.True(t, ValidWaitUntil("domcontentloaded"))
	assert.True(t, ValidWaitUntil("networkidle"))
	assert.False(t, ValidWaitUntil(""))
	assert.False(t, ValidWaitUntil("ready"))
}

func TestValidButton(t *testing.T) {
	assert.True(t, ValidButton(""))
	assert.True(t, ValidButton("left"))
	assert.True(t, ValidButton("right"))
	assert.True(t, ValidButton("middle"))
	assert.False(t, ValidButton("back"))
}

func TestValidWaitState(t *testing.T) {
	assert.True(t, ValidWaitState(""))
	assert.True(t, ValidWaitState("visible"))
	assert.True(t, ValidWaitState("hidden"))
	assert.True(t, ValidWaitState("attached"))
	assert.True(t, ValidWaitState("detached"))
	assert.False(t, ValidWaitState("present"))
}

func TestSessionManager_RequiresInitialize(t *testing.T) {
	manager := NewSessionManager()

	_, err := manager.StartSession("test", SessionOptions{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestSessionManager_GetSessionNotFound(t *testing.T) {
	manager := NewSessionManager()

	_, err := manager.GetSession("nope")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSessionManager_ListSessionsEmpty(t *testing.T) {
	manager := NewSessionManager()

	assert.Empty(t, manager.ListSessions())
	assert.False(t, manager.HasSessions())
}

func TestSearchText(t *testing.T) {
	body := "The quick brown fox jumps over the lazy dog. The fox is quick."

	results := searchText(body, SearchOptions{Pattern: "fox"})

	assert.Len(t, results, 2)
	assert.Equal(t, "fox", results[0].Text)
	assert.Contains(t, results[0].Context, "quick brown fox jumps")
}

func TestSearchText_CaseInsensitiveByDefault(t *testing.T) {
	results := searchText("Hello WORLD", SearchOptions{Pattern: "world"})

	assert.Len(t, results, 1)
	assert.Equal(t, "WORLD", results[0].Text)
}

func TestSearchText_CaseSensitive(t *testing.T) {
	results := searchText("Hello WORLD", SearchOptions{Pattern: "world", CaseSensitive: true})

	assert.Empty(t, results)
}

func TestSearchText_MaxResults(t *testing.T) {
	body := "a b a b a b a b"

	results := searchText(body, SearchOptions{Pattern: "a", MaxResults: 2})

	assert.Len(t, results, 2)
}

func TestSearchText_EmptyPattern(t *testing.T) {
	assert.Empty(t, searchText("anything", SearchOptions{}))
}
