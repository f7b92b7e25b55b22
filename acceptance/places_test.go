package acceptance

import (
	"net/http"
	"testing"
)

func TestPlaces_SubstringMatchIsCaseInsensitive(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	w := ts.GET("/places?q=nagar")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, w, &resp)

	if len(resp.Suggestions) == 0 {
		t.Fatalf("expected suggestions for %q", "nagar")
	}
	// "Indiranagar" matches mid-word; the lowercase query still matches
	// the capitalized name.
	found := false
	for _, s := range resp.Suggestions {
		if s == "Indiranagar" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Indiranagar in suggestions, got %v", resp.Suggestions)
	}
}

func TestPlaces_EmptyQueryReturnsNoSuggestions(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	w := ts.GET("/places?q=")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, w, &resp)
	if len(resp.Suggestions) != 0 {
		t.Errorf("expected no suggestions for empty query, got %v", resp.Suggestions)
	}
}

func TestPlaces_NoMatchReturnsEmptyList(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	w := ts.GET("/places?q=zzzz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, w, &resp)
	if len(resp.Suggestions) != 0 {
		t.Errorf("expected empty suggestions, got %v", resp.Suggestions)
	}
}
