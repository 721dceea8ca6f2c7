package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// tagsJSON builds a /api/tags response with the given model names.
func tagsJSON(names ...string) []byte {
	type entry struct {
		Name string `json:"name"`
	}
	type resp struct {
		Models []entry `json:"models"`
	}
	r := resp{}
	for _, n := range names {
		r.Models = append(r.Models, entry{Name: n})
	}
	b, _ := json.Marshal(r)
	return b
}

func TestIsRunning_Up(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("codellama:latest"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if !c.IsRunning(context.Background()) {
		t.Error("IsRunning() = false, want true")
	}
}

func TestIsRunning_Down(t *testing.T) {
	// Point at a closed server to simulate connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	if c.IsRunning(context.Background()) {
		t.Error("IsRunning() = true, want false")
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("codellama:latest", "mistral-nemo:latest", "nomic-embed-text:latest"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}

	if len(models) != 3 {
		t.Fatalf("got %d models, want 3", len(models))
	}

	want := []string{"codellama:latest", "mistral-nemo:latest", "nomic-embed-text:latest"}
	for i, w := range want {
		if models[i] != w {
			t.Errorf("models[%d] = %q, want %q", i, models[i], w)
		}
	}
}

func TestHasModel_Present(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("codellama:latest", "mistral-nemo:latest"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if !c.HasModel(context.Background(), "codellama") {
		t.Error("HasModel(codellama) = false, want true")
	}
}

func TestHasModel_Absent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("mistral-nemo:latest"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if c.HasModel(context.Background(), "codellama") {
		t.Error("HasModel(codellama) = true, want false")
	}
}

func TestSelectModel_PrefersCodeModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("llama3:8b", "deepseek-coder:6.7b", "phi3.5:latest"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	model, err := c.SelectModel(context.Background())
	if err != nil {
		t.Fatalf("SelectModel: %v", err)
	}
	if model != "deepseek-coder:6.7b" {
		t.Errorf("SelectModel = %q, want deepseek-coder:6.7b", model)
	}
}

func TestSelectModel_FallsBackToFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("phi3.5:latest", "gemma:2b"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	model, err := c.SelectModel(context.Background())
	if err != nil {
		t.Fatalf("SelectModel: %v", err)
	}
	if model != "phi3.5:latest" {
		t.Errorf("SelectModel = %q, want phi3.5:latest", model)
	}
}

func TestSelectModel_NoModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON())
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.SelectModel(context.Background()); err == nil {
		t.Error("SelectModel with no models installed returned nil error")
	}
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}

		var reqBody chatRequest
		json.NewDecoder(r.Body).Decode(&reqBody)
		if reqBody.Stream {
			t.Error("chat request asked for streaming")
		}
		if reqBody.Model != "codellama" {
			t.Errorf("chat model = %q, want codellama", reqBody.Model)
		}

		resp := chatResponse{
			Message: Message{Role: "assistant", Content: "fix: handle empty token"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Chat(context.Background(), "codellama", []Message{
		{Role: "user", Content: "suggest a commit message"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if result != "fix: handle empty token" {
		t.Errorf("result = %q, want %q", result, "fix: handle empty token")
	}
}

func TestChat_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Chat(context.Background(), "codellama", nil); err == nil {
		t.Error("Chat against failing server returned nil error")
	}
}
