package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jorge-barreto/narrate/internal/config"
)

func TestMock_ReturnsStructuredJSON(t *testing.T) {
	m := &Mock{}
	out, err := m.Generate(context.Background(), "p1", Options{})
	if err != nil {
		t.Fatal(err)
	}
	var resp MockResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("mock output is not JSON: %v", err)
	}
	if len(resp.Headlines) == 0 || len(resp.Sections) == 0 || resp.Content == "" {
		t.Fatalf("got %+v", resp)
	}
	if got := m.Prompts(); len(got) != 1 || got[0] != "p1" {
		t.Fatalf("prompts = %v", got)
	}
}

func TestMock_Err(t *testing.T) {
	boom := errors.New("network down")
	m := &Mock{Err: boom}
	if _, err := m.Generate(context.Background(), "p", Options{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestGeneratorFunc(t *testing.T) {
	var g Generator = GeneratorFunc(func(_ context.Context, prompt string, opts Options) (string, error) {
		return prompt + "!", nil
	})
	out, _ := g.Generate(context.Background(), "hi", Options{})
	if out != "hi!" {
		t.Fatalf("got %q", out)
	}
}

func TestNew_Providers(t *testing.T) {
	if _, err := New(config.LLM{Provider: "mock"}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := New(config.LLM{Provider: "openai", Model: "m"}, ""); err == nil || !strings.Contains(err.Error(), "api key") {
		t.Fatalf("got %v", err)
	}
	if _, err := New(config.LLM{Provider: "fax"}, ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	g, err := New(config.LLM{Provider: "command", Command: []string{"echo", "-n"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if c := g.(*Command); c.Bin != "echo" || len(c.Args) != 1 {
		t.Fatalf("got %+v", c)
	}
}

func TestOpenAI_ChatCompletion(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"test-model",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"headlines\":[\"A\"]}"}}]}`)
	}))
	defer srv.Close()

	g, err := NewOpenAI("test-model", "sk-test", srv.URL+"/v1")
	if err != nil {
		t.Fatal(err)
	}
	temp := 0.4
	out, err := g.Generate(context.Background(), "write headlines", Options{MaxTokens: 256, Temperature: &temp})
	if err != nil {
		t.Fatal(err)
	}
	if out != `{"headlines":["A"]}` {
		t.Fatalf("got %q", out)
	}
	if body["model"] != "test-model" || body["max_tokens"] != float64(256) || body["temperature"] != 0.4 {
		t.Fatalf("request = %v", body)
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", body["messages"])
	}
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	}))
	defer srv.Close()

	g, _ := NewOpenAI("m", "k", srv.URL)
	if _, err := g.Generate(context.Background(), "x", Options{}); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v", err)
	}
}

func TestCommand_EchoesPrompt(t *testing.T) {
	c, _ := NewCommand([]string{"echo"}, "")
	out, err := c.Generate(context.Background(), "hello world", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello world" {
		t.Fatalf("got %q", out)
	}
}

func TestCommand_NonZeroExit(t *testing.T) {
	c, _ := NewCommand([]string{"sh", "-c", "echo oops >&2; exit 3"}, "")
	_, err := c.Generate(context.Background(), "p", Options{})
	if err == nil || !strings.Contains(err.Error(), "code 3") || !strings.Contains(err.Error(), "oops") {
		t.Fatalf("err = %v", err)
	}
}

func TestCommand_Timeout(t *testing.T) {
	c, _ := NewCommand([]string{"sh", "-c", "sleep 5"}, "")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.Generate(ctx, "p", Options{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatal("command was not killed on timeout")
	}
}

func TestCommand_Preflight(t *testing.T) {
	c, _ := NewCommand([]string{"definitely-not-a-binary-xyz"}, "")
	if err := c.Preflight(); err == nil {
		t.Fatal("expected preflight error")
	}
}
