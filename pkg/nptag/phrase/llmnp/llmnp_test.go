package llmnp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/nptag/internal/llm"
	"github.com/cognicore/nptag/pkg/nptag/internalerr"
)

type fakeChat struct {
	reply string
	err   error
	user  string
}

func (f *fakeChat) Chat(_ context.Context, _, user string) (string, error) {
	f.user = user
	return f.reply, f.err
}

func TestParseReply(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`["Fast food delivery tool", "delivery receipt"]`, []string{"fast food delivery tool", "delivery receipt"}},
		{"```json\n[\"delivery receipt\"]\n```", []string{"delivery receipt"}},
		{"Here are the phrases: [\"markdown parser\", \"x\", \" \"] Thanks.", []string{"markdown parser"}},
		{`[]`, []string{}},
	}

	for _, tc := range cases {
		got, err := ParseReply(tc.in)
		if err != nil {
			t.Errorf("ParseReply(%q): %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseReply(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseReplyInvalid(t *testing.T) {
	for _, in := range []string{"no phrases here", `[1, 2]`, `["unterminated]`} {
		if _, err := ParseReply(in); !errors.Is(err, internalerr.ErrExtractor) {
			t.Errorf("ParseReply(%q) should fail with ErrExtractor, got %v", in, err)
		}
	}
}

func TestExtract(t *testing.T) {
	chat := &fakeChat{reply: `["delivery receipt"]`}
	e := New(chat, "llama3")

	got, err := e.Extract(context.Background(), "Outputs a delivery receipt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"delivery receipt"}) {
		t.Errorf("Extract = %v", got)
	}
	if !strings.Contains(chat.user, "Outputs a delivery receipt") {
		t.Errorf("sentence missing from prompt: %q", chat.user)
	}
	if e.Name() != "llm/llama3" {
		t.Errorf("Name = %q", e.Name())
	}
}

func TestExtractChatError(t *testing.T) {
	e := New(&fakeChat{err: errors.New("connection refused")}, "m")
	if _, err := e.Extract(context.Background(), "x y"); !errors.Is(err, internalerr.ErrExtractor) {
		t.Fatalf("expected ErrExtractor, got %v", err)
	}
}

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func TestExtractWithClient(t *testing.T) {
	client := &llm.Client{
		BaseURL: "https://api.test/v1",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return &http.Response{
					StatusCode: 200,
					Body: io.NopCloser(strings.NewReader(`{
						"choices":[{"message":{"role":"assistant","content":"[\"fast food delivery tool\"]"}}]
					}`)),
					Header: make(http.Header),
				}
			}),
		},
	}

	got, err := New(client, client.Model).Extract(context.Background(), "A fast food delivery tool")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"fast food delivery tool"}) {
		t.Errorf("Extract = %v", got)
	}
}
