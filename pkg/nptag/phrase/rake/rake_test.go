package rake

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestPhrasesSplitAtStopwords(t *testing.T) {
	e := New([]string{"a", "the", "and", "of"}, 1)

	got := e.Phrases("A fast food delivery tool and the receipt printer")
	want := []string{"fast food delivery tool", "receipt printer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Phrases = %v, want %v", got, want)
	}
}

func TestPhrasesSplitAtPunctuation(t *testing.T) {
	e := New(nil, 1)

	got := e.Phrases("markdown parser, html renderer; json output")
	want := []string{"markdown parser", "html renderer", "json output"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Phrases = %v, want %v", got, want)
	}
}

func TestPhrasesMinWords(t *testing.T) {
	e := New([]string{"a", "of"}, 2)

	got := e.Phrases("a list of delivery receipts")
	want := []string{"delivery receipts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Phrases = %v, want %v", got, want)
	}
}

func TestPhrasesHyphens(t *testing.T) {
	e := New(nil, 1)

	got := e.Phrases("-emulator-assembler- machine--learning")
	want := []string{"emulator-assembler machine-learning"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Phrases = %v, want %v", got, want)
	}
}

func TestPhrasesNumbersBreak(t *testing.T) {
	e := New(nil, 1)

	got := e.Phrases("gpt-4 models from 2023 benchmark suite")
	want := []string{"gpt-4 models from", "benchmark suite"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Phrases = %v, want %v", got, want)
	}
}

func TestPhrasesCaseNormalization(t *testing.T) {
	e := New([]string{"THE"}, 1)

	for _, p := range e.Phrases("The BERT Transformer") {
		if p != strings.ToLower(p) {
			t.Errorf("phrase %q should be lower-cased", p)
		}
		if strings.Contains(p, "the") {
			t.Errorf("stopword should be removed regardless of case: %q", p)
		}
	}
}

func TestPhrasesEmptyInput(t *testing.T) {
	e := New(DefaultStopwords, 1)

	if got := e.Phrases("   \t\n "); len(got) != 0 {
		t.Errorf("whitespace-only input should produce no phrases, got %v", got)
	}
}

func TestPhrasesApostrophe(t *testing.T) {
	e := New(DefaultStopwords, 1)

	got := e.Phrases("the user's shopping list")
	want := []string{"users shopping list"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Phrases = %v, want %v", got, want)
	}
}

func TestNameDependsOnStoplist(t *testing.T) {
	a := New([]string{"the", "a"}, 1)
	b := New([]string{"A", "the"}, 1)
	c := New([]string{"the"}, 1)
	d := New([]string{"the", "a"}, 2)

	if a.Name() != b.Name() {
		t.Errorf("same stoplist should give the same name: %s vs %s", a.Name(), b.Name())
	}
	if a.Name() == c.Name() || a.Name() == d.Name() {
		t.Error("different settings should give different names")
	}
	if !strings.HasPrefix(a.Name(), "rake/") {
		t.Errorf("unexpected name %q", a.Name())
	}
}

func TestExtract(t *testing.T) {
	e := New(DefaultStopwords, 1)

	got, err := e.Extract(context.Background(), "Outputs a delivery receipt")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"outputs", "delivery receipt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}
