package questionbank_test

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/exam-simulator/internal/model"
	"github.com/stemsi/exam-simulator/internal/questionbank"
)

func makeQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := 0; i < n; i++ {
		qs[i] = model.Question{
			ID:        fmt.Sprintf("q%d", i+1),
			Prompt:    fmt.Sprintf("Question %d", i+1),
			Options:   []string{"A. one", "B. two", "C. three"},
			Correct:   "B. two",
			Rationale: "because",
		}
	}
	return qs
}

func newBank(n int) *questionbank.Bank {
	return questionbank.New(makeQuestions(n), zerolog.Nop(),
		questionbank.WithRand(rand.New(rand.NewPCG(7, 11))))
}

func TestSample_Length(t *testing.T) {
	tests := []struct {
		pool  int
		count int
		want  int
	}{
		{pool: 5, count: 3, want: 3},
		{pool: 5, count: 5, want: 5},
		{pool: 5, count: 1000, want: 5},
		{pool: 5, count: 0, want: 0},
		{pool: 5, count: -4, want: 0},
		{pool: 0, count: 3, want: 0},
		{pool: 1, count: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("pool=%d/count=%d", tt.pool, tt.count), func(t *testing.T) {
			got := newBank(tt.pool).Sample(tt.count, "")
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != tt.want {
				t.Errorf("expected %d questions, got %d", tt.want, len(got))
			}
		})
	}
}

func TestSample_DistinctAndFromPool(t *testing.T) {
	bank := newBank(5)

	for trial := 0; trial < 50; trial++ {
		got := bank.Sample(3, "")
		seen := make(map[string]bool)
		for _, q := range got {
			if seen[q.ID] {
				t.Fatalf("duplicate id %s in sample", q.ID)
			}
			seen[q.ID] = true
			if _, ok := bank.Get(q.ID); !ok {
				t.Fatalf("sampled id %s not in pool", q.ID)
			}
		}
	}
}

func TestSample_UniformPermutations(t *testing.T) {
	bank := newBank(3)
	const trials = 6000

	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		var ids []string
		for _, q := range bank.Sample(3, "") {
			ids = append(ids, q.ID)
		}
		counts[strings.Join(ids, ",")]++
	}

	if len(counts) != 6 {
		t.Fatalf("expected all 6 orderings, saw %d: %v", len(counts), counts)
	}
	for perm, n := range counts {
		// Expected 1000 each; the bound is over 6 standard deviations wide.
		if n < 800 || n > 1200 {
			t.Errorf("ordering %s appeared %d times, outside [800,1200]", perm, n)
		}
	}
}

func TestSample_DoesNotMutatePool(t *testing.T) {
	bank := newBank(5)
	before := bank.All()

	got := bank.Sample(5, "")
	got[0].Options[0] = "mutated"
	got[0].Prompt = "mutated"

	after := bank.All()
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Prompt != after[i].Prompt || before[i].Options[0] != after[i].Options[0] {
			t.Fatalf("pool changed at %d: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestSample_TopicIsIgnored(t *testing.T) {
	bank := newBank(5)
	if got := bank.Sample(4, "risk"); len(got) != 4 {
		t.Errorf("expected topic to be inert, got %d questions", len(got))
	}
}

func TestNew_ExcludesMalformed(t *testing.T) {
	qs := makeQuestions(3)
	qs = append(qs,
		model.Question{ID: "bad-correct", Prompt: "x", Options: []string{"A", "B"}, Correct: "C"},
		model.Question{ID: "no-options", Prompt: "x", Correct: "A"},
		model.Question{ID: "dup-options", Prompt: "x", Options: []string{"A", "A"}, Correct: "A"},
		model.Question{ID: "q1", Prompt: "duplicate id", Options: []string{"A"}, Correct: "A"},
	)

	bank := questionbank.New(qs, zerolog.Nop())

	if bank.Size() != 3 {
		t.Fatalf("expected 3 valid questions, got %d", bank.Size())
	}
	if q, _ := bank.Get("q1"); q.Prompt != "Question 1" {
		t.Errorf("expected first q1 to win, got %q", q.Prompt)
	}
	if _, ok := bank.Get("bad-correct"); ok {
		t.Error("expected question with foreign correct answer to be excluded")
	}
}

func TestDefaultQuestions(t *testing.T) {
	qs, err := questionbank.DefaultQuestions()
	if err != nil {
		t.Fatalf("load default pool: %v", err)
	}

	bank := questionbank.New(qs, zerolog.Nop())
	if bank.Size() != 5 {
		t.Errorf("expected 5 built-in questions, got %d", bank.Size())
	}

	q, ok := bank.Get("q3")
	if !ok {
		t.Fatal("expected q3 in built-in pool")
	}
	if !strings.HasPrefix(q.Correct, "B. ") {
		t.Errorf("unexpected correct answer for q3: %q", q.Correct)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := questionbank.LoadFile("does-not-exist.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
