package generator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/valpere/ottava/internal/llm"
	"github.com/valpere/ottava/internal/poem"
)

type mockClient struct {
	response  string
	err       error
	callCount atomic.Int32
	lastReq   llm.Request
}

func (m *mockClient) Complete(_ context.Context, req llm.Request) (string, error) {
	m.callCount.Add(1)
	m.lastReq = req
	return m.response, m.err
}

const eightLines = `Soft light falls on the quiet shore
Two hearts that beat as one tonight
A whispered word, and nothing more
The moon keeps watch in silver white
Your hand in mine, the world grows still
The tide returns, and so do you
A promise kept against our will
The morning breaks, and love stays true`

func TestNew_RequiresClient(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestGenerate_AllowedTopicYieldsPoem(t *testing.T) {
	mock := &mockClient{response: eightLines}
	g, err := New(mock)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	out, err := g.Generate(context.Background(), poem.ParseTopic("romance"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Kind != OutputPoem {
		t.Fatalf("expected OutputPoem, got %v", out.Kind)
	}
	if out.Poem.LineCount() != 8 {
		t.Errorf("expected 8 lines, got %d", out.Poem.LineCount())
	}
	if n := mock.callCount.Load(); n != 1 {
		t.Errorf("expected exactly 1 collaborator call, got %d", n)
	}
}

func TestGenerate_CleansArtifactsBeforeParsing(t *testing.T) {
	mock := &mockClient{response: "Here is the poem:\n" + eightLines}
	g, _ := New(mock)

	out, err := g.Generate(context.Background(), poem.ParseTopic("world_peace"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Poem.LineCount() != 8 {
		t.Errorf("expected echo stripped and 8 lines, got %d", out.Poem.LineCount())
	}
}

func TestGenerate_FreeformRefusal(t *testing.T) {
	mock := &mockClient{response: RefusalResponse}
	g, _ := New(mock)

	out, err := g.Generate(context.Background(), poem.ParseTopic("write about my dog"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutputRefusal {
		t.Fatalf("expected OutputRefusal, got %v", out.Kind)
	}
	if out.Message != RefusalResponse {
		t.Errorf("expected fixed refusal text, got %q", out.Message)
	}
}

func TestGenerate_FreeformClarification(t *testing.T) {
	mock := &mockClient{response: ClarificationResponse}
	g, _ := New(mock)

	out, err := g.Generate(context.Background(), poem.ParseTopic("a love-and-peace mashup"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutputClarification {
		t.Fatalf("expected OutputClarification, got %v", out.Kind)
	}
	if out.Message != ClarificationResponse {
		t.Errorf("expected fixed clarification text, got %q", out.Message)
	}
}

func TestGenerate_FreeformImprovisedOutputCoercedToRefusal(t *testing.T) {
	// The model ignored the instruction and wrote a poem anyway; a
	// freeform topic must never yield something the caller could validate.
	mock := &mockClient{response: eightLines}
	g, _ := New(mock)

	out, err := g.Generate(context.Background(), poem.ParseTopic("write about taxes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != OutputRefusal {
		t.Fatalf("expected OutputRefusal, got %v", out.Kind)
	}
	if !out.Poem.IsEmpty() {
		t.Error("refusal output must not carry a poem")
	}
}

func TestGenerate_UpstreamErrorPropagates(t *testing.T) {
	upstream := errors.New("connection reset")
	mock := &mockClient{err: upstream}
	g, _ := New(mock)

	_, err := g.Generate(context.Background(), poem.ParseTopic("romance"))
	if !errors.Is(err, upstream) {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}

func TestGenerate_InstructionNamesBothFixedResponses(t *testing.T) {
	mock := &mockClient{response: eightLines}
	g, _ := New(mock)

	if _, err := g.Generate(context.Background(), poem.ParseTopic("romance")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	instr := mock.lastReq.Instruction
	if !strings.Contains(instr, RefusalResponse) || !strings.Contains(instr, ClarificationResponse) {
		t.Error("instruction must spell out both fixed non-poem responses")
	}
	if !strings.Contains(mock.lastReq.Input, "romance") {
		t.Errorf("expected topic in input, got %q", mock.lastReq.Input)
	}
}
