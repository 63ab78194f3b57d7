package proofing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// scriptedJudge answers with a fixed function.
type scriptedJudge struct {
	answer func(system, prompt string) (string, error)
}

func (j *scriptedJudge) AskWithSystem(_ context.Context, system, prompt string) (string, error) {
	return j.answer(system, prompt)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoJudge replies to table prompts with the input array unchanged, and to
// text prompts with the text after "Text to proofread: ".
func echoJudge(t *testing.T) *scriptedJudge {
	return &scriptedJudge{answer: func(_, prompt string) (string, error) {
		if i := strings.Index(prompt, "Text to proofread: "); i >= 0 {
			return prompt[i+len("Text to proofread: "):], nil
		}
		i := strings.Index(prompt, "[")
		if i < 0 {
			t.Fatalf("unexpected prompt: %q", prompt)
		}
		return prompt[i:], nil
	}}
}

func TestProcess_Validation(t *testing.T) {
	svc := NewService(echoJudge(t), newMemStore(), discardLogger())

	if _, err := svc.Process(context.Background(), Request{ContentType: ContentObservation}); err == nil {
		t.Error("missing workOrderId must error")
	}
	if _, err := svc.Process(context.Background(), Request{WorkOrderID: "WO-1"}); err == nil {
		t.Error("empty batch must error")
	}
}

func TestProcess_TextUnchangedMeansOriginal(t *testing.T) {
	store := newMemStore()
	svc := NewService(echoJudge(t), store, discardLogger())

	resp, err := svc.Process(context.Background(), Request{
		WorkOrderID: "WO-1",
		ContentType: ContentObservation,
		SectionContents: []SectionContent{
			{RecordID: "a1", Content: "The door was wedged open."},
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Status != StatusOriginal {
		t.Fatalf("status = %q, want Original", resp.Status)
	}
	if resp.ChangeLogKey != "logs/WO-1_logs.csv" {
		t.Errorf("change log key = %q", resp.ChangeLogKey)
	}

	rows := readLog(t, store, resp.ChangeLogKey)
	if len(rows) != 2 {
		t.Fatalf("log rows = %d, want 2", len(rows))
	}
	if !strings.HasPrefix(rows[1][2], "No changes needed: ") || rows[1][3] != "No changes made." {
		t.Errorf("no-change row = %v", rows[1])
	}
}

func TestProcess_TextCorrectionMeansProofed(t *testing.T) {
	judge := &scriptedJudge{answer: func(_, _ string) (string, error) {
		return "The door was wedged open.", nil
	}}
	store := newMemStore()
	svc := NewService(judge, store, discardLogger())

	resp, err := svc.Process(context.Background(), Request{
		WorkOrderID: "WO-1",
		ContentType: ContentObservation,
		SectionContents: []SectionContent{
			{RecordID: "a1", Content: "Teh door was wedged open"},
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Status != StatusProofed {
		t.Fatalf("status = %q, want Proofed", resp.Status)
	}
	if len(resp.SectionContents) != 1 || resp.SectionContents[0].Content != "The door was wedged open." {
		t.Errorf("contents = %+v", resp.SectionContents)
	}

	rows := readLog(t, store, resp.ChangeLogKey)
	if rows[1][2] != "Teh door was wedged open" || rows[1][3] != "The door was wedged open." {
		t.Errorf("log row = %v", rows[1])
	}
}

func TestProcess_JudgeFailureFallsBackToOriginal(t *testing.T) {
	judge := &scriptedJudge{answer: func(_, _ string) (string, error) {
		return "", errors.New("judge unavailable")
	}}
	svc := NewService(judge, newMemStore(), discardLogger())

	resp, err := svc.Process(context.Background(), Request{
		WorkOrderID: "WO-1",
		ContentType: ContentRequired,
		SectionContents: []SectionContent{
			{RecordID: "a1", Content: "Replace the closer."},
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.Status != StatusOriginal {
		t.Fatalf("status = %q, want Original", resp.Status)
	}
	if resp.SectionContents[0].Content != "Replace the closer." {
		t.Errorf("content = %q", resp.SectionContents[0].Content)
	}
}

func TestProcess_SkipsBlankRecords(t *testing.T) {
	svc := NewService(echoJudge(t), newMemStore(), discardLogger())

	resp, err := svc.Process(context.Background(), Request{
		WorkOrderID: "WO-1",
		ContentType: ContentObservation,
		SectionContents: []SectionContent{
			{RecordID: "", Content: "orphan"},
			{RecordID: "a1", Content: ""},
			{RecordID: "b2", Content: "Valid entry."},
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(resp.SectionContents) != 1 || resp.SectionContents[0].RecordID != "b2" {
		t.Fatalf("contents = %+v", resp.SectionContents)
	}
}

func TestProcess_DedupesRecordIDs(t *testing.T) {
	svc := NewService(echoJudge(t), newMemStore(), discardLogger())

	resp, err := svc.Process(context.Background(), Request{
		WorkOrderID: "WO-1",
		ContentType: ContentObservation,
		SectionContents: []SectionContent{
			{RecordID: "a1", Content: "First pass."},
			{RecordID: "b2", Content: "Another record."},
			{RecordID: "a1", Content: "Second pass."},
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(resp.SectionContents) != 2 {
		t.Fatalf("contents = %+v", resp.SectionContents)
	}
	if resp.SectionContents[0].RecordID != "a1" || resp.SectionContents[1].RecordID != "b2" {
		t.Errorf("order = %+v", resp.SectionContents)
	}
	// Later content for a repeated record wins.
	if resp.SectionContents[0].Content != "Second pass." {
		t.Errorf("a1 content = %q", resp.SectionContents[0].Content)
	}
}

func TestProofTable_CorrectsValueColumn(t *testing.T) {
	judge := &scriptedJudge{answer: func(_, prompt string) (string, error) {
		i := strings.Index(prompt, "[")
		var fragments []string
		if err := json.Unmarshal([]byte(prompt[i:]), &fragments); err != nil {
			return "", err
		}
		for j, f := range fragments {
			fragments[j] = strings.ReplaceAll(f, "teh", "the")
		}
		out, err := json.Marshal(fragments)
		return string(out), err
	}}

	raw := `<table><tr><td>Observation</td><td><p>teh door was open</p></td></tr></table>`
	updated, entries := ProofTable(context.Background(), judge, raw, "a1", discardLogger())
	if !strings.Contains(updated, "the door was open") {
		t.Fatalf("updated html = %q", updated)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v", entries)
	}
	e := entries[0]
	if e.RecordID != "a1" || e.Header != "Observation" {
		t.Errorf("entry = %+v", e)
	}
	if e.Original == e.Proofed {
		t.Error("entry should record a change")
	}
	if !strings.Contains(e.Proofed, "<p>") {
		t.Errorf("formatting tags not restored: %q", e.Proofed)
	}
}

func TestProofTable_BadJudgeOutputKeepsOriginal(t *testing.T) {
	judge := &scriptedJudge{answer: func(_, _ string) (string, error) {
		return "Sure! Here is the corrected text.", nil
	}}
	raw := `<table><tr><td>Observation</td><td>text</td></tr></table>`
	updated, entries := ProofTable(context.Background(), judge, raw, "a1", discardLogger())
	if updated != raw {
		t.Fatalf("updated = %q, want original", updated)
	}
	if entries != nil {
		t.Fatalf("entries = %+v, want none", entries)
	}
}

func TestProofTable_NoTableKeepsOriginal(t *testing.T) {
	raw := `<p>no table here</p>`
	updated, entries := ProofTable(context.Background(), echoJudge(t), raw, "a1", discardLogger())
	if updated != raw || entries != nil {
		t.Fatalf("updated = %q entries = %+v", updated, entries)
	}
}

func TestProofText_PreservesFormattingTags(t *testing.T) {
	var sawPrompt string
	judge := &scriptedJudge{answer: func(_, prompt string) (string, error) {
		sawPrompt = prompt
		return "<p>corrected</p>", nil
	}}

	got := ProofText(context.Background(), judge, "<p>original</p>", "a1", discardLogger())
	if got != "<p>corrected</p>" {
		t.Fatalf("got %q", got)
	}
	// Tagged content goes to the judge as-is, not stripped.
	if !strings.Contains(sawPrompt, "<p>original</p>") {
		t.Errorf("prompt = %q", sawPrompt)
	}
}

func TestProofText_StripsUntaggedHTML(t *testing.T) {
	var sawPrompt string
	judge := &scriptedJudge{answer: func(_, prompt string) (string, error) {
		sawPrompt = prompt
		return "plain", nil
	}}

	ProofText(context.Background(), judge, "<span>plain</span>", "a1", discardLogger())
	if strings.Contains(sawPrompt, "<span>") {
		t.Errorf("untagged HTML should be stripped before judging: %q", sawPrompt)
	}
}

func TestProofText_EmptyAnswerFallsBack(t *testing.T) {
	judge := &scriptedJudge{answer: func(_, _ string) (string, error) { return "  ", nil }}
	if got := ProofText(context.Background(), judge, "keep me", "a1", discardLogger()); got != "keep me" {
		t.Fatalf("got %q", got)
	}
}
