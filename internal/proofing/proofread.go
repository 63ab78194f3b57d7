package proofing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Proofreader is the judge surface this package needs.
type Proofreader interface {
	AskWithSystem(ctx context.Context, system, prompt string) (string, error)
}

const tableSystemPrompt = "You are a meticulous proofreader. Correct only spelling, grammar and punctuation in British English. " +
	"Do NOT add, remove, reorder, split or merge any text or HTML tags. " +
	"Output only the corrected JSON array of strings, matching the input array exactly. " +
	"Ensure each sentence ends with a full stop unless it already ends with appropriate punctuation (e.g. '.', '!', '?')"

const textSystemPrompt = "You are a meticulous proofreader. " +
	"Correct spelling, grammar and clarity only — no extra commentary or re-structuring. " +
	"Ensure each sentence ends with a full stop unless it already ends with appropriate punctuation (e.g. '.', '!', '?')"

// LogEntry records one before/after pair for the change log.
type LogEntry struct {
	RecordID string
	Header   string
	Original string
	Proofed  string
}

// ProofTable proofs the value column of a two-column HTML table. The first
// <td> of each row is the field label and stays untouched; the second holds
// the rich-text value, which is protected, batched through the judge as a
// JSON array, and written back in place. On any failure the original HTML is
// returned unchanged with no log entries.
func ProofTable(ctx context.Context, pr Proofreader, rawHTML, recordID string, log *slog.Logger) (string, []LogEntry) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		log.Error("parse table html", "record_id", recordID, "error", err)
		return rawHTML, nil
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		log.Warn("no table in record", "record_id", recordID)
		return rawHTML, nil
	}
	rows := table.Find("tr")
	if rows.Length() == 0 {
		log.Warn("no rows in table", "record_id", recordID)
		return rawHTML, nil
	}

	fragments := make([]string, 0, rows.Length())
	rows.Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() >= 2 {
			raw, err := tds.Eq(1).Html()
			if err != nil {
				raw = ""
			}
			fragments = append(fragments, ProtectTags(raw))
		} else {
			fragments = append(fragments, "")
		}
	})

	payload, err := json.Marshal(fragments)
	if err != nil {
		log.Error("marshal fragments", "record_id", recordID, "error", err)
		return rawHTML, nil
	}
	log.Info("proofing table", "record_id", recordID, "fragments", len(fragments))

	answer, err := pr.AskWithSystem(ctx, tableSystemPrompt,
		"Proofread this JSON array of HTML fragments (no commentary):\n\n"+string(payload))
	if err != nil {
		log.Error("proof table", "record_id", recordID, "error", err)
		return rawHTML, nil
	}

	var corrected []string
	if err := json.Unmarshal([]byte(answer), &corrected); err != nil || len(corrected) != len(fragments) {
		log.Error("bad proofread array", "record_id", recordID, "error", err)
		return rawHTML, nil
	}

	var entries []LogEntry
	rows.Each(func(i int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 2 {
			return
		}
		restored := RestoreTags(corrected[i])
		tds.Eq(1).SetHtml(restored)
		entries = append(entries, LogEntry{
			RecordID: recordID,
			Header:   strings.TrimSpace(tds.Eq(0).Text()),
			Original: fragments[i],
			Proofed:  restored,
		})
	})

	out, err := doc.Html()
	if err != nil {
		return rawHTML, nil
	}
	return out, entries
}

// ProofText proofs free-form text. Content carrying formatting tags is sent
// untouched so the judge sees (and preserves) them; anything else is stripped
// to plain text first. Failures fall back to the original text.
func ProofText(ctx context.Context, pr Proofreader, text, recordID string, log *slog.Logger) string {
	plain := text
	if !hasFormattingTags(text) {
		plain = StripHTML(text)
	}
	prompt := fmt.Sprintf("Proofread the following text according to these strict guidelines:\n"+
		"- Do NOT add any new introductory text or explanatory sentences before or after the original content.\n"+
		"- Spelling and grammar are corrected in British English, and spacing is corrected.\n"+
		"- Headings, section titles, and structure remain unchanged.\n"+
		"- Do NOT remove any words or phrases from the original content.\n"+
		"- Do NOT split, merge, or add any new sentences or content.\n"+
		"- Ensure that lists, bullet points, and standalone words remain intact.\n"+
		"- Ensure only to proofread once, NEVER repeat the same text twice in the output.\n\n"+
		"Text to proofread: %s", plain)

	answer, err := pr.AskWithSystem(ctx, textSystemPrompt, prompt)
	if err != nil {
		log.Error("proof text", "record_id", recordID, "error", err)
		return text
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return text
	}
	return answer
}
