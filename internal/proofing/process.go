package proofing

import (
	"context"
	"fmt"
	"log/slog"
)

// Content types accepted by Process. FormQuestion content is an HTML table;
// the others are free text.
const (
	ContentFormQuestion = "FormQuestion"
	ContentObservation  = "Action_Observation"
	ContentRequired     = "Action_Required"
)

// Statuses recorded for a work order after proofing.
const (
	StatusProofed  = "Proofed"
	StatusOriginal = "Original"
)

// SectionContent is one record of rich text belonging to a work order.
type SectionContent struct {
	RecordID string `json:"recordId"`
	Content  string `json:"content"`
}

// Request is a batch of records to proofread for one work order.
type Request struct {
	WorkOrderID     string           `json:"workOrderId"`
	ContentType     string           `json:"contentType"`
	SectionContents []SectionContent `json:"sectionContents"`
}

// Response mirrors Request with corrected content.
type Response struct {
	WorkOrderID     string           `json:"workOrderId"`
	ContentType     string           `json:"contentType"`
	SectionContents []SectionContent `json:"sectionContents"`
	Status          string           `json:"status"`
	ChangeLogKey    string           `json:"changeLogKey,omitempty"`
}

// Service runs proofing batches end to end: judge calls, change-log CSV
// maintenance, and the Proofed/Original status decision.
type Service struct {
	judge Proofreader
	blobs ObjectStore
	log   *slog.Logger
}

func NewService(judge Proofreader, blobs ObjectStore, log *slog.Logger) *Service {
	return &Service{judge: judge, blobs: blobs, log: log}
}

// Process proofreads every record in the request. A work order is flagged
// Proofed as soon as any record's text actually changed; otherwise Original.
func (s *Service) Process(ctx context.Context, req Request) (*Response, error) {
	if req.WorkOrderID == "" {
		return nil, fmt.Errorf("missing workOrderId")
	}
	if len(req.SectionContents) == 0 {
		return nil, fmt.Errorf("no proofing items found")
	}

	var (
		logEntries []LogEntry
		changed    bool
		proofed    = make(map[string]SectionContent, len(req.SectionContents))
		order      []string
	)

	for _, item := range req.SectionContents {
		if item.RecordID == "" || item.Content == "" {
			s.log.Warn("skipping entry with missing recordId or content", "record_id", item.RecordID)
			continue
		}
		if _, ok := proofed[item.RecordID]; !ok {
			order = append(order, item.RecordID)
		}

		if req.ContentType == ContentFormQuestion {
			updated, entries := ProofTable(ctx, s.judge, item.Content, item.RecordID, s.log)
			for _, e := range entries {
				logEntries = append(logEntries, e)
				if e.Original != e.Proofed {
					changed = true
				}
			}
			proofed[item.RecordID] = SectionContent{RecordID: item.RecordID, Content: updated}
			continue
		}

		corrected := ProofText(ctx, s.judge, item.Content, item.RecordID, s.log)
		origText := StripHTML(item.Content)
		corrText := StripHTML(corrected)
		if corrText != origText {
			changed = true
			logEntries = append(logEntries, LogEntry{
				RecordID: item.RecordID,
				Original: origText,
				Proofed:  corrText,
			})
		} else {
			logEntries = append(logEntries, LogEntry{
				RecordID: item.RecordID,
				Original: "No changes needed: " + origText,
				Proofed:  "No changes made.",
			})
		}
		proofed[item.RecordID] = SectionContent{RecordID: item.RecordID, Content: corrected}
	}

	status := StatusOriginal
	if changed {
		status = StatusProofed
	}
	s.log.Info("work order proofed", "work_order_id", req.WorkOrderID, "status", status, "log_rows", len(logEntries))

	key, err := UpdateChangeLog(ctx, s.blobs, "logs", req.WorkOrderID+"_logs", logEntries)
	if err != nil {
		return nil, fmt.Errorf("update change log: %w", err)
	}

	resp := &Response{
		WorkOrderID:  req.WorkOrderID,
		ContentType:  req.ContentType,
		Status:       status,
		ChangeLogKey: key,
	}
	for _, id := range order {
		resp.SectionContents = append(resp.SectionContents, proofed[id])
	}
	return resp, nil
}
