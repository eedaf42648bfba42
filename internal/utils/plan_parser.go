// Package utils provides utility functions for the investment projection engine.
package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"investment-projection-engine/internal/models"
)

// PlanParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in a payment-plan CSV.
var RequiredColumns = []string{
	"kind",
	"trigger_value",
	"payment_percent",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// kind aliases
	"type":         "kind",
	"trigger_type": "kind",
	"milestone":    "kind",
	"stage":        "kind",

	// trigger_value aliases
	"trigger":       "trigger_value",
	"trigger value": "trigger_value",
	"months":        "trigger_value",
	"month":         "trigger_value",
	"completion":    "trigger_value",
	"percent_done":  "trigger_value",

	// payment_percent aliases
	"percent":         "payment_percent",
	"payment":         "payment_percent",
	"payment percent": "payment_percent",
	"amount_percent":  "payment_percent",
	"share":           "payment_percent",

	// label aliases
	"name":        "label",
	"description": "label",
	"title":       "label",
}

// kindAliases maps common spellings of milestone kinds in uploaded plans.
var kindAliases = map[string]models.MilestoneKind{
	"time":              models.MilestoneKindTime,
	"booking":           models.MilestoneKindTime,
	"months":            models.MilestoneKindTime,
	"construction":      models.MilestoneKindConstruction,
	"completion":        models.MilestoneKindConstruction,
	"percent_complete":  models.MilestoneKindConstruction,
	"handover":          models.MilestoneKindHandover,
	"on_handover":       models.MilestoneKindHandover,
	"post_handover":     models.MilestoneKindPostHandover,
	"post handover":     models.MilestoneKindPostHandover,
	"posthandover":      models.MilestoneKindPostHandover,
	"after_handover":    models.MilestoneKindPostHandover,
	"months_after_hand": models.MilestoneKindPostHandover,
}

// PlanParser handles parsing of payment-plan CSV uploads (bulk milestone entry).
type PlanParser struct {
	columnMapping map[string]int
}

// NewPlanParser creates a new plan parser instance.
func NewPlanParser() *PlanParser {
	return &PlanParser{columnMapping: make(map[string]int)}
}

// ParseMilestones parses CSV content and returns the milestone list. Row
// errors are collected rather than aborting the upload; the caller decides
// whether partial plans are acceptable before handing the list to the
// schedule resolver.
func (p *PlanParser) ParseMilestones(content string) ([]models.PaymentMilestone, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var milestones []models.PaymentMilestone
	var parseErrors []error
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		milestone, err := p.parseRow(record)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		milestones = append(milestones, milestone)
	}

	if len(milestones) == 0 && len(parseErrors) > 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return milestones, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *PlanParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}
		p.columnMapping[normalized] = i
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow parses a single CSV row into a PaymentMilestone.
func (p *PlanParser) parseRow(record []string) (models.PaymentMilestone, error) {
	getValue := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	kind, err := normalizeKind(getValue("kind"))
	if err != nil {
		return models.PaymentMilestone{}, err
	}

	trigger := 0.0
	if raw := getValue("trigger_value"); raw != "" {
		trigger, err = parseFloat(raw)
		if err != nil {
			return models.PaymentMilestone{}, fmt.Errorf("invalid trigger_value: %w", err)
		}
	}

	percent, err := parseFloat(getValue("payment_percent"))
	if err != nil {
		return models.PaymentMilestone{}, fmt.Errorf("invalid payment_percent: %w", err)
	}
	if percent < 0 || percent > 100 {
		return models.PaymentMilestone{}, fmt.Errorf("payment_percent %.2f is outside 0-100", percent)
	}

	return models.PaymentMilestone{
		Label:          getValue("label"),
		Kind:           kind,
		TriggerValue:   trigger,
		PaymentPercent: percent,
	}, nil
}

// normalizeKind converts uploaded kind spellings to standard values.
func normalizeKind(raw string) (models.MilestoneKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if kind, ok := kindAliases[normalized]; ok {
		return kind, nil
	}
	if kind := models.MilestoneKind(normalized); kind.IsValid() {
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrInvalidMilestoneKind, raw)
}

// parseFloat parses a float allowing currency-style formatting (commas, %).
func parseFloat(s string) (float64, error) {
	cleaned := strings.ReplaceAll(s, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(cleaned, 64)
}
