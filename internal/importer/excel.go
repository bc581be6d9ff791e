// Package importer loads participant rosters from spreadsheet files.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hmkim/club-ledger/internal/domain"
	"github.com/hmkim/club-ledger/internal/service"
	customError "github.com/hmkim/club-ledger/pkg/errors"
)

// Column headers as they appear in the club's roster spreadsheet.
const (
	colName            = "이름"
	colGender          = "성별"
	colMemberType      = "초중구분"
	colCopyType        = "복사구분"
	colStatus          = "상태"
	colNextPaymentDate = "다음 결제일"
	colMemo            = "메모"
	colStudentPhone    = "학생 연락처"
	colParentPhone     = "부모 연락처"
)

// Result reports how an import went. Rows with missing or invalid required
// fields are skipped, not fatal.
type Result struct {
	Imported int          `json:"imported"`
	Skipped  []SkippedRow `json:"skipped"`
}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// RosterImporter parses .xlsx rosters and registers each row through the
// participant registry.
type RosterImporter struct {
	registry *service.ParticipantRegistry
}

func NewRosterImporter(registry *service.ParticipantRegistry) *RosterImporter {
	return &RosterImporter{registry: registry}
}

// ImportXLSX reads the first sheet of the workbook. The header row must
// carry at least the name, gender, and member-type columns; the remaining
// columns are optional.
func (i *RosterImporter) ImportXLSX(ctx context.Context, r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, customError.WrapValidation("file is not a valid spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, customError.WrapValidation("spreadsheet has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, customError.WrapValidation("could not read spreadsheet rows", err)
	}
	if len(rows) < 2 {
		return nil, customError.WrapValidation("spreadsheet has no data rows", nil)
	}

	columns := indexColumns(rows[0])
	for _, required := range []string{colName, colGender, colMemberType} {
		if _, ok := columns[required]; !ok {
			return nil, customError.WrapValidation(
				fmt.Sprintf("header row is missing required column %q", required), nil)
		}
	}

	result := &Result{Skipped: []SkippedRow{}}

	for rowIdx, row := range rows[1:] {
		rowNum := rowIdx + 2 // 1-based, after the header

		if isEmptyRow(row) {
			continue
		}

		request, reason := rowToRequest(columns, row)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{Row: rowNum, Reason: reason})
			continue
		}

		if _, err := i.registry.Register(ctx, request); err != nil {
			if customError.IsValidation(err) {
				result.Skipped = append(result.Skipped, SkippedRow{Row: rowNum, Reason: err.Error()})
				continue
			}
			return nil, err
		}
		result.Imported++
	}

	return result, nil
}

func rowToRequest(columns map[string]int, row []string) (*domain.RegisterParticipantRequest, string) {
	name := cell(columns, row, colName)
	gender := cell(columns, row, colGender)
	memberType := cell(columns, row, colMemberType)

	if name == "" || gender == "" || memberType == "" {
		return nil, "missing name, gender, or member type"
	}
	if gender != "남" && gender != "여" {
		return nil, fmt.Sprintf("invalid gender %q", gender)
	}
	if memberType != "초등" && memberType != "중등" {
		return nil, fmt.Sprintf("invalid member type %q", memberType)
	}

	// Roster cells use the Korean status labels; anything unrecognized
	// falls back to active.
	status := domain.StatusActive
	switch cell(columns, row, colStatus) {
	case "비활성":
		status = domain.StatusInactive
	case "미납":
		status = domain.StatusLapsed
	}

	copyType := domain.CopyTypeMinor
	if cell(columns, row, colCopyType) == domain.CopyTypeMajor {
		copyType = domain.CopyTypeMajor
	}

	return &domain.RegisterParticipantRequest{
		Name:            name,
		Gender:          gender,
		MemberType:      memberType,
		CopyType:        copyType,
		Status:          string(status),
		NextPaymentDate: cell(columns, row, colNextPaymentDate),
		Memo:            cell(columns, row, colMemo),
		StudentPhone:    cell(columns, row, colStudentPhone),
		ParentPhone:     cell(columns, row, colParentPhone),
	}, ""
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}

func cell(columns map[string]int, row []string, column string) string {
	idx, ok := columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
