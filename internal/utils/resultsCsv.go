package utils

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

var resultColumns = []string{
	"employee",
	"email",
	"question",
	"question_type",
	"category",
	"value",
}

// ResultRow is one answer joined with its employee and question, the
// unit of the company's results export.
type ResultRow struct {
	EmployeeName  string
	EmployeeEmail string
	QuestionText  string
	QuestionType  string
	Category      string
	Value         int
}

// GenerateResultsCSV renders the export in memory. The file is small
// (answers of one test), so no streaming is needed.
func GenerateResultsCSV(rows []ResultRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(resultColumns); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.EmployeeName,
			row.EmployeeEmail,
			row.QuestionText,
			row.QuestionType,
			row.Category,
			strconv.Itoa(row.Value),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
