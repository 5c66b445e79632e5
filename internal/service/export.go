package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Tasks"

// exportColumns define as colunas do relatório, na ordem de exibição
var exportColumns = []string{
	"Key", "Title", "Status", "Estimate", "Assignee", "Reporter", "Tags", "Created At", "Updated At",
}

// ExportService gera relatórios Excel do corpus de tasks
type ExportService struct{}

// NewExportService cria um novo gerador de relatórios
func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportTasks gera um arquivo Excel com as tasks informadas
func (s *ExportService) ExportTasks(tasks []model.Task) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Renomeia a sheet padrão
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, exportSheetName); err != nil {
		return nil, fmt.Errorf("renomear sheet: %w", err)
	}

	if err := s.writeHeaders(f); err != nil {
		return nil, fmt.Errorf("escrever headers: %w", err)
	}

	if err := s.writeRows(f, tasks); err != nil {
		return nil, fmt.Errorf("escrever dados: %w", err)
	}

	// Largura fixa para leitura confortável
	for col := 1; col <= len(exportColumns); col++ {
		colName, _ := excelize.ColumnNumberToName(col)
		if err := f.SetColWidth(exportSheetName, colName, colName, 20); err != nil {
			return nil, fmt.Errorf("ajustar colunas: %w", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escrever buffer: %w", err)
	}

	return buf, nil
}

// writeHeaders escreve o cabeçalho estilizado
func (s *ExportService) writeHeaders(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	for col, header := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(exportSheetName, cell, cell, style); err != nil {
			return err
		}
	}

	return nil
}

// writeRows escreve uma linha por task
func (s *ExportService) writeRows(f *excelize.File, tasks []model.Task) error {
	for row, task := range tasks {
		excelRow := row + 2 // Linha 1 é header

		values := []interface{}{
			task.Key,
			task.Title,
			string(task.Status),
			estimateCell(task.Estimate),
			task.Assignee,
			task.Reporter,
			strings.Join(task.Tags, ", "),
			task.CreatedAt.Format(time.RFC3339),
			task.UpdatedAt.Format(time.RFC3339),
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, excelRow)
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// estimateCell formata a estimativa para a célula (vazio quando ausente)
func estimateCell(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
