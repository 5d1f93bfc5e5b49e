package services

import (
	"fmt"
	"io"

	"law-office-api/models"
	"law-office-api/utils"

	"github.com/xuri/excelize/v2"
)

const contractExportSheet = "Contratos"

var contractExportHeaders = []string{"Código", "Título", "Cliente", "Documento", "Tipo", "Valor", "Início", "Término", "Comarca", "Status"}

// WriteContractsXLSX writes the contract list as a spreadsheet to w.
func WriteContractsXLSX(w io.Writer, contracts []models.Contract) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(contractExportSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(contractExportSheet); err == nil {
		f.SetActiveSheet(index)
	}

	for i, header := range contractExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(contractExportSheet, cell, header)
	}

	for i, c := range contracts {
		row := i + 2
		clientName, clientDoc := "", ""
		if c.Client != nil {
			clientName = c.Client.Name
			clientDoc = c.Client.DocumentNumber
		}
		value := ""
		if c.Value.Valid {
			value = utils.FormatBRL(c.Value.Decimal)
		}

		cells := []interface{}{
			c.Code,
			c.Title,
			clientName,
			clientDoc,
			c.ContractType,
			value,
			utils.FormatLongDatePtr(c.StartDate),
			utils.FormatLongDatePtr(c.EndDate),
			c.Jurisdiction,
			c.Status,
		}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(contractExportSheet, cell, v)
		}
	}

	return f.Write(w)
}
