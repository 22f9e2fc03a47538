package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/models"
	"mestizo-crm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImportResult reports how many rows were created and the first few row
// errors. A bad row never aborts the remaining rows.
type ImportResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

const maxImportErrors = 10

// csvTable gives header-keyed access to CSV rows. Headers are matched
// case-insensitively and values may be addressed by any of several aliases,
// so both English and Spanish column names work.
type csvTable struct {
	index map[string]int
	rows  [][]string
}

func (t *csvTable) value(row []string, aliases ...string) string {
	for _, alias := range aliases {
		if i, ok := t.index[alias]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

// ImportCustomers bulk-creates customers from an uploaded CSV file.
func ImportCustomers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	table, ok := readCSVUpload(c)
	if !ok {
		return
	}

	result := ImportResult{Errors: []string{}}
	for i, row := range table.rows {
		rowNum := i + 2 // header is row 1
		customer, err := customerFromRow(table, row, userID)
		if err != nil {
			if len(result.Errors) < maxImportErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", rowNum, err.Error()))
			}
			continue
		}
		if err := config.DB.Create(customer).Error; err != nil {
			if len(result.Errors) < maxImportErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: failed to save", rowNum))
			}
			continue
		}
		result.Created++
	}

	c.JSON(http.StatusCreated, result)
}

// ImportLeads bulk-creates leads from an uploaded CSV file.
func ImportLeads(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	table, ok := readCSVUpload(c)
	if !ok {
		return
	}

	result := ImportResult{Errors: []string{}}
	for i, row := range table.rows {
		rowNum := i + 2
		lead, err := leadFromRow(table, row, userID)
		if err != nil {
			if len(result.Errors) < maxImportErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", rowNum, err.Error()))
			}
			continue
		}
		if err := config.DB.Create(lead).Error; err != nil {
			if len(result.Errors) < maxImportErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: failed to save", rowNum))
			}
			continue
		}
		result.Created++
	}

	c.JSON(http.StatusCreated, result)
}

func customerFromRow(table *csvTable, row []string, userID uuid.UUID) (*models.Customer, error) {
	name := table.value(row, "name", "nombre")
	if name == "" {
		return nil, errors.New("name is required")
	}

	customerType := models.CustomerTypeIndividual
	if raw := table.value(row, "type", "tipo"); raw != "" {
		customerType = models.CustomerType(strings.ToUpper(raw))
		if !customerType.Valid() {
			return nil, errors.New("invalid customer type: " + raw)
		}
	}

	return &models.Customer{
		Type:        customerType,
		Name:        name,
		Phone:       table.value(row, "phone", "telefono"),
		Email:       table.value(row, "email"),
		Notes:       table.value(row, "notes", "notas"),
		CreatedByID: &userID,
	}, nil
}

func leadFromRow(table *csvTable, row []string, userID uuid.UUID) (*models.Lead, error) {
	name := table.value(row, "name", "nombre")
	if name == "" {
		return nil, errors.New("name is required")
	}

	source := models.LeadSourceOther
	if raw := table.value(row, "source", "fuente"); raw != "" {
		source = models.LeadSource(strings.ToUpper(raw))
		if !source.Valid() {
			return nil, errors.New("invalid lead source: " + raw)
		}
	}

	return &models.Lead{
		Name:        name,
		Phone:       table.value(row, "phone", "telefono"),
		Email:       table.value(row, "email"),
		Source:      source,
		Status:      models.LeadStatusNew,
		Notes:       table.value(row, "notes", "notas"),
		CreatedByID: &userID,
	}, nil
}

// readCSVUpload pulls the "file" multipart field and parses it as a UTF-8
// CSV with a header row. Any failure here is request-fatal (400); row-level
// problems are handled by the callers.
func readCSVUpload(c *gin.Context) (*csvTable, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "No file provided")
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file")
		return nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, false
	}
	if !utf8.Valid(content) {
		utils.RespondWithError(c, http.StatusBadRequest, "File is not valid UTF-8")
		return nil, false
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to parse CSV header")
		return nil, false
	}

	table := &csvTable{index: make(map[string]int, len(header))}
	for i, column := range header {
		table.index[strings.ToLower(strings.TrimSpace(column))] = i
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Failed to parse CSV file")
			return nil, false
		}
		table.rows = append(table.rows, row)
	}

	return table, true
}
