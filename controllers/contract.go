package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"law-office-api/config"
	"law-office-api/models"
	"law-office-api/services"
	"law-office-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const requestDateLayout = "2006-01-02"

// catalogBackend is what the handlers need from services.CatalogService.
type catalogBackend interface {
	GetTemplate(ctx context.Context, id int) (models.ContractTemplate, error)
	FindTemplate(ctx context.Context, id int) (models.ContractTemplate, error)
	ListActiveClauses(ctx context.Context) ([]models.ClauseTemplate, error)
	ListActiveTemplates(ctx context.Context) ([]models.ContractTemplate, error)
	ListAllClauses(ctx context.Context) ([]models.ClauseTemplate, error)
	ListAllTemplates(ctx context.Context) ([]models.ContractTemplate, error)
	ClausesByIDs(ctx context.Context, ids []int) ([]models.ClauseTemplate, error)
	CreateClause(ctx context.Context, input services.ClauseInput) (models.ClauseTemplate, error)
	UpdateClause(ctx context.Context, id int, input services.ClauseInput) (models.ClauseTemplate, error)
	DeleteClause(ctx context.Context, id int) error
	ReorderClauses(ctx context.Context, orderedIDs []int) error
	CreateTemplate(ctx context.Context, input services.TemplateInput) (models.ContractTemplate, error)
	UpdateTemplate(ctx context.Context, id int, input services.TemplateInput) (models.ContractTemplate, error)
	DeleteTemplate(ctx context.Context, id int) error
}

type clientBackend interface {
	Get(ctx context.Context, id int) (*models.Client, error)
	List(ctx context.Context, search string, limit, offset int) ([]models.Client, int64, error)
	Create(ctx context.Context, input services.ClientInput) (*models.Client, error)
	Update(ctx context.Context, id int, input services.ClientInput) (*models.Client, error)
	Delete(ctx context.Context, id int) error
}

type contractBackend interface {
	Create(ctx context.Context, in services.NewContract) (*models.Contract, error)
	Get(ctx context.Context, id int) (*models.Contract, error)
	List(ctx context.Context, filter services.ContractFilter) ([]models.Contract, int64, error)
	UpdateStatus(ctx context.Context, id int, status string) (*models.Contract, error)
	Delete(ctx context.Context, id int) error
}

var (
	catalogStore = func() catalogBackend {
		return services.NewCatalogService(nil, config.RDB)
	}
	clientStore = func() clientBackend {
		return services.NewClientService(nil)
	}
	contractStore = func() contractBackend {
		return services.NewContractService(nil)
	}
	sendMailFunc = config.SendMail
	clock        = time.Now
)

var errNegativeValue = errors.New("must not be negative")

type contractDraftRequest struct {
	TemplateID      int             `json:"template_id"`
	Title           string          `json:"title"`
	ClientID        *int            `json:"client_id"`
	Value           json.RawMessage `json:"value"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Description     string          `json:"description"`
	ContractType    string          `json:"contract_type"`
	Jurisdiction    string          `json:"jurisdiction"`
	WitnessRequired bool            `json:"witness_required"`
	ClauseIDs       []int           `json:"clause_ids"`
}

// draftInputError marks a malformed (not merely missing) draft field.
type draftInputError struct {
	field string
	err   error
}

func (e *draftInputError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.field, e.err)
}

func (e *draftInputError) Unwrap() error { return e.err }

type contractStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type paymentPlanRequest struct {
	Value        json.RawMessage            `json:"value"`
	StartDate    string                     `json:"start_date"`
	Installments []services.InstallmentRule `json:"installments"`
}

// toFields collects and normalizes the contract metadata. Blank values stay blank;
// only malformed values are rejected.
func (r contractDraftRequest) toFields() (services.ContractFields, error) {
	fields := services.ContractFields{
		Title:           utils.SanitizeInput(r.Title),
		ClientID:        r.ClientID,
		Description:     utils.SanitizeInput(r.Description),
		ContractType:    utils.SanitizeInput(r.ContractType),
		Jurisdiction:    utils.SanitizeInput(r.Jurisdiction),
		WitnessRequired: r.WitnessRequired,
	}

	value, err := parseOptionalDecimal(r.Value)
	if err != nil {
		return fields, &draftInputError{field: "value", err: err}
	}
	if value != nil && value.IsNegative() {
		return fields, &draftInputError{field: "value", err: errNegativeValue}
	}
	fields.Value = value

	if fields.StartDate, err = parseOptionalDate(r.StartDate); err != nil {
		return fields, &draftInputError{field: "start_date", err: err}
	}
	if fields.EndDate, err = parseOptionalDate(r.EndDate); err != nil {
		return fields, &draftInputError{field: "end_date", err: err}
	}
	return fields, nil
}

func parseOptionalDecimal(raw json.RawMessage) (*decimal.Decimal, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return nil, nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	if text == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(text)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(requestDateLayout, raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// assembleDraft fetches client and clauses up front, then renders. The returned
// warnings list soft failures that were replaced by placeholders.
func assembleDraft(c *gin.Context, req contractDraftRequest) (*services.RenderedContract, services.ContractFields, []string, error) {
	ctx := c.Request.Context()
	var warnings []string

	fields, err := req.toFields()
	if err != nil {
		return nil, fields, nil, err
	}
	if req.TemplateID <= 0 {
		return nil, fields, nil, services.ErrTemplateNotFound
	}

	var client *models.Client
	if fields.ClientID != nil {
		client, err = clientStore().Get(ctx, *fields.ClientID)
		if err != nil {
			if !errors.Is(err, services.ErrClientNotFound) {
				return nil, fields, nil, err
			}
			warnings = append(warnings, fmt.Sprintf("client %d not found, client fields left as placeholders", *fields.ClientID))
			fields.ClientID = nil
			client = nil
		}
	}

	catalog := catalogStore()
	clauses, err := catalog.ClausesByIDs(ctx, req.ClauseIDs)
	if err != nil {
		return nil, fields, nil, err
	}
	if len(clauses) != len(uniqueIDs(req.ClauseIDs)) {
		warnings = append(warnings, "some selected clauses are inactive or missing and were skipped")
	}

	rendered, err := services.NewContractAssembler(catalog).Assemble(ctx, req.TemplateID, fields, client, clauses, clock())
	if err != nil {
		return nil, fields, nil, err
	}
	return rendered, fields, warnings, nil
}

func uniqueIDs(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func respondDraftError(c *gin.Context, err error) {
	var inputErr *draftInputError
	switch {
	case errors.Is(err, services.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrTemplateNotFound.Error()})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error()})
	default:
		log.Printf("contract draft failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render contract"})
	}
}

// PreviewContract renders a contract without saving it.
func PreviewContract(c *gin.Context) {
	var req contractDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	rendered, _, warnings, err := assembleDraft(c, req)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"template_id":           rendered.Template.TemplateID,
			"template_name":         rendered.Template.Name,
			"template_body_applied": rendered.TemplateBodyApplied,
			"content":               rendered.Content,
			"generated_at":          rendered.GeneratedAt,
		},
		"warnings": warnings,
	})
}

// CreateContract renders a contract and stores it as a draft.
func CreateContract(c *gin.Context) {
	var req contractDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	rendered, fields, warnings, err := assembleDraft(c, req)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	userID, _ := c.Get("userID")
	createdBy, _ := userID.(int)

	contract, err := contractStore().Create(c.Request.Context(), services.NewContract{
		TemplateID: rendered.Template.TemplateID,
		Fields:     fields,
		Content:    rendered.Content,
		CreatedBy:  createdBy,
	})
	if err != nil {
		log.Printf("create contract failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contract"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Contract created successfully",
		"data":     contract,
		"warnings": warnings,
	})
}

// GetContracts lists contracts with optional client_id, status and search filters.
func GetContracts(c *gin.Context) {
	filter, ok := contractFilterFromQuery(c)
	if !ok {
		return
	}

	contracts, total, err := contractStore().List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("list contracts failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contracts,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func GetContract(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contract, err := contractStore().Get(c.Request.Context(), id)
	if err != nil {
		respondContractError(c, err, "Failed to fetch contract")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contract})
}

func UpdateContractStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req contractStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	contract, err := contractStore().UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondContractError(c, err, "Failed to update contract")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated", "data": contract})
}

func DeleteContract(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := contractStore().Delete(c.Request.Context(), id); err != nil {
		respondContractError(c, err, "Failed to delete contract")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contract deleted"})
}

// DownloadContract returns the stored contract text as a .txt attachment.
func DownloadContract(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contract, err := contractStore().Get(c.Request.Context(), id)
	if err != nil {
		respondContractError(c, err, "Failed to fetch contract")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, contractFileName(contract)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(contract.Content))
}

// ExportContracts streams the filtered contract list as an .xlsx file.
func ExportContracts(c *gin.Context) {
	filter, ok := contractFilterFromQuery(c)
	if !ok {
		return
	}
	if c.Query("limit") == "" {
		filter.Limit = 5000
	}

	contracts, _, err := contractStore().List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("export contracts failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data for export"})
		return
	}

	var buf bytes.Buffer
	if err := services.WriteContractsXLSX(&buf, contracts); err != nil {
		log.Printf("write contracts xlsx failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}

	fileName := fmt.Sprintf("contratos_%s.xlsx", clock().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// EmailContract sends the stored contract to the client's email address.
func EmailContract(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !config.MailerConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": config.ErrMailerNotConfigured.Error()})
		return
	}

	contract, err := contractStore().Get(c.Request.Context(), id)
	if err != nil {
		respondContractError(c, err, "Failed to fetch contract")
		return
	}
	if contract.Client == nil || strings.TrimSpace(contract.Client.Email) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Contract client has no email address"})
		return
	}

	subject := "Minuta de contrato: " + utils.ValueOr(contract.Title, contract.Code)
	html := buildContractEmail(contract)
	attachment := config.Attachment{Name: contractFileName(contract), Content: []byte(contract.Content)}

	if err := sendMailFunc([]string{contract.Client.Email}, subject, html, attachment); err != nil {
		log.Printf("email contract %d failed: %v", contract.ContractID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contract sent to " + contract.Client.Email})
}

// PreviewPaymentPlan evaluates installment formulas against a contract value.
func PreviewPaymentPlan(c *gin.Context) {
	var req paymentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	value, err := parseOptionalDecimal(req.Value)
	if err != nil || value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required and must be a decimal"})
		return
	}
	if value.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value " + errNegativeValue.Error()})
		return
	}
	start := clock()
	if parsed, err := parseOptionalDate(req.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	} else if parsed != nil {
		start = *parsed
	}

	plan, err := services.BuildPaymentPlan(*value, start, req.Installments)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFormula) || errors.Is(err, services.ErrValueTooPrecise) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build payment plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": plan})
}

func contractFilterFromQuery(c *gin.Context) (services.ContractFilter, bool) {
	filter := services.ContractFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client_id"})
			return filter, false
		}
		filter.ClientID = &id
	}
	filter.Limit, filter.Offset = parsePagination(c)
	return filter, true
}

func respondContractError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrContractNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStatusTransitionBackward):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func contractFileName(contract *models.Contract) string {
	return fmt.Sprintf("contrato_%s.txt", contract.Code)
}
