package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"law-office-api/models"
	"law-office-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performJSON(handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestParseOptionalDecimal(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantNil bool
		wantErr bool
	}{
		{raw: ``, wantNil: true},
		{raw: `null`, wantNil: true},
		{raw: `""`, wantNil: true},
		{raw: `1500.75`, want: "1500.75"},
		{raw: `"2500"`, want: "2500"},
		{raw: `"abc"`, wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseOptionalDecimal(json.RawMessage(tc.raw))
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.raw, err)
		}
		if tc.wantNil {
			if got != nil {
				t.Fatalf("%q: expected nil, got %s", tc.raw, got)
			}
			continue
		}
		if got == nil || !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%q: expected %s, got %v", tc.raw, tc.want, got)
		}
	}
}

func TestDraftRequestToFieldsRejectsMalformedDate(t *testing.T) {
	req := contractDraftRequest{TemplateID: 1, StartDate: "19/10/2026"}
	_, err := req.toFields()
	if err == nil {
		t.Fatalf("expected error for malformed date")
	}
	if !strings.Contains(err.Error(), "start_date") {
		t.Fatalf("expected field name in error, got %v", err)
	}
}

func TestDraftRequestToFieldsKeepsBlankValuesBlank(t *testing.T) {
	req := contractDraftRequest{TemplateID: 1, Title: "  ", Value: json.RawMessage(`null`)}
	fields, err := req.toFields()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.Title != "" || fields.Value != nil || fields.StartDate != nil {
		t.Fatalf("expected blank fields, got %+v", fields)
	}
}

func TestPreviewContractRejectsMalformedValue(t *testing.T) {
	w := performJSON(PreviewContract, `{"template_id": 1, "value": "mil reais"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid value") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestPreviewContractRejectsNegativeValue(t *testing.T) {
	w := performJSON(PreviewContract, `{"template_id": 1, "value": "-10.00"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "must not be negative") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestPreviewContractWithoutTemplateIsNotFound(t *testing.T) {
	for _, body := range []string{`{"title": "Sem minuta"}`, `{"template_id": 0}`, `{"template_id": -4}`} {
		w := performJSON(PreviewContract, body)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d: %s", body, w.Code, w.Body.String())
		}
		if strings.Contains(w.Body.String(), `"content"`) {
			t.Fatalf("%s: no document may be returned: %s", body, w.Body.String())
		}
	}
}

// fakeCatalog serves one template and a fixed set of clauses. Methods not
// overridden panic through the nil embedded interface.
type fakeCatalog struct {
	catalogBackend
	template models.ContractTemplate
	clauses  []models.ClauseTemplate
}

func (f *fakeCatalog) GetTemplate(_ context.Context, id int) (models.ContractTemplate, error) {
	if id != f.template.TemplateID {
		return models.ContractTemplate{}, services.ErrTemplateNotFound
	}
	return f.template, nil
}

func (f *fakeCatalog) ClausesByIDs(_ context.Context, ids []int) ([]models.ClauseTemplate, error) {
	groups := services.GroupClausesByCategory(f.clauses)
	return services.FlattenSelection(groups, ids), nil
}

type fakeClients struct {
	clientBackend
	clients map[int]*models.Client
}

func (f *fakeClients) Get(_ context.Context, id int) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, services.ErrClientNotFound
	}
	return client, nil
}

func withFakeStores(t *testing.T, catalog *fakeCatalog, clients *fakeClients) {
	t.Helper()
	prevCatalog, prevClients, prevClock := catalogStore, clientStore, clock
	catalogStore = func() catalogBackend { return catalog }
	clientStore = func() clientBackend { return clients }
	clock = func() time.Time { return time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		catalogStore, clientStore, clock = prevCatalog, prevClients, prevClock
	})
}

type draftResponse struct {
	Success bool `json:"success"`
	Data    struct {
		TemplateID int    `json:"template_id"`
		Content    string `json:"content"`
	} `json:"data"`
	Warnings []string `json:"warnings"`
	Error    string   `json:"error"`
}

func decodeDraft(t *testing.T, w *httptest.ResponseRecorder) draftResponse {
	t.Helper()
	var resp draftResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v: %s", err, w.Body.String())
	}
	return resp
}

func TestPreviewContractUnknownTemplateIsHardFailure(t *testing.T) {
	withFakeStores(t, &fakeCatalog{template: models.ContractTemplate{TemplateID: 1, Name: "Honorários"}}, &fakeClients{})

	w := performJSON(PreviewContract, `{"template_id": 99, "title": "Contrato"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeDraft(t, w)
	if resp.Success || resp.Data.Content != "" || strings.Contains(w.Body.String(), `"content"`) {
		t.Fatalf("a missing base minute must not render a document: %s", w.Body.String())
	}
	if resp.Error != services.ErrTemplateNotFound.Error() {
		t.Fatalf("unexpected error message %q", resp.Error)
	}
}

func TestPreviewContractUnknownClientFallsBackToPlaceholders(t *testing.T) {
	catalog := &fakeCatalog{
		template: models.ContractTemplate{TemplateID: 1, Name: "Honorários", Active: true},
		clauses: []models.ClauseTemplate{
			{ClauseID: 4, Title: "Sigilo", Body: "As partes manterão sigilo.", Category: "Geral", Active: true},
		},
	}
	withFakeStores(t, catalog, &fakeClients{clients: map[int]*models.Client{}})

	w := performJSON(PreviewContract, `{"template_id": 1, "client_id": 55, "value": "2500", "clause_ids": [4, 8]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeDraft(t, w)
	if !resp.Success || resp.Data.TemplateID != 1 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if !strings.Contains(resp.Data.Content, services.PlaceholderClientName) {
		t.Fatalf("expected client placeholder in content")
	}
	if !strings.Contains(resp.Data.Content, "R$ 2.500,00") {
		t.Fatalf("expected formatted value in content")
	}
	if !strings.Contains(resp.Data.Content, "6ª. CLÁUSULA - SIGILO") {
		t.Fatalf("expected selected clause in content")
	}
	if len(resp.Warnings) != 2 {
		t.Fatalf("expected client and clause warnings, got %q", resp.Warnings)
	}
	if !strings.Contains(resp.Warnings[0], "client 55 not found") {
		t.Fatalf("unexpected client warning %q", resp.Warnings[0])
	}
}

func TestPreviewContractWithKnownClientHasNoWarnings(t *testing.T) {
	catalog := &fakeCatalog{template: models.ContractTemplate{TemplateID: 2, Name: "Consultoria", Active: true}}
	clients := &fakeClients{clients: map[int]*models.Client{
		7: {ClientID: 7, Name: "Construtora Alfa Ltda", DocumentKind: models.DocumentKindCompany, DocumentNumber: "12.345.678/0001-90"},
	}}
	withFakeStores(t, catalog, clients)

	w := performJSON(PreviewContract, `{"template_id": 2, "client_id": 7}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeDraft(t, w)
	if len(resp.Warnings) != 0 {
		t.Fatalf("unexpected warnings %q", resp.Warnings)
	}
	if !strings.Contains(resp.Data.Content, "CNPJ: 12.345.678/0001-90") {
		t.Fatalf("expected company document in content")
	}
}

func TestPreviewPaymentPlan(t *testing.T) {
	restore := clock
	clock = func() time.Time { return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC) }
	defer func() { clock = restore }()

	body := `{"value": "9000", "installments": [{"label": "Entrada", "formula": "Valor / 3"}, {"formula": "Valor / 3", "month_offset": 1}, {"formula": "Valor / 3", "month_offset": 2}]}`
	w := performJSON(PreviewPaymentPlan, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Installments []struct {
				Label   string          `json:"label"`
				Amount  decimal.Decimal `json:"amount"`
				DueDate time.Time       `json:"due_date"`
			} `json:"installments"`
			Remainder decimal.Decimal `json:"remainder"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || len(resp.Data.Installments) != 3 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if !resp.Data.Installments[0].Amount.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected 3000, got %s", resp.Data.Installments[0].Amount)
	}
	if resp.Data.Installments[2].DueDate.Month() != time.December {
		t.Fatalf("expected third installment in December, got %v", resp.Data.Installments[2].DueDate)
	}
	if !resp.Data.Remainder.IsZero() {
		t.Fatalf("expected no remainder, got %s", resp.Data.Remainder)
	}
}

func TestPreviewPaymentPlanRejectsNegativeValue(t *testing.T) {
	w := performJSON(PreviewPaymentPlan, `{"value": -100, "installments": [{"formula": "Valor"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPreviewPaymentPlanRejectsBadFormula(t *testing.T) {
	w := performJSON(PreviewPaymentPlan, `{"value": 100, "installments": [{"formula": "Valor *"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestEmailContractWithoutMailerIsUnavailable(t *testing.T) {
	t.Setenv("SMTP_HOST", "")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/contracts/1/email", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	EmailContract(c)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestBuildContractEmailEscapesContent(t *testing.T) {
	contract := &models.Contract{
		Code:         "abc-123",
		Title:        "Contrato <Teste>",
		Jurisdiction: "Campinas/SP",
		Content:      "1ª. CLÁUSULA - <script>alert(1)</script>",
	}

	html := buildContractEmail(contract)
	if strings.Contains(html, "<script>") {
		t.Fatalf("contract content was not escaped")
	}
	if !strings.Contains(html, "Contrato &lt;Teste&gt;") {
		t.Fatalf("expected escaped title in email")
	}
	if !strings.Contains(html, "Campinas/SP") {
		t.Fatalf("expected jurisdiction in email metadata")
	}
	if strings.Contains(html, ">Valor<") {
		t.Fatalf("value row must be omitted when the contract has no value")
	}
}

func TestContractFileName(t *testing.T) {
	if got := contractFileName(&models.Contract{Code: "f00d"}); got != "contrato_f00d.txt" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestParseLogoList(t *testing.T) {
	got := parseLogoList(" https://a.example/logo.png ;https://b.example/x.png,\n ,")
	if len(got) != 2 || got[0] != "https://a.example/logo.png" || got[1] != "https://b.example/x.png" {
		t.Fatalf("unexpected logo list %q", got)
	}
	if parseLogoList("   ") != nil {
		t.Fatalf("expected nil for blank input")
	}
}
