package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"law-office-api/models"

	"github.com/shopspring/decimal"
)

var contractColumns = []string{"contract_id", "code", "title", "client_id", "template_id", "value", "status", "create_at", "update_at"}

func contractRow(id int64, status string, clientID interface{}) []driver.Value {
	ts := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return []driver.Value{id, "c0de", "Contrato de honorários", clientID, int64(1), "1500.00", status, ts, ts}
}

func fixedContractService(t *testing.T, steps []*queryStep) (*ContractService, *scriptedDB, func()) {
	t.Helper()
	db, state, cleanup := newScriptedGormDB(t, steps)
	svc := NewContractService(db)
	svc.now = func() time.Time { return renderNow }
	return svc, state, cleanup
}

func TestContractCreateStoresDraftWithExactValue(t *testing.T) {
	insert := &queryStep{
		kind:    kindExec,
		pattern: regexp.MustCompile("^INSERT INTO `contracts`"),
		anyArgs: true,
		result:  scriptedResult{lastInsertID: 77, rowsAffected: 1},
	}
	svc, state, cleanup := fixedContractService(t, []*queryStep{insert})
	defer cleanup()

	fields := sampleFields()
	fields.Title = "  Assessoria tributária  "
	clientID := 10
	fields.ClientID = &clientID

	contract, err := svc.Create(context.Background(), NewContract{
		TemplateID: 3,
		Fields:     fields,
		Content:    "CONTRATO",
		CreatedBy:  4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contract.ContractID != 77 {
		t.Fatalf("expected id 77, got %d", contract.ContractID)
	}
	if contract.Status != models.ContractStatusDraft || len(contract.Code) != 36 {
		t.Fatalf("unexpected status/code %q / %q", contract.Status, contract.Code)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}

	stored := insertedColumns(t, insert)
	if stored["value"] != "1234.5" {
		t.Fatalf("expected value 1234.5, got %#v", stored["value"])
	}
	if stored["status"] != models.ContractStatusDraft {
		t.Fatalf("expected draft status, got %#v", stored["status"])
	}
	if stored["title"] != "Assessoria tributária" {
		t.Fatalf("expected trimmed title, got %#v", stored["title"])
	}
	if stored["client_id"] != int64(10) || stored["template_id"] != int64(3) {
		t.Fatalf("unexpected client/template ids %#v / %#v", stored["client_id"], stored["template_id"])
	}
	if stored["content"] != "CONTRATO" {
		t.Fatalf("expected content to be stored, got %#v", stored["content"])
	}
}

func TestContractCreateWithoutValueStoresNull(t *testing.T) {
	insert := &queryStep{
		kind:    kindExec,
		pattern: regexp.MustCompile("^INSERT INTO `contracts`"),
		anyArgs: true,
		result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
	}
	svc, _, cleanup := fixedContractService(t, []*queryStep{insert})
	defer cleanup()

	if _, err := svc.Create(context.Background(), NewContract{TemplateID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := insertedColumns(t, insert)
	if stored["value"] != nil || stored["client_id"] != nil {
		t.Fatalf("expected NULL value and client, got %#v / %#v", stored["value"], stored["client_id"])
	}
}

func TestContractListCountsThenLoadsWithoutContent(t *testing.T) {
	selectStep := &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("^SELECT .* FROM `contracts` WHERE delete_at IS NULL AND status = \\? ORDER BY create_at DESC, contract_id DESC LIMIT 50"),
		anyArgs: true,
		columns: contractColumns,
		rows:    [][]driver.Value{contractRow(8, "active", int64(10))},
	}
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("^SELECT count\\(\\*\\) FROM `contracts` WHERE delete_at IS NULL AND status = \\?"),
			args:    []driver.Value{"active"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		selectStep,
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("^SELECT \\* FROM `clients` WHERE `clients`.`client_id` = \\?"),
			args:    []driver.Value{int64(10)},
			columns: []string{"client_id", "name"},
			rows:    [][]driver.Value{{int64(10), "Maria Souza"}},
		},
	}
	svc, state, cleanup := fixedContractService(t, steps)
	defer cleanup()

	contracts, total, err := svc.List(context.Background(), ContractFilter{Status: " active "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(contracts) != 1 {
		t.Fatalf("expected one contract, got total=%d len=%d", total, len(contracts))
	}
	if contracts[0].Client == nil || contracts[0].Client.Name != "Maria Souza" {
		t.Fatalf("expected preloaded client, got %+v", contracts[0].Client)
	}
	if !contracts[0].Value.Valid || !contracts[0].Value.Decimal.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected value %+v", contracts[0].Value)
	}
	if strings.Contains(selectStep.gotQuery, "`content`") {
		t.Fatalf("listing must not select content: %s", selectStep.gotQuery)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestContractUpdateStatusRejectsUnknownStatusWithoutQuerying(t *testing.T) {
	svc, state, cleanup := fixedContractService(t, nil)
	defer cleanup()

	if _, err := svc.UpdateStatus(context.Background(), 5, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func lockContractStep(rows [][]driver.Value) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("^SELECT \\* FROM `contracts` WHERE contract_id = \\? AND delete_at IS NULL .*FOR UPDATE$"),
		anyArgs: true,
		columns: contractColumns,
		rows:    rows,
	}
}

func TestContractUpdateStatusNotFound(t *testing.T) {
	lock := lockContractStep(nil)
	svc, state, cleanup := fixedContractService(t, []*queryStep{lock})
	defer cleanup()

	if _, err := svc.UpdateStatus(context.Background(), 5, "active"); !errors.Is(err, ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
	if lock.gotArgs[0] != int64(5) {
		t.Fatalf("expected lookup by id 5, got %v", lock.gotArgs)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestContractUpdateStatusRejectsBackwardMove(t *testing.T) {
	steps := []*queryStep{lockContractStep([][]driver.Value{contractRow(5, "closed", nil)})}
	svc, state, cleanup := fixedContractService(t, steps)
	defer cleanup()

	_, err := svc.UpdateStatus(context.Background(), 5, "draft")
	if !errors.Is(err, ErrStatusTransitionBackward) {
		t.Fatalf("expected ErrStatusTransitionBackward, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestContractUpdateStatusMovesForward(t *testing.T) {
	update := &queryStep{
		kind:    kindExec,
		pattern: regexp.MustCompile("^UPDATE `contracts` SET `status`=\\?,`update_at`=\\? WHERE"),
		anyArgs: true,
		result:  scriptedResult{rowsAffected: 1},
	}
	steps := []*queryStep{
		lockContractStep([][]driver.Value{contractRow(5, "draft", nil)}),
		update,
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("^SELECT \\* FROM `contracts` WHERE contract_id = \\? AND delete_at IS NULL ORDER BY"),
			anyArgs: true,
			columns: contractColumns,
			rows:    [][]driver.Value{contractRow(5, "active", nil)},
		},
	}
	svc, state, cleanup := fixedContractService(t, steps)
	defer cleanup()

	contract, err := svc.UpdateStatus(context.Background(), 5, "ACTIVE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contract.Status != models.ContractStatusActive {
		t.Fatalf("expected active, got %q", contract.Status)
	}
	if update.gotArgs[0] != "active" {
		t.Fatalf("expected status arg active, got %v", update.gotArgs)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestContractUpdateStatusSameStatusSkipsWrite(t *testing.T) {
	steps := []*queryStep{
		lockContractStep([][]driver.Value{contractRow(5, "active", nil)}),
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("^SELECT \\* FROM `contracts` WHERE contract_id = \\? AND delete_at IS NULL ORDER BY"),
			anyArgs: true,
			columns: contractColumns,
			rows:    [][]driver.Value{contractRow(5, "active", nil)},
		},
	}
	svc, state, cleanup := fixedContractService(t, steps)
	defer cleanup()

	if _, err := svc.UpdateStatus(context.Background(), 5, "active"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestContractDeleteIsSoft(t *testing.T) {
	cases := []struct {
		name     string
		affected int64
		want     error
	}{
		{"existing", 1, nil},
		{"missing", 0, ErrContractNotFound},
	}
	for _, tc := range cases {
		update := &queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("^UPDATE `contracts` SET `delete_at`=\\?,`update_at`=\\? WHERE contract_id = \\? AND delete_at IS NULL"),
			anyArgs: true,
			result:  scriptedResult{rowsAffected: tc.affected},
		}
		svc, state, cleanup := fixedContractService(t, []*queryStep{update})

		err := svc.Delete(context.Background(), 12)
		if !errors.Is(err, tc.want) {
			cleanup()
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if update.gotArgs[2] != int64(12) {
			cleanup()
			t.Fatalf("%s: expected id arg 12, got %v", tc.name, update.gotArgs)
		}
		if err := state.verifyComplete(); err != nil {
			cleanup()
			t.Fatalf("%s: %v", tc.name, err)
		}
		cleanup()
	}
}
