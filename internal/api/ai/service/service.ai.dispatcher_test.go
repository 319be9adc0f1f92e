// Package aisvc - test dispatcher fail-closed với fake oracle.
package aisvc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeOracle trả về text/err cố định và ghi lại prompt nhận được
type fakeOracle struct {
	text   string
	err    error
	prompt string
}

func (f *fakeOracle) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func testCatalog() func() []CatalogEntry {
	return func() []CatalogEntry {
		return []CatalogEntry{
			{ID: "MACHINE_STATUS_SUMMARY", Name: "Estado de máquinas", Description: "Distribución de máquinas por estado."},
			{ID: "ACTIVE_FAILURES_KPI", Name: "Fallas activas", Description: "Número de fallas reportadas en las últimas 24 horas."},
		}
	}
}

func assertClosed(t *testing.T, d Decision) {
	t.Helper()
	if d.ReportID != nil {
		t.Errorf("muốn fail-closed (ReportID nil), có %q", *d.ReportID)
	}
	if d.Params == nil {
		t.Error("Params không bao giờ được nil")
	}
}

func TestDecide_NilOracleFailsClosed(t *testing.T) {
	d := NewDispatcher(nil, testCatalog(), time.Second)
	assertClosed(t, d.Decide(context.Background(), "¿cómo están las máquinas?"))
}

func TestDecide_OracleErrorFailsClosed(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("deadline exceeded")}
	d := NewDispatcher(oracle, testCatalog(), time.Second)
	assertClosed(t, d.Decide(context.Background(), "fallas"))
}

func TestDecide_EmptyResponseFailsClosed(t *testing.T) {
	oracle := &fakeOracle{text: "   "}
	d := NewDispatcher(oracle, testCatalog(), time.Second)
	assertClosed(t, d.Decide(context.Background(), "fallas"))
}

func TestDecide_MalformedJSONFailsClosed(t *testing.T) {
	oracle := &fakeOracle{text: "Claro, aquí tienes el reporte que pediste"}
	d := NewDispatcher(oracle, testCatalog(), time.Second)
	assertClosed(t, d.Decide(context.Background(), "fallas"))
}

func TestDecide_ParsesPlainJSON(t *testing.T) {
	oracle := &fakeOracle{text: `{"reportId": "MACHINE_STATUS_SUMMARY", "params": {"startDate": "2026-08-01"}}`}
	d := NewDispatcher(oracle, testCatalog(), time.Second)

	decision := d.Decide(context.Background(), "¿cómo están las máquinas?")
	if decision.ReportID == nil || *decision.ReportID != "MACHINE_STATUS_SUMMARY" {
		t.Fatalf("ReportID = %v", decision.ReportID)
	}
	if decision.Params["startDate"] != "2026-08-01" {
		t.Errorf("Params = %v", decision.Params)
	}
}

func TestDecide_StripsMarkdownFences(t *testing.T) {
	oracle := &fakeOracle{text: "```json\n{\"reportId\": \"ACTIVE_FAILURES_KPI\", \"params\": {}}\n```"}
	d := NewDispatcher(oracle, testCatalog(), time.Second)

	decision := d.Decide(context.Background(), "fallas activas")
	if decision.ReportID == nil || *decision.ReportID != "ACTIVE_FAILURES_KPI" {
		t.Fatalf("fence markdown phải được gỡ, ReportID = %v", decision.ReportID)
	}
}

func TestDecide_ExplicitNullIsText(t *testing.T) {
	oracle := &fakeOracle{text: `{"reportId": null, "params": {}}`}
	d := NewDispatcher(oracle, testCatalog(), time.Second)
	assertClosed(t, d.Decide(context.Background(), "hola, ¿quién eres?"))
}

func TestDecide_NilParamsNormalized(t *testing.T) {
	oracle := &fakeOracle{text: `{"reportId": "ACTIVE_FAILURES_KPI"}`}
	d := NewDispatcher(oracle, testCatalog(), time.Second)

	decision := d.Decide(context.Background(), "fallas")
	if decision.Params == nil {
		t.Error("Params thiếu trong JSON phải được chuẩn hóa về map rỗng")
	}
}

func TestDecide_PromptCarriesCatalogAndQuery(t *testing.T) {
	oracle := &fakeOracle{text: `{"reportId": null, "params": {}}`}
	d := NewDispatcher(oracle, testCatalog(), time.Second)

	d.Decide(context.Background(), "¿cuántas fallas hay hoy?")

	for _, id := range []string{"MACHINE_STATUS_SUMMARY", "ACTIVE_FAILURES_KPI"} {
		if !strings.Contains(oracle.prompt, id) {
			t.Errorf("prompt thiếu id catalog %s", id)
		}
	}
	if !strings.Contains(oracle.prompt, "¿cuántas fallas hay hoy?") {
		t.Error("prompt thiếu câu hỏi của người dùng")
	}
	if !strings.Contains(oracle.prompt, `"reportId": null`) {
		t.Error("prompt phải hướng dẫn dùng null khi không có báo cáo phù hợp")
	}
}

func TestNewDispatcher_DefaultTimeout(t *testing.T) {
	d := NewDispatcher(nil, testCatalog(), 0)
	if d.timeout != 15*time.Second {
		t.Errorf("timeout mặc định = %v, muốn 15s", d.timeout)
	}
}
