package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/indexedakki/vectors-medtech/internal/binder"
	"github.com/indexedakki/vectors-medtech/internal/contract"
	"github.com/indexedakki/vectors-medtech/internal/payload"
	"github.com/indexedakki/vectors-medtech/internal/pipeline"
	"github.com/indexedakki/vectors-medtech/internal/record"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := contract.Build([]record.Record{
		{ArticleNo: "001018471~00073572.001", Title: "Master Agreement", RecordType: record.RecordTypeCommercial},
		{ArticleNo: "999999999~00000001.002", Title: "Notice of Assignment", RecordType: record.RecordTypeCommercial},
	}, nil)

	result := &pipeline.Result{
		Summary: pipeline.Summary{RecordsProcessed: 2, Agreements: 1, Amendments: 1, AmendmentsUnlinked: 1},
		Bundle: &payload.Bundle{
			Customers: []payload.Envelope{
				{ID: "CUST|300000001", Payload: map[string]any{"customer_name": "Mercy Health"}},
			},
		},
		Binders: []binder.Binder{
			{UCN: "1", ContractType: "COMMERCIAL", TrimNumber: "a", ParentContentID: "c-1", Status: binder.StatusResolved},
			{UCN: "2", ContractType: "COMMERCIAL", TrimNumber: "b", Status: binder.StatusUnresolved, Comment: binder.CommentNoParent},
		},
		Catalog: cat,
	}
	return NewServer(result)
}

func get(t *testing.T, s *Server, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.router.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return w.Code, body
}

func TestHandleSummary(t *testing.T) {
	code, body := get(t, testServer(t), "/api/summary")
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if body["RecordsProcessed"] != float64(2) {
		t.Errorf("unexpected summary %v", body)
	}
}

func TestHandleBindersStatusFilter(t *testing.T) {
	s := testServer(t)

	code, body := get(t, s, "/api/binders?status=0")
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if body["count"] != float64(1) {
		t.Errorf("expected 1 unresolved binder, got %v", body["count"])
	}

	code, body = get(t, s, "/api/binders")
	if code != http.StatusOK || body["count"] != float64(2) {
		t.Errorf("expected 2 binders unfiltered, got %v", body["count"])
	}

	code, _ = get(t, s, "/api/binders?status=9")
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad status, got %d", code)
	}
}

func TestHandleUnlinkedAmendments(t *testing.T) {
	code, body := get(t, testServer(t), "/api/amendments/unlinked")
	if code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if body["count"] != float64(1) {
		t.Errorf("expected 1 unlinked amendment, got %v", body["count"])
	}
}

func TestHandleCustomers(t *testing.T) {
	code, body := get(t, testServer(t), "/api/customers")
	if code != http.StatusOK || body["count"] != float64(1) {
		t.Errorf("unexpected response %d %v", code, body)
	}
}
