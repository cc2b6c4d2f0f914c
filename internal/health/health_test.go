package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCheckHarnessOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	res := CheckHarness(context.Background(), srv.URL)
	if !res.OK {
		t.Fatalf("check failed: %s", res.Error)
	}
	if !strings.HasPrefix(res.String(), "✓ harness") {
		t.Errorf("String() = %q", res.String())
	}
}

func TestCheckHarnessDown(t *testing.T) {
	res := CheckHarness(context.Background(), "http://127.0.0.1:1")
	if res.OK {
		t.Fatal("unreachable harness should not pass")
	}
	if res.Error == "" {
		t.Error("expected an error description")
	}
}

func TestCheckHarnessUnconfigured(t *testing.T) {
	res := CheckHarness(context.Background(), "")
	if res.OK || !strings.Contains(res.Error, "HARNESS_BASE_URL") {
		t.Errorf("result = %+v", res)
	}
}
