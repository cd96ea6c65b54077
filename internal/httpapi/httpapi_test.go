package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xtding233/craft-odds/internal/refdata"
	"github.com/xtding233/craft-odds/internal/service"
	"github.com/xuri/excelize/v2"
)

func newTestServer(t *testing.T, loaded bool) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var s *refdata.Store
	if loaded {
		var err error
		s, err = refdata.NewLoader(filepath.Join("..", "refdata", "testdata"), logger).Load()
		if err != nil {
			t.Fatal(err)
		}
	}
	srv := httptest.NewServer(New(service.New(refdata.NewHolder(s), logger), logger))
	t.Cleanup(srv.Close)
	return srv
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

const attack5 = `{"selections":[{"option":"최대 공격력","level":"5"}]}`

func TestPostOdds(t *testing.T) {
	srv := newTestServer(t, true)
	resp, err := http.Post(srv.URL+"/v1/odds", "application/json", strings.NewReader(attack5))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body := decode[service.Response](t, resp)
	if body.Version != "test-1" || len(body.Rows) != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
	if r := body.Rows[0]; r.Tool != "찬란" || r.Race != "인간" || r.TriesText != "8" {
		t.Fatalf("unexpected first row %+v", r)
	}
}

func TestPostOddsNumericLevel(t *testing.T) {
	srv := newTestServer(t, true)
	body := `{"selections":[{"option":"최대 공격력","level":5}]}`
	resp, err := http.Post(srv.URL+"/v1/odds", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	got := decode[service.Response](t, resp)
	if len(got.Rows) != 2 || got.Rows[0].TriesText != "8" {
		t.Fatalf("numeric level should match the string form, got %+v", got)
	}
}

func TestPostOddsRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t, true)
	for _, body := range []string{
		`{"selections":`,
		`{"nope":1}`,
		`{"selections":[{"option":"최대 공격력","level":true}]}`,
	} {
		resp, err := http.Post(srv.URL+"/v1/odds", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		e := decode[errResp](t, resp)
		if resp.StatusCode != http.StatusBadRequest || e.Err == "" {
			t.Fatalf("%s: status=%d err=%q", body, resp.StatusCode, e.Err)
		}
	}
}

func TestGetOddsNotAllowed(t *testing.T) {
	srv := newTestServer(t, true)
	resp, err := http.Get(srv.URL + "/v1/odds")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestListEndpoints(t *testing.T) {
	srv := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/v1/options")
	if err != nil {
		t.Fatal(err)
	}
	opts := decode[optionsResp](t, resp)
	if !reflect.DeepEqual(opts.Options, []string{"방어", "최대 공격력"}) {
		t.Fatalf("options %v", opts.Options)
	}

	resp, err = http.Get(srv.URL + "/v1/levels?option=" + url.QueryEscape("방어"))
	if err != nil {
		t.Fatal(err)
	}
	lv := decode[levelsResp](t, resp)
	if !reflect.DeepEqual(lv.Levels, []string{"9", "10"}) {
		t.Fatalf("levels %v", lv.Levels)
	}

	resp, err = http.Get(srv.URL + "/v1/levels?option=" + url.QueryEscape("없는 옵션"))
	if err != nil {
		t.Fatal(err)
	}
	if lv := decode[levelsResp](t, resp); lv.Levels == nil || len(lv.Levels) != 0 {
		t.Fatalf("unknown option must give an empty list, got %#v", lv.Levels)
	}

	resp, err = http.Get(srv.URL + "/v1/levels")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing option: status %d", resp.StatusCode)
	}
}

func TestOddsXLSX(t *testing.T) {
	srv := newTestServer(t, true)
	resp, err := http.Post(srv.URL+"/v1/odds.xlsx", "application/json", strings.NewReader(attack5))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Odds")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("want header plus two rows, got %v", rows)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, true)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if h := decode[healthResp](t, resp); resp.StatusCode != http.StatusOK || h.Version != "test-1" {
		t.Fatalf("status=%d body=%+v", resp.StatusCode, h)
	}

	empty := newTestServer(t, false)
	resp, err = http.Get(empty.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unloaded server: status %d", resp.StatusCode)
	}

	resp, err = http.Post(empty.URL+"/v1/odds", "application/json", strings.NewReader(attack5))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("odds without data: status %d", resp.StatusCode)
	}
}
