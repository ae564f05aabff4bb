// Trendcompare - Keyword Interest Comparison Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trendcompare

package trends

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trendcompare/internal/models"
)

const fourWeeks = `)]}',
{"default":{"timelineData":[
{"time":"1704585600","formattedTime":"Jan 7, 2024","value":[71,64],"hasData":[true,true]},
{"time":"1705190400","formattedTime":"Jan 14, 2024","value":[100,58],"hasData":[true,true]},
{"time":"1705795200","formattedTime":"Jan 21, 2024","value":[88,60],"hasData":[true,true]},
{"time":"1706400000","formattedTime":"Jan 28, 2024","value":[80,55],"hasData":[true,true],"isPartial":true}
],"averages":[]}}`

// fakeTrends is an httptest stand-in for trends.google.com.
type fakeTrends struct {
	exploreStatus   int
	multilineStatus int
	multilineBody   string
	widgets         string

	hits       int32
	userAgents []string
	gotReq     exploreRequest
}

func (f *fakeTrends) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(cookiePath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.hits, 1)
		if r.URL.Query().Get("geo") != "US" {
			t.Errorf("cookie geo = %q, want US", r.URL.Query().Get("geo"))
		}
		http.SetCookie(w, &http.Cookie{Name: "NID", Value: "cookie-value", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc(explorePath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.hits, 1)
		f.userAgents = append(f.userAgents, r.UserAgent())
		if r.Method != http.MethodPost {
			t.Errorf("explore method = %s, want POST", r.Method)
		}
		if r.URL.Query().Get("tz") != "360" || r.URL.Query().Get("hl") != "en-US" {
			t.Errorf("explore params = %v", r.URL.Query())
		}
		if err := json.Unmarshal([]byte(r.URL.Query().Get("req")), &f.gotReq); err != nil {
			t.Errorf("explore req not JSON: %v", err)
		}
		if f.exploreStatus != 0 {
			w.WriteHeader(f.exploreStatus)
			return
		}
		widgets := f.widgets
		if widgets == "" {
			widgets = `[{"id":"GEO_MAP","token":"x","request":{}},
				{"id":"TIMESERIES","token":"tok123","request":{"time":"today 1-m","resolution":"WEEK"}}]`
		}
		_, _ = w.Write([]byte(`)]}'` + "\n" + `{"widgets":` + widgets + `}`))
	})

	mux.HandleFunc(multilinePath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.hits, 1)
		if c, err := r.Cookie("NID"); err != nil || c.Value != "cookie-value" {
			t.Errorf("multiline request missing NID cookie")
		}
		if r.URL.Query().Get("token") != "tok123" {
			t.Errorf("token = %q", r.URL.Query().Get("token"))
		}
		if !strings.Contains(r.URL.Query().Get("req"), `"resolution":"WEEK"`) {
			t.Errorf("widget request not forwarded: %q", r.URL.Query().Get("req"))
		}
		if f.multilineStatus != 0 {
			w.WriteHeader(f.multilineStatus)
			return
		}
		body := f.multilineBody
		if body == "" {
			body = fourWeeks
		}
		_, _ = w.Write([]byte(body))
	})

	return mux
}

func newFakeClient(t *testing.T, f *fakeTrends) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		HL:             "en-US",
		TZ:             360,
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    2 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestClient_InterestOverTime(t *testing.T) {
	f := &fakeTrends{}
	c := newFakeClient(t, f)

	out := c.InterestOverTime(context.Background(), testQuery)
	if out.Kind != OutcomeSuccess {
		t.Fatalf("Kind = %v, err = %v", out.Kind, out.Err)
	}

	s := out.Series
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	if strings.Join(s.Keywords, ",") != "python,javascript" {
		t.Errorf("Keywords = %v", s.Keywords)
	}
	if want := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC); !s.Points[0].Time.Equal(want) {
		t.Errorf("first time = %v, want %v", s.Points[0].Time, want)
	}
	if s.Points[1].Values[0] != (models.Interest{Value: 100, Valid: true}) {
		t.Errorf("row 1 python = %+v", s.Points[1].Values[0])
	}
	if !s.HasPartial || !s.Points[3].Partial || s.Points[0].Partial {
		t.Error("isPartial should mark only the last row")
	}

	if len(f.gotReq.ComparisonItem) != 2 || f.gotReq.ComparisonItem[1].Keyword != "javascript" ||
		f.gotReq.ComparisonItem[0].Time != "today 1-m" {
		t.Errorf("explore comparisonItem = %+v", f.gotReq.ComparisonItem)
	}
	if len(f.userAgents) != 1 || f.userAgents[0] != c.UserAgent() {
		t.Errorf("User-Agent = %v, want %q", f.userAgents, c.UserAgent())
	}
}

func TestMultilineSeries_ZeroIsData(t *testing.T) {
	var r multilineResponse
	body := `{"default":{"timelineData":[{"time":"1704585600","formattedTime":"Jan 7, 2024","value":[0,12],"hasData":[false,true]},{"time":"1705190400","formattedTime":"Jan 14, 2024","value":[5]}]}}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatal(err)
	}

	s, err := r.series([]string{"python", "javascript"})
	if err != nil {
		t.Fatalf("series() error = %v", err)
	}
	if got := s.Points[0].Values[0]; got != (models.Interest{Value: 0, Valid: true}) {
		t.Errorf("zero value = %+v, want valid 0", got)
	}
	if got := s.Points[1].Values[1]; got.Valid {
		t.Errorf("missing trailing value = %+v, want invalid", got)
	}
}

func TestClient_Classification(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeTrends
		want OutcomeKind
	}{
		{name: "explore 429", fake: &fakeTrends{exploreStatus: http.StatusTooManyRequests}, want: OutcomeRateLimited},
		{name: "multiline 429", fake: &fakeTrends{multilineStatus: http.StatusTooManyRequests}, want: OutcomeRateLimited},
		{name: "explore 500", fake: &fakeTrends{exploreStatus: http.StatusInternalServerError}, want: OutcomeFailed},
		{name: "empty timeline", fake: &fakeTrends{multilineBody: `)]}', {"default":{"timelineData":[]}}`}, want: OutcomeEmpty},
		{name: "no timeseries widget", fake: &fakeTrends{widgets: `[{"id":"RELATED_QUERIES","token":"t","request":{}}]`}, want: OutcomeFailed},
		{name: "garbage body", fake: &fakeTrends{multilineBody: `<html>sorry</html>`}, want: OutcomeFailed},
		{name: "bad timestamp", fake: &fakeTrends{multilineBody: `{"default":{"timelineData":[{"time":"soon","value":[1,2]}]}}`}, want: OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeClient(t, tt.fake)
			out := c.InterestOverTime(context.Background(), testQuery)
			if out.Kind != tt.want {
				t.Fatalf("Kind = %v, want %v (err %v)", out.Kind, tt.want, out.Err)
			}
			if tt.want == OutcomeRateLimited && !errors.Is(out.Err, ErrRateLimited) {
				t.Errorf("err = %v, want ErrRateLimited", out.Err)
			}
		})
	}
}

func TestFetcherWithClientFactory(t *testing.T) {
	f := &fakeTrends{}
	srv := httptest.NewServer(f.handler(t))
	defer srv.Close()

	factory := NewClientFactory(ClientConfig{
		BaseURL:        srv.URL,
		HL:             "en-US",
		TZ:             360,
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
	}, NewLimiter(6000))

	fetcher := NewFetcher(factory, DefaultRetryPolicy(),
		WithSleep(func(context.Context, time.Duration) error { return nil }))

	series, err := fetcher.Fetch(context.Background(), testQuery)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if series.Len() != 4 {
		t.Errorf("Len() = %d, want 4", series.Len())
	}
	if series.HasPartial {
		t.Error("Fetch should strip the partial marker")
	}
	if got := atomic.LoadInt32(&f.hits); got != 3 {
		t.Errorf("upstream hits = %d, want 3 (cookie, explore, multiline)", got)
	}
}

func TestNewClient_Errors(t *testing.T) {
	if _, err := NewClient(ClientConfig{BaseURL: "not a url"}, nil); err == nil {
		t.Error("expected error for invalid base URL")
	}
	if _, err := NewClient(ClientConfig{BaseURL: "https://trends.google.com", ProxyURL: "://bad"}, nil); err == nil {
		t.Error("expected error for invalid proxy URL")
	}
}

func TestNewLimiter(t *testing.T) {
	if NewLimiter(0) != nil {
		t.Error("zero rpm should disable pacing")
	}
	if NewLimiter(30) == nil {
		t.Error("positive rpm should create a limiter")
	}
}

func TestRandomUserAgent(t *testing.T) {
	re := regexp.MustCompile(`^Mozilla/5\.0 \(Windows NT 10\.0; Win64; x64\) AppleWebKit/537\.36 \(KHTML, like Gecko\) Chrome/(\d+)\.0\.\d{4}\.\d{3} Safari/537\.36$`)
	for i := 0; i < 50; i++ {
		ua := RandomUserAgent()
		m := re.FindStringSubmatch(ua)
		if m == nil {
			t.Fatalf("unexpected User-Agent %q", ua)
		}
		if major, _ := strconv.Atoi(m[1]); major < 80 || major > 110 {
			t.Fatalf("Chrome major out of range: %q", ua)
		}
	}
}

func TestStripXSSI(t *testing.T) {
	tests := map[string]string{
		`)]}'` + "\n" + `{"a":1}`: `{"a":1}`,
		`)]}',` + "\n" + `{"a":1}`: `{"a":1}`,
		`{"a":1}`:                   `{"a":1}`,
	}
	for in, want := range tests {
		if got := string(stripXSSI([]byte(in))); got != want {
			t.Errorf("stripXSSI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGeoFromHL(t *testing.T) {
	tests := map[string]string{"en-US": "US", "de-de": "DE", "": "US"}
	for in, want := range tests {
		if got := geoFromHL(in); got != want {
			t.Errorf("geoFromHL(%q) = %q, want %q", in, got, want)
		}
	}
}
