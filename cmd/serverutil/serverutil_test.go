// Copyright 2020 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serverutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsMux(t *testing.T) {
	notReady := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "starting", http.StatusServiceUnavailable)
	}
	srv := httptest.NewServer(MetricsMux(notReady))
	defer srv.Close()

	for _, tc := range []struct {
		path     string
		want     int
		contains string
	}{
		{path: "/", want: http.StatusOK, contains: "ok"},
		{path: "/healthz", want: http.StatusOK, contains: "ok"},
		{path: "/readyz", want: http.StatusServiceUnavailable, contains: "starting"},
		{path: "/metrics", want: http.StatusOK, contains: "go_goroutines"},
		{path: "/nothing", want: http.StatusNotFound},
	} {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			if err != nil {
				t.Fatalf("GET %v: %v", tc.path, err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("ReadAll(): %v", err)
			}
			if got := resp.StatusCode; got != tc.want {
				t.Errorf("GET %v: %v, want %v", tc.path, got, tc.want)
			}
			if !strings.Contains(string(body), tc.contains) {
				t.Errorf("GET %v: body %q does not contain %q", tc.path, body, tc.contains)
			}
		})
	}
}

func TestRootHealthHandler(t *testing.T) {
	other := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := RootHealthHandler(other)
	for _, tc := range []struct {
		path string
		want int
	}{
		{"/", http.StatusOK},
		{"/v1/anything", http.StatusTeapot},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", tc.path, nil))
		if got := rec.Code; got != tc.want {
			t.Errorf("%v: status %v, want %v", tc.path, got, tc.want)
		}
	}
}
