// Copyright 2017 Google Inc. All Rights Reserved.
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

// Package serverutil provides helper functions to main.go files.
package serverutil

import (
	"net"
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMux routes the monitoring endpoints.
func MetricsMux(ready http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", Healthz())
	mux.Handle("/readyz", ready)
	mux.Handle("/", RootHealthHandler(http.NotFoundHandler()))
	return mux
}

// ServeHTTPMetrics serves monitoring APIs
func ServeHTTPMetrics(addr string, ready http.HandlerFunc) error {
	glog.Infof("Hosting server status and metrics on %v", addr)
	return http.ListenAndServe(addr, MetricsMux(ready))
}

// ServeMetrics serves monitoring APIs on an existing listener.
func ServeMetrics(lis net.Listener, ready http.HandlerFunc) error {
	glog.Infof("Hosting server status and metrics on %v", lis.Addr())
	return http.Serve(lis, MetricsMux(ready))
}
