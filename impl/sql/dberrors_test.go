// Copyright 2019 Google Inc. All Rights Reserved.
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

package sql

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/VividCortex/mysqlerr"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorf(t *testing.T) {
	for _, tc := range []struct {
		desc string
		err  error
		want codes.Code
	}{
		{desc: "nil", err: nil, want: codes.OK},
		{desc: "status", err: status.Error(codes.PermissionDenied, "no"), want: codes.PermissionDenied},
		{desc: "no rows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), want: codes.NotFound},
		{desc: "mysql duplicate", err: &mysql.MySQLError{Number: mysqlerr.ER_DUP_ENTRY}, want: codes.AlreadyExists},
		{desc: "mysql deadlock", err: &mysql.MySQLError{Number: mysqlerr.ER_LOCK_DEADLOCK}, want: codes.Aborted},
		{desc: "mysql other", err: &mysql.MySQLError{Number: mysqlerr.ER_BAD_DB_ERROR}, want: codes.Internal},
		{desc: "sqlite constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: codes.AlreadyExists},
		{desc: "sqlite busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: codes.Aborted},
		{desc: "sqlite other", err: sqlite3.Error{Code: sqlite3.ErrIoErr}, want: codes.Internal},
		{desc: "unknown", err: errors.New("boom"), want: codes.Internal},
	} {
		if got := status.Code(Errorf(tc.err, "op %v", 1)); got != tc.want {
			t.Errorf("%v: Errorf(): %v, want %v", tc.desc, got, tc.want)
		}
	}
}

func TestOpenDriver(t *testing.T) {
	db, err := OpenDriver("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("OpenDriver(sqlite3): %v", err)
	}
	db.Close()
	if _, err := OpenDriver("postgres", ""); err == nil {
		t.Errorf("OpenDriver(postgres) succeeded")
	}
}
