// Copyright 2018 Google Inc. All Rights Reserved.
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

// Package sql contains helpers shared by the SQL storage implementations.
package sql

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// Open the mysql database specified by the dsn string.
func Open(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	// MySQL flags that affect storage logic.
	cfg.ClientFoundRows = true // Return number of matching rows instead of rows changed

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	return db, db.Ping()
}

// OpenDriver opens a database with one of the supported drivers.
func OpenDriver(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "mysql":
		return Open(dsn)
	case "sqlite3":
		db, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		// sqlite serializes writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		return db, db.Ping()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
