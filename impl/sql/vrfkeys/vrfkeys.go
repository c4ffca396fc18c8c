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

// Package vrfkeys implements keystore.Storage with an SQL table.
package vrfkeys

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/google/ecvrf/core/keystore"

	dberrors "github.com/google/ecvrf/impl/sql"
)

const (
	schema = `
CREATE TABLE IF NOT EXISTS VRFKeys(
Identity              VARCHAR(255) NOT NULL,
Suite                 VARCHAR(64) NOT NULL,
PublicKey             VARBINARY(64) NOT NULL,
SealedKey             BLOB NOT NULL,
Created               BIGINT NOT NULL,
PRIMARY KEY(Identity)
);`

	readSQL   = `SELECT Identity, Suite, PublicKey, SealedKey, Created FROM VRFKeys WHERE Identity = ?;`
	listSQL   = `SELECT Identity, Suite, PublicKey, SealedKey, Created FROM VRFKeys ORDER BY Identity ASC;`
	writeSQL  = `INSERT INTO VRFKeys (Identity, Suite, PublicKey, SealedKey, Created) VALUES (?, ?, ?, ?, ?);`
	deleteSQL = `DELETE FROM VRFKeys WHERE Identity = ?;`
)

// Storage stores VRF keys, backed by an SQL database.
type Storage struct {
	db *sql.DB
}

var _ keystore.Storage = (*Storage)(nil)

// New returns a keystore.Storage backed by an SQL table.
func New(db *sql.DB) (*Storage, error) {
	s := &Storage{db: db}
	// Create schema.
	if _, err := s.db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create VRFKeys table: %v", err)
	}
	return s, db.Ping()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*keystore.Record, error) {
	var r keystore.Record
	var created int64
	if err := row.Scan(&r.Identity, &r.Suite, &r.PublicKey, &r.SealedKey, &created); err != nil {
		return nil, err
	}
	r.Created = time.Unix(created, 0).UTC()
	return &r, nil
}

// Write saves a new key.
func (s *Storage) Write(ctx context.Context, r *keystore.Record) error {
	writeStmt, err := s.db.PrepareContext(ctx, writeSQL)
	if err != nil {
		return err
	}
	defer writeStmt.Close()
	_, err = writeStmt.ExecContext(ctx,
		r.Identity,
		r.Suite,
		r.PublicKey,
		r.SealedKey,
		r.Created.Unix())
	err = dberrors.Errorf(err, "write key of %q", r.Identity)
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("%w: %v", keystore.ErrKeyExists, err)
	}
	return err
}

// Read returns the key of identity.
func (s *Storage) Read(ctx context.Context, identity string) (*keystore.Record, error) {
	readStmt, err := s.db.PrepareContext(ctx, readSQL)
	if err != nil {
		return nil, err
	}
	defer readStmt.Close()
	r, err := scanRecord(readStmt.QueryRowContext(ctx, identity))
	err = dberrors.Errorf(err, "read key of %q", identity)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: %v", keystore.ErrKeyNotExist, err)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns all keys ordered by identity.
func (s *Storage) List(ctx context.Context) ([]*keystore.Record, error) {
	rows, err := s.db.QueryContext(ctx, listSQL)
	if err != nil {
		return nil, dberrors.Errorf(err, "list keys")
	}
	defer rows.Close()
	ret := []*keystore.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, rows.Err()
}

// Delete removes the key of identity.
func (s *Storage) Delete(ctx context.Context, identity string) error {
	result, err := s.db.ExecContext(ctx, deleteSQL, identity)
	if err != nil {
		return dberrors.Errorf(err, "delete key of %q", identity)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("identity %q: %w", identity, keystore.ErrKeyNotExist)
	}
	return nil
}
