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

// Package attestations implements attest.Storage with an SQL table.
package attestations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang/glog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/google/ecvrf/core/attest"
	"github.com/google/ecvrf/core/crypto/vrf"
	"github.com/google/ecvrf/core/segment"

	dberrors "github.com/google/ecvrf/impl/sql"
)

const (
	schema = `
CREATE TABLE IF NOT EXISTS Attestations(
SegmentHash           VARBINARY(32) NOT NULL,
Identity              VARCHAR(255) NOT NULL,
Fingerprint           VARBINARY(32) NOT NULL,
Proof                 VARBINARY(255) NOT NULL,
Created               BIGINT NOT NULL,
PRIMARY KEY(Identity, SegmentHash)
);`

	readSQL = `SELECT SegmentHash, Identity, Fingerprint, Proof, Created FROM Attestations WHERE Identity = ? AND SegmentHash = ?;`
	listSQL = `SELECT SegmentHash, Identity, Fingerprint, Proof, Created FROM Attestations
WHERE Identity = ?
ORDER BY Created ASC, SegmentHash ASC;`
	listLimitSQL = `SELECT SegmentHash, Identity, Fingerprint, Proof, Created FROM Attestations
WHERE Identity = ?
ORDER BY Created ASC, SegmentHash ASC
LIMIT ?;`
	writeSQL  = `INSERT INTO Attestations (SegmentHash, Identity, Fingerprint, Proof, Created) VALUES (?, ?, ?, ?, ?);`
	deleteSQL = `DELETE FROM Attestations WHERE Identity = ? AND SegmentHash = ?;`
)

// Storage stores attestations, backed by an SQL database.
type Storage struct {
	db *sql.DB
}

var _ attest.Storage = (*Storage)(nil)

// New returns an attest.Storage backed by an SQL table.
func New(db *sql.DB) (*Storage, error) {
	s := &Storage{db: db}
	// Create schema.
	if _, err := s.db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create Attestations table: %v", err)
	}
	return s, db.Ping()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*attest.Record, error) {
	var (
		r                 attest.Record
		hash, fingerprint []byte
		created           int64
	)
	if err := row.Scan(&hash, &r.Identity, &fingerprint, &r.Proof, &created); err != nil {
		return nil, err
	}
	if len(hash) != segment.HashLen {
		return nil, status.Errorf(codes.DataLoss, "segment hash has %d bytes", len(hash))
	}
	copy(r.SegmentHash[:], hash)
	fp, err := vrf.FingerprintFromBytes(fingerprint)
	if err != nil {
		return nil, status.Errorf(codes.DataLoss, "fingerprint of %x: %v", hash, err)
	}
	r.Fingerprint = fp
	r.Created = time.Unix(created, 0).UTC()
	return &r, nil
}

// Write records a new attestation.
func (s *Storage) Write(ctx context.Context, r *attest.Record) error {
	writeStmt, err := s.db.PrepareContext(ctx, writeSQL)
	if err != nil {
		return err
	}
	defer writeStmt.Close()
	_, err = writeStmt.ExecContext(ctx,
		r.SegmentHash[:],
		r.Identity,
		r.Fingerprint[:],
		r.Proof,
		r.Created.Unix())
	err = dberrors.Errorf(err, "write attestation %x", r.SegmentHash)
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("%w: %v", attest.ErrAlreadyExists, err)
	}
	if err == nil {
		glog.V(2).Infof("Recorded attestation %x for %q", r.SegmentHash, r.Identity)
	}
	return err
}

// Read returns the attestation of a segment by identity.
func (s *Storage) Read(ctx context.Context, identity string, segmentHash [segment.HashLen]byte) (*attest.Record, error) {
	readStmt, err := s.db.PrepareContext(ctx, readSQL)
	if err != nil {
		return nil, err
	}
	defer readStmt.Close()
	r, err := scanRecord(readStmt.QueryRowContext(ctx, identity, segmentHash[:]))
	err = dberrors.Errorf(err, "read attestation %x of %q", segmentHash, identity)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: %v", attest.ErrNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns up to limit attestations of identity, oldest first.
// A limit <= 0 returns all of them.
func (s *Storage) List(ctx context.Context, identity string, limit int) ([]*attest.Record, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, listLimitSQL, identity, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, listSQL, identity)
	}
	if err != nil {
		return nil, dberrors.Errorf(err, "list attestations of %q", identity)
	}
	defer rows.Close()
	ret := []*attest.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, rows.Err()
}

// Delete removes the attestation of a segment by identity.
func (s *Storage) Delete(ctx context.Context, identity string, segmentHash [segment.HashLen]byte) error {
	result, err := s.db.ExecContext(ctx, deleteSQL, identity, segmentHash[:])
	if err != nil {
		return dberrors.Errorf(err, "delete attestation %x", segmentHash)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("segment %x of %q: %w", segmentHash, identity, attest.ErrNotFound)
	}
	return nil
}
