// Package verifier checks that a converted file still holds the data of its
// source table.
package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/dbsmedya/tabconv/internal/logger"
	"github.com/dbsmedya/tabconv/internal/types"
)

// VerificationMethod defines how to compare two tables.
type VerificationMethod string

const (
	// MethodCount compares row counts (fast)
	MethodCount VerificationMethod = "count"
	// MethodSHA256 hashes every value of every row (thorough)
	MethodSHA256 VerificationMethod = "sha256"
	// MethodSkip skips verification entirely
	MethodSkip VerificationMethod = "skip"
)

// ErrMismatch is returned by Verify when the tables differ.
var ErrMismatch = errors.New("verification mismatch")

// VerifyResult holds the outcome of one comparison.
type VerifyResult struct {
	Source       string
	Dest         string
	Method       VerificationMethod
	SourceCount  int
	DestCount    int
	SourceHash   string
	DestHash     string
	Match        bool
	ErrorMessage string
}

// Verifier compares a source table with the table re-read from its export.
type Verifier struct {
	method    VerificationMethod
	chunkSize int // rows hashed between cancellation checks
	logger    *logger.Logger
}

// NewVerifier creates a verifier. An empty method means MethodCount.
func NewVerifier(method VerificationMethod, log *logger.Logger) (*Verifier, error) {
	if method == "" {
		method = MethodCount
	}
	switch method {
	case MethodCount, MethodSHA256, MethodSkip:
	default:
		return nil, fmt.Errorf("unsupported verification method: %s", method)
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Verifier{
		method:    method,
		chunkSize: 1000,
		logger:    log,
	}, nil
}

// Verify compares source and dest with the configured method. A mismatch
// returns the populated result together with an error wrapping ErrMismatch.
func (v *Verifier) Verify(ctx context.Context, source, dest *types.Table) (*VerifyResult, error) {
	if source == nil || dest == nil {
		return nil, fmt.Errorf("verify: nil table")
	}

	result := &VerifyResult{
		Source:      metaString(source, types.MetaSource),
		Dest:        metaString(dest, types.MetaSource),
		Method:      v.method,
		SourceCount: source.Len(),
		DestCount:   dest.Len(),
	}

	if v.method == MethodSkip {
		v.logger.Info("Verification SKIPPED (method=skip)")
		result.Match = true
		return result, nil
	}

	v.logger.Infof("Starting verification (method=%s) of %s against %s", v.method, result.Dest, result.Source)

	switch v.method {
	case MethodCount:
		result.Match = result.SourceCount == result.DestCount
	case MethodSHA256:
		// Both sides are hashed over the source columns; XML re-reads sort them.
		columns := source.Columns()
		var err error
		if result.SourceHash, err = v.computeTableHash(ctx, source, columns); err != nil {
			return nil, fmt.Errorf("failed to compute source hash: %w", err)
		}
		if result.DestHash, err = v.computeTableHash(ctx, dest, columns); err != nil {
			return nil, fmt.Errorf("failed to compute destination hash: %w", err)
		}
		result.Match = result.SourceCount == result.DestCount && result.SourceHash == result.DestHash
	}

	if result.Match {
		v.logger.Infof("Verification PASSED (%d rows)", result.SourceCount)
		return result, nil
	}

	if result.SourceCount != result.DestCount {
		result.ErrorMessage = fmt.Sprintf("count mismatch: source=%d, dest=%d", result.SourceCount, result.DestCount)
	} else {
		result.ErrorMessage = fmt.Sprintf("hash mismatch: source=%s, dest=%s", result.SourceHash[:16], result.DestHash[:16])
	}
	v.logger.Errorf("Verification FAILED: %s", result.ErrorMessage)
	return result, fmt.Errorf("%w: %s", ErrMismatch, result.ErrorMessage)
}

// computeTableHash hashes every row of tbl over columns, in row order.
func (v *Verifier) computeTableHash(ctx context.Context, tbl *types.Table, columns []string) (string, error) {
	hasher := sha256.New()

	for i, row := range tbl.All() {
		if i%v.chunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return "", fmt.Errorf("hash computation interrupted: %w", err)
			}
		}
		writeRow(hasher, columns, row)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// writeRow writes a deterministic form of row: col1=val1\x00col2=val2\n.
// Values are stringified so typed and string renditions of the same value
// hash alike.
func writeRow(h hash.Hash, columns []string, row types.Row) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + "=" + types.ToString(row[col])
	}
	h.Write([]byte(strings.Join(parts, "\x00")))
	h.Write([]byte("\n"))
}

func metaString(tbl *types.Table, key string) string {
	v, _ := tbl.Meta(key)
	s, _ := v.(string)
	return s
}

// SetChunkSize sets how many rows are hashed between cancellation checks.
func (v *Verifier) SetChunkSize(size int) {
	if size > 0 {
		v.chunkSize = size
	}
}

// GetChunkSize returns the current chunk size.
func (v *Verifier) GetChunkSize() int {
	return v.chunkSize
}

// GetMethod returns the configured verification method.
func (v *Verifier) GetMethod() VerificationMethod {
	return v.method
}
