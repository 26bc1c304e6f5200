package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "stockgap/internal/core/context"
	"stockgap/internal/core/id"
	"stockgap/internal/domain/gap"
)

const auditRunsTable = "audit_analysis_runs"

// CompressionAlgo specifies the compression algorithm used for payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// RunAuditEntry is one recorded analysis run. The payload keeps the full
// run header as JSON so the audit trail survives schema drift in the main
// tables; larger payloads are stored zstd-compressed.
type RunAuditEntry struct {
	ID              id.ID           `db:"id"`
	AnalysisID      id.ID           `db:"analysis_id"`
	WarehouseID     id.ID           `db:"warehouse_id"`
	UserID          string          `db:"user_id"`
	RowCount        int             `db:"row_count"`
	DurationMS      int64           `db:"duration_ms"`
	Payload         json.RawMessage `db:"payload"`
	PayloadZstd     []byte          `db:"payload_zstd"`
	CompressionAlgo CompressionAlgo `db:"compression_algo"`
	CreatedAt       time.Time       `db:"created_at"`
}

// RunAuditLog records completed analysis runs.
// Implements gap.RunRecorder.
type RunAuditLog struct {
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewRunAuditLog creates a run audit log.
func NewRunAuditLog() (*RunAuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &RunAuditLog{
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

// RecordRun stores an audit entry for a completed analysis.
func (l *RunAuditLog) RecordRun(ctx context.Context, a *gap.Analysis, duration time.Duration) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal run payload: %w", err)
	}

	entry := RunAuditEntry{
		ID:              id.New(),
		AnalysisID:      a.ID,
		WarehouseID:     a.WarehouseID,
		UserID:          appctx.GetUserID(ctx),
		RowCount:        a.RowCount,
		DurationMS:      duration.Milliseconds(),
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(payload) >= l.compressThreshold {
		entry.PayloadZstd = l.encoder.EncodeAll(payload, nil)
		entry.CompressionAlgo = CompressionZstd
	} else {
		entry.Payload = payload
	}

	querier := MustGetTxManager(ctx).GetQuerier(ctx)
	_, err = querier.Exec(ctx, `
		INSERT INTO `+auditRunsTable+`
			(id, analysis_id, warehouse_id, user_id, row_count, duration_ms,
			 payload, payload_zstd, compression_algo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		entry.ID, entry.AnalysisID, entry.WarehouseID, entry.UserID,
		entry.RowCount, entry.DurationMS,
		entry.Payload, entry.PayloadZstd, entry.CompressionAlgo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// DecodePayload returns the uncompressed payload of an entry.
func (l *RunAuditLog) DecodePayload(entry RunAuditEntry) (json.RawMessage, error) {
	if entry.CompressionAlgo != CompressionZstd {
		return entry.Payload, nil
	}
	raw, err := l.decoder.DecodeAll(entry.PayloadZstd, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress audit payload: %w", err)
	}
	return raw, nil
}

// Ensure interface compliance.
var _ gap.RunRecorder = (*RunAuditLog)(nil)
