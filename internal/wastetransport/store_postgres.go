package wastetransport

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "wastetrack/pkg/domain"
	"wastetrack/pkg/platform/sentinel"
)

// Postgres persists transports in the waste_transports table. The transporter
// snapshot and the goods lines are stored as jsonb.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, transport *WasteTransport) error {
	transporter, goods, err := encodeDocs(transport)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO waste_transports (id, transport_date, transporter, goods, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.UUID(transport.ID), transport.TransportDate, transporter, goods,
		transport.CreatedAt, transport.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert waste transport: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, transport *WasteTransport) error {
	transporter, goods, err := encodeDocs(transport)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE waste_transports
		SET transport_date = $2, transporter = $3, goods = $4, updated_at = $5
		WHERE id = $1`,
		uuid.UUID(transport.ID), transport.TransportDate, transporter, goods, transport.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update waste transport: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, transportID id.TransportID) (*WasteTransport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, transport_date, transporter, goods, created_at, updated_at
		FROM waste_transports WHERE id = $1`,
		uuid.UUID(transportID))

	var (
		transport   WasteTransport
		rawID       uuid.UUID
		transporter []byte
		goods       []byte
	)
	err := row.Scan(&rawID, &transport.TransportDate, &transporter, &goods,
		&transport.CreatedAt, &transport.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load waste transport: %w", err)
	}

	transport.ID = id.TransportID(rawID)
	if err := json.Unmarshal(transporter, &transport.Transporter); err != nil {
		return nil, fmt.Errorf("decode transporter: %w", err)
	}
	if err := json.Unmarshal(goods, &transport.Goods); err != nil {
		return nil, fmt.Errorf("decode goods: %w", err)
	}
	return &transport, nil
}

func encodeDocs(transport *WasteTransport) ([]byte, []byte, error) {
	transporter, err := json.Marshal(transport.Transporter)
	if err != nil {
		return nil, nil, fmt.Errorf("encode transporter: %w", err)
	}
	goods, err := json.Marshal(transport.Goods)
	if err != nil {
		return nil, nil, fmt.Errorf("encode goods: %w", err)
	}
	return transporter, goods, nil
}
