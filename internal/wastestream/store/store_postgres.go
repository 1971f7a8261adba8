package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"wastetrack/internal/wastestream/models"
	"wastetrack/pkg/platform/sentinel"
)

// Postgres persists waste streams in the waste_streams table. Party snapshots
// and the pickup location union are stored as jsonb; the location kind gets
// its own column so the union stays queryable.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type partiesDoc struct {
	Consignor      models.Consignor               `json:"consignor"`
	Classification models.ConsignorClassification `json:"classification"`
	PickupParty    models.CompanyRef              `json:"pickup_party"`
	Dealer         *models.CompanyRef             `json:"dealer,omitempty"`
	Collector      *models.CompanyRef             `json:"collector,omitempty"`
	Broker         *models.CompanyRef             `json:"broker,omitempty"`
}

func (s *Postgres) Create(ctx context.Context, ws *models.WasteStream) error {
	kind, location, parties, processor, err := encodeDocs(ws)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO waste_streams (
			number, waste_type_name, eural_code, processing_method,
			collection_type, location_kind, location, processor, parties,
			status, activated_at, last_activity_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		ws.Number.String(), ws.WasteType.Name, ws.WasteType.EuralCode, ws.WasteType.ProcessingMethod,
		string(ws.CollectionType), string(kind), location, processor, parties,
		string(ws.Status), nullTime(ws.ActivatedAt), nullTime(ws.LastActivityAt), ws.CreatedAt, ws.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert waste stream: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, ws *models.WasteStream) error {
	kind, location, parties, processor, err := encodeDocs(ws)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE waste_streams SET
			waste_type_name = $2, eural_code = $3, processing_method = $4,
			collection_type = $5, location_kind = $6, location = $7,
			processor = $8, parties = $9, status = $10,
			activated_at = $11, last_activity_at = $12, updated_at = $13
		WHERE number = $1`,
		ws.Number.String(), ws.WasteType.Name, ws.WasteType.EuralCode, ws.WasteType.ProcessingMethod,
		string(ws.CollectionType), string(kind), location, processor, parties,
		string(ws.Status), nullTime(ws.ActivatedAt), nullTime(ws.LastActivityAt), ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update waste stream: %w", err)
	}
	return requireRow(res)
}

const streamColumns = `number, waste_type_name, eural_code, processing_method,
	collection_type, location_kind, location, processor, parties,
	status, activated_at, last_activity_at, created_at, updated_at`

func (s *Postgres) FindByNumber(ctx context.Context, number models.WasteStreamNumber) (*models.WasteStream, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+streamColumns+` FROM waste_streams WHERE number = $1`, number.String())
	ws, err := scanStream(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return ws, nil
}

func (s *Postgres) ListByProcessor(ctx context.Context, processorNumber string) ([]*models.WasteStream, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+streamColumns+` FROM waste_streams WHERE number LIKE $1 || '%' ORDER BY number`,
		processorNumber)
	if err != nil {
		return nil, fmt.Errorf("list waste streams: %w", err)
	}
	defer rows.Close()

	var out []*models.WasteStream
	for rows.Next() {
		ws, err := scanStream(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (s *Postgres) TouchActivity(ctx context.Context, number models.WasteStreamNumber, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE waste_streams
		SET last_activity_at = GREATEST(COALESCE(last_activity_at, 'epoch'::timestamptz), $2)
		WHERE number = $1`,
		number.String(), at)
	if err != nil {
		return fmt.Errorf("touch waste stream activity: %w", err)
	}
	return requireRow(res)
}

func encodeDocs(ws *models.WasteStream) (models.LocationKind, []byte, []byte, []byte, error) {
	kind, location, err := models.EncodeLocation(ws.PickupLocation)
	if err != nil {
		return "", nil, nil, nil, err
	}
	parties, err := json.Marshal(partiesDoc{
		Consignor:      ws.Consignor,
		Classification: ws.Classification,
		PickupParty:    ws.PickupParty,
		Dealer:         ws.Dealer,
		Collector:      ws.Collector,
		Broker:         ws.Broker,
	})
	if err != nil {
		return "", nil, nil, nil, fmt.Errorf("encode parties: %w", err)
	}
	processor, err := json.Marshal(ws.Processor)
	if err != nil {
		return "", nil, nil, nil, fmt.Errorf("encode processor: %w", err)
	}
	return kind, location, parties, processor, nil
}

func scanStream(scan func(dest ...any) error) (*models.WasteStream, error) {
	var (
		ws             models.WasteStream
		number         string
		collectionType string
		locationKind   string
		location       []byte
		processor      []byte
		parties        []byte
		status         string
		activatedAt    sql.NullTime
		lastActivityAt sql.NullTime
	)
	err := scan(&number, &ws.WasteType.Name, &ws.WasteType.EuralCode, &ws.WasteType.ProcessingMethod,
		&collectionType, &locationKind, &location, &processor, &parties,
		&status, &activatedAt, &lastActivityAt, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return nil, err
	}

	ws.Number = models.WasteStreamNumber(number)
	ws.CollectionType = models.CollectionType(collectionType)
	ws.Status = models.Status(status)
	ws.ActivatedAt = activatedAt.Time
	ws.LastActivityAt = lastActivityAt.Time

	loc, err := models.DecodeLocation(models.LocationKind(locationKind), location)
	if err != nil {
		return nil, err
	}
	ws.PickupLocation = loc

	if err := json.Unmarshal(processor, &ws.Processor); err != nil {
		return nil, fmt.Errorf("decode processor: %w", err)
	}
	var doc partiesDoc
	if err := json.Unmarshal(parties, &doc); err != nil {
		return nil, fmt.Errorf("decode parties: %w", err)
	}
	ws.Consignor = doc.Consignor
	ws.Classification = doc.Classification
	ws.PickupParty = doc.PickupParty
	ws.Dealer = doc.Dealer
	ws.Collector = doc.Collector
	ws.Broker = doc.Broker
	return &ws, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
