package declaration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	wsmodels "wastetrack/internal/wastestream/models"
	"wastetrack/pkg/platform/sentinel"
)

// PostgresActivity persists weight-ticket lines in the activity_lines table.
type PostgresActivity struct {
	db *sql.DB
}

func NewPostgresActivity(db *sql.DB) *PostgresActivity {
	return &PostgresActivity{db: db}
}

func (s *PostgresActivity) Record(ctx context.Context, line ActivityLine) error {
	transporter, err := json.Marshal(line.Transporter)
	if err != nil {
		return fmt.Errorf("encode transporter: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activity_lines (id, number, transport_id, transporter_coc, transporter, weight_kg, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		uuid.UUID(line.ID), line.Number.String(), uuid.UUID(line.TransportID),
		line.Transporter.ChamberOfCommerceID, transporter, line.WeightKg, line.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert activity line: %w", err)
	}
	return nil
}

func (s *PostgresActivity) AggregateByStream(ctx context.Context, period Period) ([]ReceivalDeclaration, error) {
	start, end := period.Bounds()
	rows, err := s.db.QueryContext(ctx, `
		SELECT number,
		       SUM(weight_kg),
		       COUNT(DISTINCT transport_id),
		       JSONB_AGG(DISTINCT transporter)
		FROM activity_lines
		WHERE occurred_at >= $1 AND occurred_at < $2
		GROUP BY number
		ORDER BY number`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate activity: %w", err)
	}
	defer rows.Close()

	var out []ReceivalDeclaration
	for rows.Next() {
		var (
			number       string
			weight       float64
			shipments    int
			transporters []byte
		)
		if err := rows.Scan(&number, &weight, &shipments, &transporters); err != nil {
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}
		var refs []wsmodels.CompanyRef
		if err := json.Unmarshal(transporters, &refs); err != nil {
			return nil, fmt.Errorf("decode transporters: %w", err)
		}
		out = append(out, ReceivalDeclaration{
			Number:         wsmodels.WasteStreamNumber(number),
			Period:         period,
			Transporters:   refs,
			TotalWeightKg:  weight,
			TotalShipments: shipments,
		})
	}
	return out, rows.Err()
}

// PostgresSessions persists submission sessions and error records.
type PostgresSessions struct {
	db *sql.DB
}

func NewPostgresSessions(db *sql.DB) *PostgresSessions {
	return &PostgresSessions{db: db}
}

func (s *PostgresSessions) Save(ctx context.Context, session *Session) error {
	numbers := make([]string, len(session.Numbers))
	for i, n := range session.Numbers {
		numbers[i] = n.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO declaration_sessions (id, kind, period_year, period_month, numbers, status, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		session.ID, string(session.Kind), session.Period.Year, int(session.Period.Month),
		pq.Array(numbers), string(session.Status), session.SubmittedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert declaration session: %w", err)
	}
	return nil
}

func (s *PostgresSessions) Resolve(ctx context.Context, sessionID string, status SessionStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE declaration_sessions SET status = $2, resolved_at = NOW()
		WHERE id = $1`,
		sessionID, string(status))
	if err != nil {
		return fmt.Errorf("resolve declaration session: %w", err)
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

const sessionColumns = `id, kind, period_year, period_month, numbers, status, submitted_at, resolved_at`

func (s *PostgresSessions) FindByID(ctx context.Context, sessionID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM declaration_sessions WHERE id = $1`, sessionID)
	session, err := scanSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *PostgresSessions) ListPending(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM declaration_sessions WHERE status = $1 ORDER BY submitted_at`,
		string(SessionPending))
	if err != nil {
		return nil, fmt.Errorf("list pending sessions: %w", err)
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func (s *PostgresSessions) EverDeclared(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT UNNEST(numbers) FROM declaration_sessions WHERE status <> $1`,
		string(SessionFailed))
	if err != nil {
		return nil, fmt.Errorf("query declared numbers: %w", err)
	}
	defer rows.Close()
	return scanNumberSet(rows)
}

func (s *PostgresSessions) DeclaredInPeriod(ctx context.Context, kind Kind, period Period) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT UNNEST(numbers) FROM declaration_sessions
		WHERE status <> $1 AND kind = $2 AND period_year = $3 AND period_month = $4`,
		string(SessionFailed), string(kind), period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("query period declarations: %w", err)
	}
	defer rows.Close()
	return scanNumberSet(rows)
}

func (s *PostgresSessions) RecordError(ctx context.Context, rec ErrorRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO declaration_errors (session_id, code, description, recorded_at)
		VALUES ($1,$2,$3,$4)`,
		rec.SessionID, rec.Code, rec.Description, rec.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert declaration error: %w", err)
	}
	return nil
}

func scanSession(scan func(dest ...any) error) (*Session, error) {
	var (
		session    Session
		kind       string
		month      int
		numbers    pq.StringArray
		status     string
		resolvedAt sql.NullTime
	)
	err := scan(&session.ID, &kind, &session.Period.Year, &month, &numbers, &status,
		&session.SubmittedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}
	session.Kind = Kind(kind)
	session.Period.Month = time.Month(month)
	session.Status = SessionStatus(status)
	session.ResolvedAt = resolvedAt.Time
	session.Numbers = make([]wsmodels.WasteStreamNumber, len(numbers))
	for i, n := range numbers {
		session.Numbers[i] = wsmodels.WasteStreamNumber(n)
	}
	return &session, nil
}

func scanNumberSet(rows *sql.Rows) (map[string]bool, error) {
	set := make(map[string]bool)
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("scan number: %w", err)
		}
		set[number] = true
	}
	return set, rows.Err()
}

