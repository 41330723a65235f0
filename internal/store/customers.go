package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/launchline/concierge/internal/stage"
)

// Customer is one flat row per end customer. Fields holds only the checklist
// attributes that are non-empty in the database.
type Customer struct {
	ID           uuid.UUID
	Phone        string
	Email        string
	Status       string
	CurrentStage int
	Completed    [stage.Count]bool
	Fields       map[string]string

	CreatedAt           time.Time
	UpdatedAt           time.Time
	LastPromptRefreshAt time.Time // zero when no prompt was ever pushed
}

func (s *Store) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	return s.getBy(ctx, "phone", phone)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	return s.getBy(ctx, "LOWER(email)", strings.ToLower(email))
}

func (s *Store) getBy(ctx context.Context, col, val string) (*Customer, error) {
	cols := []string{
		"id", "phone", "COALESCE(email, '')", "status", "current_call_stage",
		"call_1_completed", "call_2_completed", "call_3_completed", "call_4_completed",
		"created_at", "updated_at", "COALESCE(last_prompt_refresh_at, 'epoch'::timestamptz)",
	}
	for _, f := range s.fieldCols {
		cols = append(cols, "COALESCE("+f+", '')")
	}

	row := s.pool.QueryRow(ctx,
		"SELECT "+strings.Join(cols, ", ")+" FROM customers WHERE "+col+" = $1", val)

	c := Customer{Fields: make(map[string]string)}
	dest := []any{
		&c.ID, &c.Phone, &c.Email, &c.Status, &c.CurrentStage,
		&c.Completed[0], &c.Completed[1], &c.Completed[2], &c.Completed[3],
		&c.CreatedAt, &c.UpdatedAt, &c.LastPromptRefreshAt,
	}
	vals := make([]string, len(s.fieldCols))
	for i := range vals {
		dest = append(dest, &vals[i])
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load customer: %w", err)
	}

	for i, f := range s.fieldCols {
		if vals[i] != "" {
			c.Fields[f] = vals[i]
		}
	}
	return &c, nil
}

// CreateStub seeds a minimal record for a first contact. Safe to race: the
// conflict target is the phone key and an existing row is left untouched.
func (s *Store) CreateStub(ctx context.Context, phone, email string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO customers (id, phone, email, status, current_call_stage, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), 'in_progress', 1, now(), now())
		ON CONFLICT (phone) DO NOTHING`,
		uuid.New(), phone, email,
	)
	if err != nil {
		return fmt.Errorf("create customer stub: %w", err)
	}
	return nil
}

// UpsertFields merges extracted values into the customer row keyed by phone.
// Merge semantics are last-write-wins per field for non-empty values only:
// NULLIF keeps an empty extraction from ever clearing a stored value, which is
// what makes completion monotonic under normal call processing.
func (s *Store) UpsertFields(ctx context.Context, phone, email string, fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for n := range fields {
		if !s.fieldSet[n] {
			return fmt.Errorf("unknown customer field %q", n)
		}
		names = append(names, n)
	}
	sort.Strings(names)

	colSQL := "id, phone, email, status, created_at, updated_at"
	valSQL := "$1, $2, NULLIF($3, ''), 'in_progress', now(), now()"
	args := []any{uuid.New(), phone, email}
	sets := []string{
		"email = COALESCE(NULLIF(EXCLUDED.email, ''), customers.email)",
		"updated_at = now()",
	}

	for _, n := range names {
		args = append(args, fields[n])
		colSQL += ", " + n
		valSQL += fmt.Sprintf(", $%d", len(args))
		sets = append(sets, fmt.Sprintf("%s = COALESCE(NULLIF(EXCLUDED.%s, ''), customers.%s)", n, n, n))
	}

	query := "INSERT INTO customers (" + colSQL + ") VALUES (" + valSQL + ") " +
		"ON CONFLICT (phone) DO UPDATE SET " + strings.Join(sets, ", ")

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert customer fields: %w", err)
	}
	return nil
}

// MarkCallCompleted sets a stage flag. Flags only ever go true→true; the
// completion timestamp keeps its first value and the current stage never
// regresses, so out-of-order events cannot undo progress.
func (s *Store) MarkCallCompleted(ctx context.Context, phone string, stageNum int) error {
	if stageNum < 1 || stageNum > stage.Count {
		return fmt.Errorf("invalid call stage %d", stageNum)
	}

	col := fmt.Sprintf("call_%d_completed", stageNum)
	query := fmt.Sprintf(`
		UPDATE customers SET
			%s = TRUE,
			%s_at = COALESCE(%s_at, now()),
			current_call_stage = GREATEST(current_call_stage, LEAST(%d + 1, %d)),
			updated_at = now()
		WHERE phone = $1`,
		col, col, col, stageNum, stage.Count,
	)
	if _, err := s.pool.Exec(ctx, query, phone); err != nil {
		return fmt.Errorf("mark call %d completed: %w", stageNum, err)
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE customers SET status = 'completed'
		WHERE phone = $1
		  AND call_1_completed AND call_2_completed AND call_3_completed AND call_4_completed`,
		phone,
	)
	if err != nil {
		return fmt.Errorf("update customer status: %w", err)
	}
	return nil
}

// TouchPromptRefresh stamps the debounce column after a prompt push. Persisted
// rather than kept in memory so the sweep's debounce survives restarts and
// works across instances.
func (s *Store) TouchPromptRefresh(ctx context.Context, phone string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE customers SET last_prompt_refresh_at = now() WHERE phone = $1`, phone)
	if err != nil {
		return fmt.Errorf("touch prompt refresh: %w", err)
	}
	return nil
}

// ListStaleInProgress returns phones of in-progress customers whose prompt has
// not been refreshed within olderThan.
func (s *Store) ListStaleInProgress(ctx context.Context, olderThan time.Duration) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT phone FROM customers
		WHERE status = 'in_progress'
		  AND (last_prompt_refresh_at IS NULL
		       OR last_prompt_refresh_at < now() - make_interval(secs => $1))
		ORDER BY updated_at ASC`,
		olderThan.Seconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("list stale customers: %w", err)
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan phone: %w", err)
		}
		phones = append(phones, p)
	}
	return phones, rows.Err()
}

// DuplicateEmails returns emails that appear on more than one customer row.
func (s *Store) DuplicateEmails(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT LOWER(email) FROM customers
		WHERE email IS NOT NULL AND email <> ''
		GROUP BY LOWER(email)
		HAVING COUNT(*) > 1`)
	if err != nil {
		return nil, fmt.Errorf("find duplicate emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// ListByEmail returns all customers sharing an email, oldest first.
func (s *Store) ListByEmail(ctx context.Context, email string) ([]*Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT phone FROM customers
		WHERE LOWER(email) = LOWER($1)
		ORDER BY created_at ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list by email: %w", err)
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan phone: %w", err)
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	customers := make([]*Customer, 0, len(phones))
	for _, p := range phones {
		c, err := s.GetByPhone(ctx, p)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// Delete removes a customer row. Only the duplicate merge uses this; normal
// processing never hard-deletes.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}
