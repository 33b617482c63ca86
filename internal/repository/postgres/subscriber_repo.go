package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"newsletter/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type subscriberRepository struct {
	DB *sql.DB
}

// NewSubscriberRepository returns a durable domain.SubscriberStore backed by
// Postgres. Ids come from the subscriptions_id_seq sequence, so they stay
// strictly increasing and are never reused.
func NewSubscriberRepository(db *sql.DB) domain.SubscriberStore {
	return &subscriberRepository{DB: db}
}

func (r *subscriberRepository) AllocateID(ctx context.Context) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx, `SELECT nextval('subscriptions_id_seq')`).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *subscriberRepository) Snapshot(ctx context.Context) ([]domain.Subscriber, error) {
	query := `
		SELECT id, username, email, status
		FROM subscriptions
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.ID, &s.Username, &s.Email, &s.Status); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *subscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `
		SELECT id, username, email, status
		FROM subscriptions
		WHERE email = $1
	`
	s := &domain.Subscriber{}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&s.ID, &s.Username, &s.Email, &s.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSubscriberNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *subscriberRepository) FindByID(ctx context.Context, id int) (*domain.Subscriber, error) {
	query := `
		SELECT id, username, email, status
		FROM subscriptions
		WHERE id = $1
	`
	s := &domain.Subscriber{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Username, &s.Email, &s.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSubscriberNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *subscriberRepository) Insert(ctx context.Context, s *domain.Subscriber) error {
	query := `
		INSERT INTO subscriptions (id, username, email, status)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.Username, s.Email, s.Status)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *subscriberRepository) MarkConfirmed(ctx context.Context, id int) error {
	query := `
		UPDATE subscriptions
		SET status = $1
		WHERE id = $2
	`
	res, err := r.DB.ExecContext(ctx, query, domain.StatusConfirmed, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrSubscriberNotFound
	}
	return nil
}
