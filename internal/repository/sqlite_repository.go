package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vivendi/backend/internal/model"
)

type sqliteClientRepository struct {
	db *sql.DB
}

func NewSQLiteClientRepository(db *sql.DB) ClientRepository {
	return &sqliteClientRepository{db: db}
}

func (r *sqliteClientRepository) Create(ctx context.Context, client *model.Client) error {
	query := "INSERT INTO clients (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, client.ID, client.Name, client.CreatedAt, client.UpdatedAt)
	return err
}

func (r *sqliteClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	query := "SELECT id, name, created_at, updated_at FROM clients WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, id)

	var client model.Client
	err := row.Scan(&client.ID, &client.Name, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *sqliteClientRepository) List(ctx context.Context) ([]*model.Client, error) {
	query := "SELECT id, name, created_at, updated_at FROM clients ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		var client model.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, &client)
	}
	return clients, rows.Err()
}

func (r *sqliteClientRepository) Update(ctx context.Context, client *model.Client) error {
	query := "UPDATE clients SET name = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, client.Name, client.UpdatedAt, client.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteClientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type sqliteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

const userColumns = "id, username, password, role, client_id, created_at, updated_at"

func (r *sqliteUserRepository) Create(ctx context.Context, user *model.User) error {
	query := "INSERT INTO users (" + userColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Password, user.Role, user.ClientID, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (r *sqliteUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row)
}

func (r *sqliteUserRepository) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *sqliteUserRepository) Update(ctx context.Context, user *model.User) error {
	query := "UPDATE users SET username = ?, password = ?, role = ?, client_id = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Password, user.Role, user.ClientID, user.UpdatedAt, user.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sqliteUserRepository) CountByClientID(ctx context.Context, clientID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE client_id = ?", clientID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	var clientID sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Role, &clientID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if clientID.Valid {
		user.ClientID = &clientID.String
	}
	return &user, nil
}

type sqliteMeasurementRepository struct {
	db *sql.DB
}

func NewSQLiteMeasurementRepository(db *sql.DB) MeasurementRepository {
	return &sqliteMeasurementRepository{db: db}
}

const measurementColumns = "id, client_id, year, month, month_index, " +
	"good, observation, unsatisfactory, danger, unmeasured, causes, created_at, updated_at"

func (r *sqliteMeasurementRepository) Create(ctx context.Context, m *model.Measurement) error {
	causes, err := json.Marshal(m.Causes)
	if err != nil {
		return fmt.Errorf("could not marshal cause breakdown: %w", err)
	}

	query := "INSERT INTO measurements (" + measurementColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = r.db.ExecContext(ctx, query,
		m.ID, m.ClientID, m.Year, m.Month, m.MonthIndex,
		m.Good, m.Observation, m.Unsatisfactory, m.Danger, m.Unmeasured,
		string(causes), m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *sqliteMeasurementRepository) Find(ctx context.Context, filter MeasurementFilter) ([]*model.Measurement, error) {
	var conds []string
	var args []any

	if filter.ClientID != "" {
		conds = append(conds, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.Year != 0 {
		conds = append(conds, "year = ?")
		args = append(args, filter.Year)
	}
	if filter.Month != 0 {
		conds = append(conds, "month = ?")
		args = append(args, filter.Month)
	}
	if filter.MinMonthIndex >= 0 {
		conds = append(conds, "month_index >= ?")
		args = append(args, filter.MinMonthIndex)
	}
	if filter.MaxMonthIndex >= 0 {
		conds = append(conds, "month_index <= ?")
		args = append(args, filter.MaxMonthIndex)
	}

	query := "SELECT " + measurementColumns + " FROM measurements"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.SortAscending {
		query += " ORDER BY month_index ASC"
	} else {
		query += " ORDER BY month_index DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var measurements []*model.Measurement
	for rows.Next() {
		var m model.Measurement
		var causes string
		err := rows.Scan(&m.ID, &m.ClientID, &m.Year, &m.Month, &m.MonthIndex,
			&m.Good, &m.Observation, &m.Unsatisfactory, &m.Danger, &m.Unmeasured,
			&causes, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if causes != "" {
			if err := json.Unmarshal([]byte(causes), &m.Causes); err != nil {
				return nil, fmt.Errorf("could not unmarshal cause breakdown: %w", err)
			}
		}
		measurements = append(measurements, &m)
	}
	return measurements, rows.Err()
}

// requireRow maps a zero-row write to ErrNotFound so update/delete misses
// surface the same way lookup misses do.
func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
