package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore implements store on a pgx connection pool.
type postgresStore struct {
	db *pgxpool.Pool
}

var _ store = (*postgresStore)(nil)

// getDBPool creates a connection pool. We use a pool (not a single conn)
// because hosted Postgres providers close idle connections after a few
// minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result
	// type" errors from server-side prepared statement caches after schema
	// changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

/* ─── Query helpers ──────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// mapNotFound translates pgx.ErrNoRows into the store-level sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errNotFound
	}
	return err
}

/* ─── store implementation ───────────────────────────────────────────── */

func (s *postgresStore) CreateUser(ctx context.Context, email, name, passwordHash, authToken string) (user, error) {
	u, err := queryOne[user](s.db, ctx,
		`INSERT INTO users (email, name, password, auth_token)
		 VALUES (@email, @name, @password, @authToken)
		 RETURNING *`,
		pgx.NamedArgs{"email": email, "name": name, "password": passwordHash, "authToken": authToken})
	if err != nil {
		// 23505 = unique_violation on the email key.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user{}, errDuplicateEmail
		}
		return user{}, err
	}

	// Seed the empty profile and default settings rows so later lookups
	// never miss.
	if _, err := s.db.Exec(ctx,
		"INSERT INTO profiles (user_id) VALUES (@userID)",
		pgx.NamedArgs{"userID": u.ID}); err != nil {
		return user{}, err
	}
	if _, err := s.db.Exec(ctx,
		"INSERT INTO settings (user_id) VALUES (@userID)",
		pgx.NamedArgs{"userID": u.ID}); err != nil {
		return user{}, err
	}
	return u, nil
}

func (s *postgresStore) UserByEmail(ctx context.Context, email string) (user, error) {
	u, err := queryOne[user](s.db, ctx,
		"SELECT * FROM users WHERE email = @email",
		pgx.NamedArgs{"email": email})
	return u, mapNotFound(err)
}

func (s *postgresStore) UserByToken(ctx context.Context, token string) (user, error) {
	u, err := queryOne[user](s.db, ctx,
		"SELECT * FROM users WHERE auth_token = @token",
		pgx.NamedArgs{"token": token})
	return u, mapNotFound(err)
}

func (s *postgresStore) GetProfile(ctx context.Context, userID int) (profile, error) {
	p, err := queryOne[profile](s.db, ctx,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	return p, mapNotFound(err)
}

func (s *postgresStore) UpsertProfile(ctx context.Context, p profile) (profile, error) {
	return queryOne[profile](s.db, ctx,
		`INSERT INTO profiles (user_id, sex, date_of_birth, height_cm, weight_kg, activity_level)
		 VALUES (@userID, @sex, @dateOfBirth, @heightCM, @weightKG, @activityLevel)
		 ON CONFLICT (user_id) DO UPDATE SET
			sex            = EXCLUDED.sex,
			date_of_birth  = EXCLUDED.date_of_birth,
			height_cm      = EXCLUDED.height_cm,
			weight_kg      = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": p.UserID, "sex": p.Sex, "dateOfBirth": p.DateOfBirth,
			"heightCM": p.HeightCM, "weightKG": p.WeightKG, "activityLevel": p.ActivityLevel,
		})
}

func (s *postgresStore) GetSettings(ctx context.Context, userID int) (userSettings, error) {
	st, err := queryOne[userSettings](s.db, ctx,
		"SELECT * FROM settings WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	return st, mapNotFound(err)
}

func (s *postgresStore) UpsertSettings(ctx context.Context, st userSettings) (userSettings, error) {
	return queryOne[userSettings](s.db, ctx,
		`INSERT INTO settings (user_id, unit_system, show_hydration, hydration_goal_l, nudge_opt_in)
		 VALUES (@userID, @unitSystem, @showHydration, @hydrationGoalL, @nudgeOptIn)
		 ON CONFLICT (user_id) DO UPDATE SET
			unit_system      = EXCLUDED.unit_system,
			show_hydration   = EXCLUDED.show_hydration,
			hydration_goal_l = EXCLUDED.hydration_goal_l,
			nudge_opt_in     = EXCLUDED.nudge_opt_in
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": st.UserID, "unitSystem": st.UnitSystem, "showHydration": st.ShowHydration,
			"hydrationGoalL": st.HydrationGoalL, "nudgeOptIn": st.NudgeOptIn,
		})
}

func (s *postgresStore) GetGoals(ctx context.Context, userID int) (*goals, error) {
	g, err := queryOne[goals](s.db, ctx,
		"SELECT * FROM goals WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *postgresStore) UpsertGoals(ctx context.Context, g goals) (goals, error) {
	return queryOne[goals](s.db, ctx,
		`INSERT INTO goals (user_id, kcal, protein_g, carbs_g, fat_g, fiber_g, water_ml)
		 VALUES (@userID, @kcal, @proteinG, @carbsG, @fatG, @fiberG, @waterML)
		 ON CONFLICT (user_id) DO UPDATE SET
			kcal      = EXCLUDED.kcal,
			protein_g = EXCLUDED.protein_g,
			carbs_g   = EXCLUDED.carbs_g,
			fat_g     = EXCLUDED.fat_g,
			fiber_g   = EXCLUDED.fiber_g,
			water_ml  = EXCLUDED.water_ml
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": g.UserID, "kcal": g.Kcal, "proteinG": g.ProteinG, "carbsG": g.CarbsG,
			"fatG": g.FatG, "fiberG": g.FiberG, "waterML": g.WaterML,
		})
}

func (s *postgresStore) AddLog(ctx context.Context, entry logEntry) (logEntry, error) {
	return queryOne[logEntry](s.db, ctx,
		`INSERT INTO logs (user_id, date, weight_kg, kcal_in, protein_g, carbs_g, fat_g, steps)
		 VALUES (@userID, @date, @weightKG, @kcalIn, @proteinG, @carbsG, @fatG, @steps)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": entry.UserID, "date": entry.Date, "weightKG": entry.WeightKG,
			"kcalIn": entry.KcalIn, "proteinG": entry.ProteinG, "carbsG": entry.CarbsG,
			"fatG": entry.FatG, "steps": entry.Steps,
		})
}

func (s *postgresStore) ListLogs(ctx context.Context, userID int) ([]logEntry, error) {
	entries, err := queryMany[logEntry](s.db, ctx,
		`SELECT * FROM logs
		 WHERE user_id = @userID
		 ORDER BY date ASC, id ASC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
