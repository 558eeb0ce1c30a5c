package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// CLI flags
var (
	csvPath     = flag.String("csv", "", "Path to the ward CSV (required)")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to perform writes")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
)

// CSV contract
// ulb,state,ward_number,ward_name,localities,boundary
// localities are semicolon-separated; boundary is a JSON array of [lat,lng]
// pairs or empty for wards without digitized boundaries

type WardCSV struct {
	ULB        string
	State      string
	Number     int
	Name       string
	Localities []string
	Boundary   string // raw JSON, already validated
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *csvPath == "" {
		fatalf("--csv is required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	rows, err := loadCSV(*csvPath)
	if err != nil {
		fatalf("CSV error: %v", err)
	}

	if err := validateRows(rows); err != nil {
		fatalf("CSV validation failed: %v", err)
	}

	fmt.Printf("Loaded %d wards from %s\n", len(rows), *csvPath)

	if *dryRun {
		printPlan(rows)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	// Optional advisory lock to avoid concurrent runs
	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	ulbIDs, err := upsertULBs(ctx, tx, rows)
	if err != nil {
		fatalf("upsert ulbs: %v", err)
	}
	fmt.Printf("Upserted %d distinct ULBs\n", len(ulbIDs))

	inserted, updated, err := upsertWards(ctx, tx, rows, ulbIDs)
	if err != nil {
		fatalf("upsert wards: %v", err)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Printf("Seed complete: %d wards inserted, %d updated ✅\n", inserted, updated)
}

func loadCSV(path string) ([]WardCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	r := csv.NewReader(br)
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	required := []string{"ulb", "state", "ward_number", "ward_name", "localities", "boundary"}
	for _, k := range required {
		if _, ok := idx[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []WardCSV
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}

		num, err := strconv.Atoi(strings.TrimSpace(rec[idx["ward_number"]]))
		if err != nil {
			return nil, fmt.Errorf("ward_number %q: %w", rec[idx["ward_number"]], err)
		}

		row := WardCSV{
			ULB:      strings.TrimSpace(rec[idx["ulb"]]),
			State:    strings.TrimSpace(rec[idx["state"]]),
			Number:   num,
			Name:     strings.TrimSpace(rec[idx["ward_name"]]),
			Boundary: strings.TrimSpace(rec[idx["boundary"]]),
		}

		locs := strings.TrimSpace(rec[idx["localities"]])
		if locs != "" {
			for _, p := range strings.Split(locs, ";") {
				if l := strings.TrimSpace(p); l != "" {
					row.Localities = append(row.Localities, l)
				}
			}
		}

		out = append(out, row)
	}
	return out, nil
}

func validateRows(rows []WardCSV) error {
	if len(rows) == 0 {
		return fmt.Errorf("CSV has no data rows")
	}
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		if r.ULB == "" {
			return fmt.Errorf("row %d: ulb is empty", i+2)
		}
		if r.Number <= 0 {
			return fmt.Errorf("row %d: ward_number must be positive", i+2)
		}
		key := strings.ToLower(r.ULB) + "#" + strconv.Itoa(r.Number)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("row %d: duplicate ward %d for ULB '%s'", i+2, r.Number, r.ULB)
		}
		seen[key] = struct{}{}

		if r.Boundary != "" {
			var pairs [][]float64
			if err := json.Unmarshal([]byte(r.Boundary), &pairs); err != nil {
				return fmt.Errorf("row %d: boundary is not a JSON array of pairs: %v", i+2, err)
			}
			if len(pairs) > 0 && len(pairs) < 3 {
				return fmt.Errorf("row %d: boundary has %d vertices, need at least 3", i+2, len(pairs))
			}
			for _, p := range pairs {
				if len(p) != 2 {
					return fmt.Errorf("row %d: boundary vertex is not a [lat,lng] pair", i+2)
				}
			}
		}
	}
	return nil
}

func printPlan(rows []WardCSV) {
	distinctULBs := map[string]struct{}{}
	withBoundary := 0
	for _, r := range rows {
		distinctULBs[r.ULB] = struct{}{}
		if r.Boundary != "" {
			withBoundary++
		}
	}
	fmt.Println("Plan preview:")
	fmt.Printf("  Wards to upsert: %d\n", len(rows))
	fmt.Printf("  Distinct ULBs: %d\n", len(distinctULBs))
	fmt.Printf("  Wards with boundary polygons: %d\n", withBoundary)
	fmt.Println("  Tables affected (upsert only): org.ulbs, org.wards")
}

func upsertULBs(ctx context.Context, tx *sql.Tx, rows []WardCSV) (map[string]string, error) {
	ids := make(map[string]string)
	for _, r := range rows {
		if _, ok := ids[r.ULB]; ok {
			continue
		}
		var id string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO org.ulbs (id, name, state, created_at, updated_at)
			VALUES (uuid_generate_v4(), $1, $2, now(), now())
			ON CONFLICT (name) DO UPDATE SET state = EXCLUDED.state, updated_at = now()
			RETURNING id
		`, r.ULB, r.State).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("ulb '%s': %w", r.ULB, err)
		}
		ids[r.ULB] = id
	}
	return ids, nil
}

func upsertWards(ctx context.Context, tx *sql.Tx, rows []WardCSV, ulbIDs map[string]string) (inserted, updated int, err error) {
	for _, r := range rows {
		var boundary any
		if r.Boundary != "" {
			boundary = r.Boundary
		}

		// text[] literal for localities
		locs := "{" + strings.Join(quoteAll(r.Localities), ",") + "}"

		var wasInsert bool
		err = tx.QueryRowContext(ctx, `
			INSERT INTO org.wards (id, ulb_id, number, name, localities, boundary, created_at, updated_at)
			VALUES (uuid_generate_v4(), $1, $2, $3, $4::text[], $5, now(), now())
			ON CONFLICT (ulb_id, number) DO UPDATE SET
				name = EXCLUDED.name,
				localities = EXCLUDED.localities,
				boundary = EXCLUDED.boundary,
				updated_at = now()
			RETURNING (xmax = 0)
		`, ulbIDs[r.ULB], r.Number, r.Name, locs, boundary).Scan(&wasInsert)
		if err != nil {
			return inserted, updated, fmt.Errorf("ward %d (%s): %w", r.Number, r.ULB, err)
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}
	return inserted, updated, nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return out
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
