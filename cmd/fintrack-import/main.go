// fintrack-import bulk loads a transactions CSV into the store for one user.
// Expected header: description,amount,category,type,date.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentImport})
	applog.SetDefault(logger)

	var (
		csvPath  = flag.String("csv", "transactions.csv", "path to the transactions CSV")
		username = flag.String("user", "", "username owning the imported rows (created if missing)")
	)
	flag.Parse()

	if *username == "" {
		logger.Error("Missing required -user flag")
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	user, err := resolveUser(ctx, repo, *username)
	if err != nil {
		logger.Error("Failed to resolve user", "error", err, "username", *username)
		os.Exit(1)
	}

	imported, skipped, err := importCSV(ctx, repo, user.ID, *csvPath)
	if err != nil {
		logger.Error("Import failed", "error", err, "path", *csvPath)
		os.Exit(1)
	}

	logger.Info("Import finished", "imported", imported, "skipped", skipped, "user_id", user.ID)
}

// resolveUser finds or creates the import target. Imported accounts get no
// usable password; a later /register would conflict, logins just fail.
func resolveUser(ctx context.Context, repo *sqlite.Repository, username string) (store.User, error) {
	user, err := repo.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	return repo.CreateUser(ctx, username, "!imported")
}

func importCSV(ctx context.Context, repo *sqlite.Repository, userID int64, path string) (imported, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"description", "amount", "category", "date"} {
		if _, ok := col[required]; !ok {
			return 0, 0, fmt.Errorf("missing %q column", required)
		}
	}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("read line %d: %w", line+1, err)
		}
		line++

		tx, err := parseRecord(record, col, userID)
		if err != nil {
			applog.FromContext(ctx).Warn("Skipping row", "line", line, "error", err)
			skipped++
			continue
		}

		if _, err := repo.Append(ctx, tx); err != nil {
			return imported, skipped, fmt.Errorf("append line %d: %w", line, err)
		}
		imported++
	}

	return imported, skipped, nil
}

func parseRecord(record []string, col map[string]int, userID int64) (core.Transaction, error) {
	get := func(name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	cents, err := core.ParseDecimalToCents(get("amount"))
	if err != nil {
		return core.Transaction{}, err
	}

	date, err := core.ParseDate(get("date"))
	if err != nil {
		return core.Transaction{}, err
	}

	category := get("category")

	// The export format carries no type column; income is recognized by its
	// category, everything else is spending.
	txType := core.Spending
	if t := strings.ToLower(get("type")); t != "" {
		txType = core.TxType(t)
	} else if category == "income" {
		txType = core.Income
	}

	tx := core.Transaction{
		Description: get("description"),
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Type:        txType,
		Date:        date,
		UserID:      userID,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}
