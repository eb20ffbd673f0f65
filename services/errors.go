package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateID          = errors.New("id already exists")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNoDraft              = errors.New("no draft in progress")
	ErrDraftIDChanged       = errors.New("draft id cannot change")
	ErrInvalidBackupFile    = errors.New("invalid backup file")
	ErrConfirmationRequired = errors.New("restore requires explicit confirmation")
)

// Postgres-Fehlercodes, die auf ein veraltetes Schema hindeuten.
const (
	pgUndefinedColumn = "42703"
	pgUndefinedTable  = "42P01"
)

const schemaMismatchHint = "מבנה הטבלה במסד הנתונים אינו תואם לגרסת האתר. " +
	"יש להריץ את המיגרציות (הפעלה מחדש של השרת מריצה AutoMigrate) ולרענן את מטמון הסכמה של מסד הנתונים, ואז לנסות שוב."

// IsSchemaMismatch meldet, ob die Datenbank eine Spalte oder Tabelle nicht kennt.
func IsSchemaMismatch(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedColumn || pgErr.Code == pgUndefinedTable
	}
	return strings.Contains(strings.ToLower(err.Error()), "schema cache")
}

// DescribePersistError übersetzt einen Speicherfehler in eine Meldung für die Oberfläche.
func DescribePersistError(err error) string {
	if err == nil {
		return ""
	}
	if IsSchemaMismatch(err) {
		return schemaMismatchHint + " (" + err.Error() + ")"
	}
	return "שגיאה בשמירה: " + err.Error()
}
