package queries

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
)

// ReportQueries renders the librarian CSV exports. Dates use dd/mm/yyyy to
// match the rest of the user-facing surface.
type ReportQueries interface {
	TopBooksCSV(ctx context.Context, limit int) ([]byte, error)
	OverdueLoansCSV(ctx context.Context) ([]byte, error)
	AllLoansCSV(ctx context.Context) ([]byte, error)
}

type reportQueriesImpl struct {
	books BookQueries
	loans LoanQueries
}

func NewReportQueries(books BookQueries, loans LoanQueries) ReportQueries {
	return &reportQueriesImpl{books: books, loans: loans}
}

const csvDateLayout = "02/01/2006"

func (q *reportQueriesImpl) TopBooksCSV(ctx context.Context, limit int) ([]byte, error) {
	top, err := q.books.TopBorrowed(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"titulo", "autor", "genero", "emprestimos"}}
	for _, t := range top {
		rows = append(rows, []string{t.Title, t.Author, t.Genre, strconv.Itoa(t.LoanCount)})
	}
	return writeCSV(rows)
}

func (q *reportQueriesImpl) OverdueLoansCSV(ctx context.Context) ([]byte, error) {
	overdue, err := q.loans.ListOverdue(ctx)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"livro", "usuario", "data_emprestimo", "data_devolucao", "dias_atraso"}}
	for _, l := range overdue {
		rows = append(rows, []string{
			l.BookTitle,
			l.UserName,
			l.LoanDate.Format(csvDateLayout),
			l.DueDate.Format(csvDateLayout),
			strconv.Itoa(l.DaysLate),
		})
	}
	return writeCSV(rows)
}

func (q *reportQueriesImpl) AllLoansCSV(ctx context.Context) ([]byte, error) {
	all, err := q.loans.ListAll(ctx, false)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"livro", "usuario", "data_emprestimo", "data_devolucao", "status", "renovacoes"}}
	for _, l := range all {
		returned := ""
		if l.ReturnDate != nil {
			returned = l.ReturnDate.Format(csvDateLayout)
		}
		rows = append(rows, []string{
			l.BookTitle,
			l.UserName,
			l.LoanDate.Format(csvDateLayout),
			returned,
			l.Status,
			strconv.Itoa(l.RenewalCount),
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
