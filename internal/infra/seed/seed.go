package seed

import (
	"context"
	"errors"
	"log/slog"

	"biblio-api/internal/domain/user"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// seedVersion guards re-seeding: bumping it reloads the demo catalog on the
// next start, mirroring the system_version key of the original frontend.
const seedVersion = "1"

type Seeder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewSeeder(pool *pgxpool.Pool, logger *slog.Logger) *Seeder {
	return &Seeder{pool: pool, logger: logger}
}

type seedUser struct {
	email    string
	password string
	name     string
	role     string
	grade    string
}

type seedBook struct {
	title     string
	author    string
	publisher string
	year      int
	genre     string
	synopsis  string
	bookType  string
	cover     string
}

var demoUsers = []seedUser{
	{"lara@escola.edu", "senha123", "Lara Goulart", "student", "3º Ano CPG"},
	{"gustavo@escola.edu", "senha123", "Gustavo Bolzan", "student", "3º Ano CPG"},
	{"maria@escola.edu", "senha123", "Maria Silva", "student", "2º Ano TVC"},
	{"bibliotecario@escola.edu", "bibliotecario123", "Bibliotecário", "librarian", ""},
}

var demoBooks = []seedBook{
	{"1984", "George Orwell", "Companhia das Letras", 1949, "Ficção Científica", "Romance distópico sobre totalitarismo.", "normal", "1984.jpg"},
	{"Dom Casmurro", "Machado de Assis", "Garnier", 1899, "Romance", "História de Bentinho e Capitu.", "normal", "domcasmurro.jpg"},
	{"O Senhor dos Anéis", "J.R.R. Tolkien", "Martins Fontes", 1954, "Fantasia", "Épica aventura na Terra Média.", "normal", "osenhordosaneis.jpg"},
	{"Sapiens", "Yuval Noah Harari", "L&PM", 2011, "Não-ficção", "História da humanidade.", "normal", "sapiens.jpg"},
	{"Clean Code", "Robert C. Martin", "Prentice Hall", 2008, "Programação", "Guia de boas práticas de código.", "consulta", "cleancode.jpg"},
	{"O Hobbit", "J.R.R. Tolkien", "Martins Fontes", 1937, "Fantasia", "A aventura de Bilbo Bolseiro.", "normal", "ohobbit.jpg"},
	{"Harry Potter e a Pedra Filosofal", "J.K. Rowling", "Rocco", 1997, "Fantasia", "Um jovem bruxo descobre seu destino mágico.", "normal", "herrypotter.jpg"},
	{"O Pequeno Príncipe", "Antoine de Saint-Exupéry", "Agir", 1943, "Infantil", "Uma fábula poética sobre amor e amizade.", "normal", "opequenoprincepe.jpg"},
	{"Cem Anos de Solidão", "Gabriel García Márquez", "Record", 1967, "Romance", "A saga da família Buendía em Macondo.", "normal", "cemanosdesolidao.jpg"},
	{"O Código Da Vinci", "Dan Brown", "Sextante", 2003, "Suspense", "Um mistério envolvendo arte, história e religião.", "normal", "ocodigodavinci.jpg"},
	{"A Culpa é das Estrelas", "John Green", "Intrínseca", 2012, "Romance", "Uma história de amor entre dois adolescentes com câncer.", "normal", "aculpaedasestrelas.jpg"},
	{"O Alquimista", "Paulo Coelho", "Rocco", 1988, "Ficção", "A jornada de um pastor em busca de seu tesouro.", "normal", "oalquimista.jpg"},
	{"A Revolução dos Bichos", "George Orwell", "Companhia das Letras", 1945, "Ficção Científica", "Uma alegoria sobre totalitarismo e poder.", "normal", "arevolucaodosbichos.jpg"},
	{"O Cortiço", "Aluísio Azevedo", "Ática", 1890, "Romance", "Retrato da vida em um cortiço no Rio de Janeiro.", "normal", "ocortico.jpg"},
	{"Memórias Póstumas de Brás Cubas", "Machado de Assis", "Nova Fronteira", 1881, "Romance", "Narrado por um defunto autor, uma obra-prima da literatura.", "normal", "memoriaspostumas.jpg"},
}

const copiesPerBook = 2

// Run loads the demo catalog once per seed version: 4 users and 15 books
// with 2 copies each. Everything happens in one transaction, so a crashed
// seed leaves no partial data.
func (s *Seeder) Run(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to begin seed transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.logger.Warn("seed rollback failed", "error", rollbackErr.Error())
		}
	}()

	done, err := s.alreadySeeded(ctx, tx)
	if err != nil {
		return err
	}
	if done {
		s.logger.Info("demo data already seeded", "version", seedVersion)
		return nil
	}

	if err := s.seedUsers(ctx, tx); err != nil {
		return err
	}
	if err := s.seedBooks(ctx, tx); err != nil {
		return err
	}

	const markSQL = `
		INSERT INTO system_settings (key, value) VALUES ('seed_version', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := tx.Exec(ctx, markSQL, seedVersion); err != nil {
		return errs.Wrap(err, "failed to record seed version")
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(err, "failed to commit seed transaction")
	}

	s.logger.Info("demo data seeded",
		"version", seedVersion,
		"users", len(demoUsers),
		"books", len(demoBooks),
		"copies", len(demoBooks)*copiesPerBook,
	)
	return nil
}

func (s *Seeder) alreadySeeded(ctx context.Context, tx db.DBTX) (bool, error) {
	const query = `SELECT value FROM system_settings WHERE key = 'seed_version'`

	var version string
	err := tx.QueryRow(ctx, query).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, errs.Wrap(err, "failed to read seed version")
	}
	return version == seedVersion, nil
}

func (s *Seeder) seedUsers(ctx context.Context, tx db.DBTX) error {
	const query = `
		INSERT INTO users (id, email, password_hash, name, role, grade, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO NOTHING`

	for _, u := range demoUsers {
		hash, err := password.HashPassword(u.password)
		if err != nil {
			return errs.Wrap(err, "failed to hash seed password")
		}
		avatar := user.DefaultAvatarURL(u.name)
		if _, err := tx.Exec(ctx, query, uuid.New(), u.email, hash, u.name, u.role, u.grade, avatar); err != nil {
			return errs.Wrap(err, "failed to seed user "+u.email)
		}
	}
	return nil
}

func (s *Seeder) seedBooks(ctx context.Context, tx db.DBTX) error {
	const bookSQL = `
		INSERT INTO books (id, title, author, publisher, year, genre, synopsis, type, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	const copySQL = `
		INSERT INTO copies (id, book_id, copy_number, status)
		VALUES ($1, $2, $3, 'available')`

	for _, b := range demoBooks {
		bookID := uuid.New()
		_, err := tx.Exec(ctx, bookSQL,
			bookID, b.title, b.author, b.publisher, b.year, b.genre, b.synopsis, b.bookType, b.cover)
		if err != nil {
			return errs.Wrap(err, "failed to seed book "+b.title)
		}
		for n := 1; n <= copiesPerBook; n++ {
			if _, err := tx.Exec(ctx, copySQL, uuid.New(), bookID, n); err != nil {
				return errs.Wrap(err, "failed to seed copies for "+b.title)
			}
		}
	}
	return nil
}
