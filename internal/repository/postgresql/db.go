package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/config"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func NewDB(cfg *config.Config) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode)

	db, err := sql.Open("pgx", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("lỗi mở kết nối database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("lỗi ping database: %w", err)
	}
	return db, nil
}

type sqlStore struct {
	db    *sql.DB
	repos *repository.Repositories
}

func NewStore(db *sql.DB) repository.Store {
	return &sqlStore{db: db, repos: newRepositories(db)}
}

func newRepositories(dbtx repository.DBTX) *repository.Repositories {
	return &repository.Repositories{
		Slots:         NewPgSlotRepository(dbtx),
		Customers:     NewPgCustomerRepository(dbtx),
		Vehicles:      NewPgVehicleRepository(dbtx),
		Registrations: NewPgRegistrationRepository(dbtx),
		Payments:      NewPgPaymentRepository(dbtx),
		Prices:        NewPgPriceRepository(dbtx),
		Users:         NewPgUserRepository(dbtx),
		Reports:       NewPgReportRepository(dbtx),
	}
}

func (s *sqlStore) Repos() *repository.Repositories {
	return s.repos
}

// ExecTx mở một transaction, gắn toàn bộ repository vào transaction đó rồi
// chạy fn. fn trả lỗi thì rollback; commit lỗi cũng trả lỗi về caller.
func (s *sqlStore) ExecTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("lỗi mở transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("lỗi commit transaction: %w", err)
	}
	return nil
}
