package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGorm creates a GORM connection backed by sqlmock
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormRuleRepository_FindByID(t *testing.T) {
	t.Run("finds existing rule", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormRuleRepository(db)

		ruleID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "report_type", "rule_no", "name_en", "priority", "allow_continue", "rule_expression", "active"}).
			AddRow(ruleID, "AMLO-1-01", 1, "cash threshold", 100, false,
				`{"logic":"AND","conditions":[{"field":"total_amount","operator":">=","value":5000000}]}`, true)

		mock.ExpectQuery(`SELECT \* FROM "trigger_rules" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(ruleID, 1).
			WillReturnRows(rows)

		rule, err := repo.FindByID(context.Background(), ruleID)

		require.NoError(t, err)
		assert.Equal(t, ruleID, rule.ID)
		assert.Equal(t, regulatory.ReportAMLO101, rule.ReportType)
		assert.Equal(t, regulatory.LogicAnd, rule.Expression.Logic)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing rule", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormRuleRepository(db)

		ruleID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "trigger_rules" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(ruleID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		rule, err := repo.FindByID(context.Background(), ruleID)

		assert.Nil(t, rule)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormRuleRepository_FindActiveByReportType(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormRuleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "report_type", "rule_no", "name_en", "priority", "allow_continue", "rule_expression", "active"}).
		AddRow(uuid.New(), "AMLO-1-01", 1, "cash threshold", 100, false,
			`{"field":"total_amount","operator":">=","value":5000000}`, true).
		AddRow(uuid.New(), "AMLO-1-01", 2, "cumulative threshold", 90, true,
			`{"field":"cumulative_amount_30d","operator":">=","value":5000000}`, true)

	mock.ExpectQuery(`SELECT \* FROM "trigger_rules" WHERE report_type = \$1 AND active = \$2 ORDER BY rule_no ASC`).
		WithArgs("AMLO-1-01", true).
		WillReturnRows(rows)

	rules, err := repo.FindActiveByReportType(context.Background(), regulatory.ReportAMLO101)

	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, 1, rules[0].RuleNo)
	assert.Equal(t, 2, rules[1].RuleNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRuleRepository_Save(t *testing.T) {
	t.Run("rejects a malformed expression before touching the database", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormRuleRepository(db)

		rule := &regulatory.TriggerRule{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			ReportType:        regulatory.ReportAMLO101,
			RuleNo:            1,
			NameEN:            "broken",
			Expression:        regulatory.Expression{Logic: regulatory.LogicAnd},
		}

		err := repo.Save(context.Background(), rule)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_RULE_EXPRESSION", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("normalizes the expression on save", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormRuleRepository(db)

		rule := &regulatory.TriggerRule{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			ReportType:        regulatory.ReportAMLO101,
			RuleNo:            1,
			NameEN:            "legacy spelling",
			Expression: regulatory.Expression{
				Logic: "and",
				Conditions: []regulatory.Expression{
					{Field: "payment_method", Operator: "=", Value: "cash"},
				},
			},
			Active: true,
		}

		mock.ExpectExec(`UPDATE "trigger_rules" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), rule)

		require.NoError(t, err)
		assert.Equal(t, regulatory.LogicAnd, rule.Expression.Logic)
		assert.Equal(t, regulatory.OpEq, rule.Expression.Conditions[0].Operator)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
