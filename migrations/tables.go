package migrations

import (
	"context"
	"fmt"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// RequiredTables lists the tables the application cannot run without,
// in creation order.
func RequiredTables() []string {
	return []string{
		constants.TableUsers,
		constants.TablePasswordResetTokens,
		constants.TableProducts,
		constants.TableCartItems,
		constants.TableOrders,
		constants.TableOrderItems,
		constants.TableSeeds,
	}
}

// verifyAllTablesExist fails with the name of the first missing table.
func (m *Migrator) verifyAllTablesExist(ctx context.Context) error {
	for _, table := range RequiredTables() {
		exists, err := m.tableExists(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to check if table %s exists: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("table %s is missing after migrations", table)
		}
	}
	return nil
}

// tableExists probes a table with a query that matches no rows. The probe
// is portable across the supported dialects; a missing table makes it fail.
func (m *Migrator) tableExists(ctx context.Context, table string) (bool, error) {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE 1 = 0", table))
	if err != nil {
		return false, nil
	}
	defer rows.Close()
	return true, rows.Err()
}
