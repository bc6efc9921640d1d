// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines table names, driver names and the driver
// error codes the application recognizes. Using these constants keeps SQL and
// error mapping consistent across repositories.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers stores user accounts and their roles.
	TableUsers = "users"

	// TablePasswordResetTokens stores hashed single-use password reset tokens.
	TablePasswordResetTokens = "password_reset_tokens"

	// TableProducts stores the product catalog.
	TableProducts = "products"

	// TableCartItems stores the shopping cart lines of each user.
	TableCartItems = "cart_items"

	// TableOrders stores order headers.
	TableOrders = "orders"

	// TableOrderItems stores order lines with the price paid.
	TableOrderItems = "order_items"

	// TableSeeds tracks which seed sets have been applied.
	TableSeeds = "seeds"
)

// Driver Names define the database/sql drivers the application can use.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// Database Error Types define constants for recognizing driver-specific constraint errors.
const (
	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// PGErrorForeignKeyConstraint is the PostgreSQL error code for foreign key violations.
	PGErrorForeignKeyConstraint = "23503"

	// PGErrorNotNullConstraint is the PostgreSQL error code for not-null constraint violations.
	PGErrorNotNullConstraint = "23502"

	// MySQLErrorDuplicateEntry is the MySQL error number for unique key violations.
	MySQLErrorDuplicateEntry = 1062

	// MySQLErrorRowIsReferenced is the MySQL error number for a delete blocked by a foreign key.
	MySQLErrorRowIsReferenced = 1451

	// SQLiteErrorUnique is the message fragment sqlite3 reports for unique violations.
	SQLiteErrorUnique = "UNIQUE constraint failed"

	// SQLiteErrorForeignKey is the message fragment sqlite3 reports for foreign key violations.
	SQLiteErrorForeignKey = "FOREIGN KEY constraint failed"
)
