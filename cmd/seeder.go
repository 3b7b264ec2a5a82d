package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/todo-api/internal/auth"
	userDatamodel "github.com/frahmantamala/todo-api/internal/core/datamodel/user"
	"github.com/frahmantamala/todo-api/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seededPasswordHash is the bcrypt hash of "Test@9803", shared by both seeded accounts.
const seededPasswordHash = "$2b$10$qU4R6tjzgsJIRYNEuzGSAO7cL2qDGg2.N4QMw0w2GXQvA1hM36R2W"

const (
	adminRoleID int64 = 1
	userRoleID  int64 = 2
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with roles, permissions and sample users",
	Long:  `Seed the database with the role and permission catalogue plus an admin and a regular user.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		gdb, err := initGorm(sqlDB)
		if err != nil {
			return err
		}

		return seedDatabase(cmd.Context(), gdb, cfg.Security.AdminUserID, clearData)
	},
}

// seedDatabase is idempotent: existing rows are left untouched.
func seedDatabase(ctx context.Context, db *gorm.DB, adminUserID int64, clear bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.L()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, table := range []string{"todos", "users", "role_permissions", "permissions", "roles"} {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
			log.Info("cleared existing data")
		}

		roles := []userDatamodel.Role{
			{ID: adminRoleID, Name: "admin", Description: "full administrator"},
			{ID: userRoleID, Name: "user", Description: "manages own todos"},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}

		permissions := make([]userDatamodel.Permission, 0, len(auth.AllPermissions))
		for i, name := range auth.AllPermissions {
			permissions = append(permissions, userDatamodel.Permission{ID: int64(i + 1), Name: name})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&permissions).Error; err != nil {
			return fmt.Errorf("seed permissions: %w", err)
		}

		var grants []userDatamodel.RolePermission
		for _, p := range permissions {
			grants = append(grants, userDatamodel.RolePermission{RoleID: adminRoleID, PermissionID: p.ID})
			if isTodoPermission(p.Name) {
				grants = append(grants, userDatamodel.RolePermission{RoleID: userRoleID, PermissionID: p.ID})
			}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error; err != nil {
			return fmt.Errorf("seed role permissions: %w", err)
		}

		users := []userDatamodel.User{
			{ID: adminUserID, Name: "Admin", Email: "admin@gmail.com", PasswordHash: seededPasswordHash, RoleID: adminRoleID},
			{ID: adminUserID + 1, Name: "Test", Email: "test1@gmail.com", PasswordHash: seededPasswordHash, RoleID: userRoleID},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}

		if tx.Dialector.Name() == "postgres" {
			for _, table := range []string{"roles", "permissions", "users"} {
				q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT MAX(id) FROM %[1]s))", table)
				if err := tx.Exec(q).Error; err != nil {
					return fmt.Errorf("reset %s sequence: %w", table, err)
				}
			}
		}

		log.Info("database seeded", "roles", len(roles), "permissions", len(permissions), "users", len(users))
		return nil
	})
}

func isTodoPermission(name string) bool {
	switch name {
	case auth.PermTodosCreate, auth.PermTodosFetch, auth.PermTodosUpdate, auth.PermTodosDelete:
		return true
	}
	return false
}
