package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/care-roster/internal/rbac"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, the permission catalog and role grants",
	Long: `Seed the roles and permission catalog, attach the default grants to each
role, and migrate legacy users.role labels into role_user rows. With --demo,
also create demo users, clients and shifts.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		seedCatalog(db)
		migrateLegacyRoles(db)

		if seedDemoData {
			seedDemo(db)
		}
	},
}

// seedCatalog inserts roles, permissions and role grants. Every statement is
// a firstOrCreate so the command can run on every deploy.
func seedCatalog(db *gorm.DB) {
	for slug, label := range rbac.RoleLabels {
		var exists int
		if err := db.Raw("SELECT 1 FROM roles WHERE name = ?", slug).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO roles (name, label, created_at, updated_at) VALUES (?, ?, now(), now())", slug, label).Error; err != nil {
			log.Fatalf("failed to insert role %s: %v", slug, err)
		}
		fmt.Println("Seeded role:", slug)
	}

	for key, description := range rbac.PermissionDescriptions {
		var exists int
		if err := db.Raw("SELECT 1 FROM permissions WHERE key = ?", key).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO permissions (key, description, created_at, updated_at) VALUES (?, ?, now(), now())", key, description).Error; err != nil {
			log.Fatalf("failed to insert permission %s: %v", key, err)
		}
	}
	fmt.Println("Seeded permission catalog:", len(rbac.PermissionDescriptions), "keys")

	grants := map[string][]string{
		rbac.RoleAdmin: rbac.AdminPermissionKeys(),
	}
	for slug, keys := range rbac.DefaultRolePermissions {
		grants[slug] = keys
	}

	for slug, keys := range grants {
		var roleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", slug).Row().Scan(&roleID); err != nil {
			log.Fatalf("role not found after insert %s: %v", slug, err)
		}

		for _, key := range keys {
			var permID int64
			if err := db.Raw("SELECT id FROM permissions WHERE key = ?", key).Row().Scan(&permID); err != nil {
				log.Fatalf("permission not found after insert %s: %v", key, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM role_permission WHERE role_id = ? AND permission_id = ?", roleID, permID).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO role_permission (role_id, permission_id) VALUES (?, ?)", roleID, permID).Error; err != nil {
				log.Fatalf("failed to grant %s to %s: %v", key, slug, err)
			}
		}
		fmt.Printf("Granted %d permissions to role %s\n", len(keys), slug)
	}
}

// migrateLegacyRoles backfills role_user rows for users that only carry the
// old users.role label. Existing role_user rows are kept.
func migrateLegacyRoles(db *gorm.DB) {
	rows, err := db.Raw(`
		SELECT u.id, u.role FROM users u
		WHERE u.role IS NOT NULL AND u.role <> ''
		  AND NOT EXISTS (SELECT 1 FROM role_user ru WHERE ru.user_id = u.id)`).Rows()
	if err != nil {
		log.Fatalf("failed to find legacy-role users: %v", err)
	}
	defer rows.Close()

	type legacy struct {
		userID int64
		role   string
	}
	var pending []legacy
	for rows.Next() {
		var l legacy
		if err := rows.Scan(&l.userID, &l.role); err != nil {
			log.Fatalf("failed to scan legacy-role user: %v", err)
		}
		pending = append(pending, l)
	}

	for _, l := range pending {
		var roleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", l.role).Row().Scan(&roleID); err != nil {
			fmt.Printf("Skipping user %d: unknown legacy role %q\n", l.userID, l.role)
			continue
		}
		if err := db.Exec("INSERT INTO role_user (role_id, user_id) VALUES (?, ?)", roleID, l.userID).Error; err != nil {
			log.Fatalf("failed to migrate legacy role for user %d: %v", l.userID, err)
		}
		fmt.Printf("Migrated legacy role %s for user %d\n", l.role, l.userID)
	}
}

// seedDemo creates a small approved team plus a pending account, two
// clients and a week of shifts.
func seedDemo(db *gorm.DB) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

	users := []struct {
		name  string
		email string
		role  string
	}{
		{"Maya Admin", "maya@example.com", rbac.RoleAdmin},
		{"Priya Manager", "priya@example.com", rbac.RoleProviderManager},
		{"Sam Worker", "sam@example.com", rbac.RoleSupportWorker},
	}

	for _, u := range users {
		var exists int
		if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.email).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec(
			"INSERT INTO users (name, email, password_hash, role, approved_at, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now(), now())",
			u.name, u.email, string(hash), u.role,
		).Error; err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}

		var userID, roleID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", u.email).Row().Scan(&userID); err != nil {
			log.Fatalf("failed to look up seeded user: %v", err)
		}
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", u.role).Row().Scan(&roleID); err != nil {
			log.Fatalf("failed to look up role %s: %v", u.role, err)
		}
		if err := db.Exec("INSERT INTO role_user (role_id, user_id) VALUES (?, ?)", roleID, userID).Error; err != nil {
			log.Fatalf("failed to attach role: %v", err)
		}
		fmt.Println("Seeded user:", u.email)
	}

	// One account stuck at the approval gate, for exercising the flow.
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", "pending@example.com").Row().Scan(&exists); err != nil {
		if err := db.Exec(
			"INSERT INTO users (name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
			"Pat Pending", "pending@example.com", string(hash),
		).Error; err != nil {
			log.Fatalf("failed to seed pending user: %v", err)
		}
		fmt.Println("Seeded pending user: pending@example.com")
	}

	clients := []struct{ first, last string }{
		{"Alex", "Rivera"},
		{"Jordan", "Lee"},
	}
	for _, c := range clients {
		if err := db.Raw("SELECT 1 FROM clients WHERE first_name = ? AND last_name = ?", c.first, c.last).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec(
			"INSERT INTO clients (first_name, last_name, status, created_at, updated_at) VALUES (?, ?, 'active', now(), now())",
			c.first, c.last,
		).Error; err != nil {
			log.Fatalf("failed to seed client: %v", err)
		}
		fmt.Printf("Seeded client: %s %s\n", c.first, c.last)
	}

	var workerID, clientID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", "sam@example.com").Row().Scan(&workerID); err != nil {
		return
	}
	if err := db.Raw("SELECT id FROM clients WHERE first_name = 'Alex'").Row().Scan(&clientID); err != nil {
		return
	}

	if err := db.Raw("SELECT 1 FROM client_user WHERE client_id = ? AND user_id = ?", clientID, workerID).Row().Scan(&exists); err != nil {
		if err := db.Exec("INSERT INTO client_user (client_id, user_id, created_at, updated_at) VALUES (?, ?, now(), now())", clientID, workerID).Error; err != nil {
			log.Fatalf("failed to assign demo client: %v", err)
		}
	}

	var shiftCount int64
	db.Raw("SELECT COUNT(*) FROM shifts WHERE user_id = ?", workerID).Row().Scan(&shiftCount)
	if shiftCount == 0 {
		start := time.Now().Truncate(24 * time.Hour).Add(9 * time.Hour)
		for day := 0; day < 5; day++ {
			s := start.AddDate(0, 0, day)
			e := s.Add(8 * time.Hour)
			if err := db.Exec(
				"INSERT INTO shifts (client_id, user_id, starts_at, ends_at, status, created_at, updated_at) VALUES (?, ?, ?, ?, 'scheduled', now(), now())",
				clientID, workerID, s, e,
			).Error; err != nil {
				log.Fatalf("failed to seed shift: %v", err)
			}
		}
		fmt.Println("Seeded a week of demo shifts")
	}
}
