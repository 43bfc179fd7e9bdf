package migrations

import (
	"github.com/coursehq/batchboard/internal/repository"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		createProfilesTable(),
		createBatchesTable(),
		createWebhookConfigsTable(),
		createNotificationsTable(),
	})

	return m.Migrate()
}

func createProfilesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_profiles",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.ProfileModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_email ON profiles (email)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.ProfileModel{})
		},
	}
}

func createBatchesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_batches",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.BatchModel{}); err != nil {
				return err
			}
			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_batches_department_status ON batches (department, status)`,
				`CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches (created_at DESC)`,
			}
			for _, sql := range indexes {
				if err := tx.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.BatchModel{})
		},
	}
}

func createWebhookConfigsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_webhook_configs",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.WebhookConfigModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_configs_department_active ON webhook_configs (department) WHERE is_active`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.WebhookConfigModel{})
		},
	}
}

func createNotificationsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000004_create_notifications",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.NotificationModel{}); err != nil {
				return err
			}
			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications (created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_notifications_batch_id ON notifications (batch_id) WHERE batch_id IS NOT NULL`,
			}
			for _, sql := range indexes {
				if err := tx.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.NotificationModel{})
		},
	}
}
