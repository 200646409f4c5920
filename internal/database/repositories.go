package database

import (
	"github.com/jmoiron/sqlx"

	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
	"github.com/michaelayoade/netops-backend-go/internal/database/sqlite"
)

// Repositories holds all repository instances
type Repositories struct {
	Metrics       repositories.MetricRepository
	Rules         repositories.RuleRepository
	Alerts        repositories.AlertRepository
	Policies      repositories.PolicyRepository
	Rotations     repositories.RotationRepository
	Templates     repositories.TemplateRepository
	Notifications repositories.NotificationRepository
	Devices       repositories.DeviceRepository
	Settings      repositories.SettingRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *sqlx.DB) *Repositories {
	return newRepositories(db)
}

// WithTx returns a repository set bound to the given transaction. The
// alerting pipeline uses this so every read and write of one sample shares
// a single atomic unit of work.
func (r *Repositories) WithTx(tx *sqlx.Tx) *Repositories {
	return newRepositories(tx)
}

func newRepositories(db sqlx.ExtContext) *Repositories {
	return &Repositories{
		Metrics:       sqlite.NewMetricRepository(db),
		Rules:         sqlite.NewRuleRepository(db),
		Alerts:        sqlite.NewAlertRepository(db),
		Policies:      sqlite.NewPolicyRepository(db),
		Rotations:     sqlite.NewRotationRepository(db),
		Templates:     sqlite.NewTemplateRepository(db),
		Notifications: sqlite.NewNotificationRepository(db),
		Devices:       sqlite.NewDeviceRepository(db),
		Settings:      sqlite.NewSettingRepository(db),
	}
}
