package reminders

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/CertTrack-HQ/certtrack-backend/internal/users"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/status"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/store"
)

// Sweeper walks every owner's employee collection and records a reminder
// for each certificate that is expiring soon or already expired.
type Sweeper struct {
	users         *users.Repo
	base          *store.Store
	repo          *Repo
	thresholdDays int
}

func NewSweeper(userRepo *users.Repo, base *store.Store, repo *Repo, thresholdDays int) *Sweeper {
	if thresholdDays <= 0 {
		thresholdDays = status.DefaultSoonThresholdDays
	}
	return &Sweeper{
		users:         userRepo,
		base:          base,
		repo:          repo,
		thresholdDays: thresholdDays,
	}
}

// Run performs one sweep. Failures for one owner are logged and do not
// stop the sweep for the rest.
func (s *Sweeper) Run(ctx context.Context) error {
	owners, err := s.users.ListIDs(ctx)
	if err != nil {
		return err
	}

	today := time.Now()
	total := 0
	for _, owner := range owners {
		n, err := s.sweepOwner(ctx, owner, today)
		if err != nil {
			log.Printf("reminder sweep: owner %s: %v", owner, err)
			continue
		}
		total += n
	}

	log.Printf("reminder sweep: recorded %d reminders across %d owners", total, len(owners))
	return nil
}

func (s *Sweeper) sweepOwner(ctx context.Context, owner string, today time.Time) (int, error) {
	scoped := s.base.Scoped(owner)
	employees, err := scoped.LoadEmployees(ctx)
	if err != nil {
		return 0, err
	}

	recorded := 0
	for _, e := range employees {
		if e.Status == domain.EmployeeArchived {
			continue
		}
		for _, c := range e.Certificates {
			cls := status.Certificate(c, today, s.thresholdDays)

			var kind Kind
			var days int
			switch cls.Tier {
			case status.TierExpiringSoon:
				kind, days = KindExpiringSoon, cls.DaysLeft
			case status.TierExpired:
				kind, days = KindExpired, -cls.DaysOverdue
			default:
				continue
			}

			rem := Reminder{
				OwnerID:         owner,
				EmployeeID:      e.ID,
				EmployeeName:    e.Name,
				CertificateID:   c.ID,
				CertificateName: c.Name,
				Kind:            kind,
				ExpiryDate:      c.ExpiryDate,
				DaysLeft:        days,
			}
			if err := s.repo.Record(ctx, rem); err != nil {
				return recorded, err
			}
			recorded++
		}
	}
	return recorded, nil
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
}

func NewScheduler(sw *Sweeper) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		sweeper: sw,
	}
}

// Start runs the sweep nightly at midnight.
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("0 0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := s.sweeper.Run(ctx); err != nil {
			log.Printf("reminder sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (reminder sweep nightly at 12:00AM)")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
