package workers

import (
	"context"
	"log"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

type ActivityCounter interface {
	CountInfos(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error)
	CountPlans(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error)
	SumUVs(ctx context.Context, irIDs []string, win domain.WindowSpec) (map[string]int, error)
}

type CountStore interface {
	SaveCounts(ctx context.Context, counts *domain.WeekCounts) error
}

type RecountJob struct {
	IRID string
	Key  domain.WeekKey
}

// RecountWorker recomputes an IR's weekly counts from detail records and
// writes them as an idempotent snapshot. It is the only writer of week
// counts, so replaying a job any number of times converges on the same row.
type RecountWorker struct {
	activities ActivityCounter
	counts     CountStore
	resolver   *domain.WeekResolver
	jobs       chan RecountJob
}

func NewRecountWorker(activities ActivityCounter, counts CountStore, resolver *domain.WeekResolver) *RecountWorker {
	return &RecountWorker{
		activities: activities,
		counts:     counts,
		resolver:   resolver,
		jobs:       make(chan RecountJob, 100),
	}
}

func (w *RecountWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Recount Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Recount Worker shutting down...")
				return
			}
		}
	}()
}

func (w *RecountWorker) Enqueue(irID string, key domain.WeekKey) {
	select {
	case w.jobs <- RecountJob{IRID: irID, Key: key}:
	default:
		log.Printf("Recount Worker queue full! Dropping job for ir %s %s", irID, key)
	}
}

func (w *RecountWorker) processJob(ctx context.Context, job RecountJob) {
	friday, err := w.resolver.FridayWindow(job.Key)
	if err != nil {
		log.Printf("Worker Error deriving friday window for %s: %v", job.Key, err)
		return
	}
	monday, err := w.resolver.MondayWindow(job.Key)
	if err != nil {
		log.Printf("Worker Error deriving monday window for %s: %v", job.Key, err)
		return
	}

	ids := []string{job.IRID}

	infos, err := w.activities.CountInfos(ctx, ids, friday)
	if err != nil {
		log.Printf("Worker Error counting infos for %s: %v", job.IRID, err)
		return
	}
	plans, err := w.activities.CountPlans(ctx, ids, monday)
	if err != nil {
		log.Printf("Worker Error counting plans for %s: %v", job.IRID, err)
		return
	}
	uvs, err := w.activities.SumUVs(ctx, ids, monday)
	if err != nil {
		log.Printf("Worker Error summing uvs for %s: %v", job.IRID, err)
		return
	}

	snapshot := &domain.WeekCounts{
		IRID:     job.IRID,
		Week:     job.Key.Week,
		Year:     job.Key.Year,
		InfoDone: infos[job.IRID],
		PlanDone: plans[job.IRID],
		UVDone:   uvs[job.IRID],
	}
	if err := w.counts.SaveCounts(ctx, snapshot); err != nil {
		log.Printf("Worker Failed to save counts for %s %s: %v", job.IRID, job.Key, err)
		return
	}
	log.Printf("Counts updated for %s %s: Info=%d, Plan=%d, UV=%d",
		job.IRID, job.Key, snapshot.InfoDone, snapshot.PlanDone, snapshot.UVDone)
}
